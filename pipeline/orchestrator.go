package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/diarkit/audio"
	"github.com/skillsenselab/diarkit/diarize"
	"github.com/skillsenselab/diarkit/logger"
	"github.com/skillsenselab/diarkit/observability"
	"github.com/skillsenselab/diarkit/resilience"
	"github.com/skillsenselab/diarkit/separation"
	"github.com/skillsenselab/diarkit/stt"
	"github.com/skillsenselab/diarkit/voice"
)

// Stage names, in execution order.
const (
	StageDetectType          = "detect_type"
	StageSeparate            = "separate"
	StageProviderDiarization = "provider_diarization"
	StageAcousticDiarization = "acoustic_diarization"
	StageFallback            = "fallback_single_speaker"
)

// Stage outcomes recorded in the trace and on the stage counter.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Config tunes the orchestrator and its stages.
type Config struct {
	// Language is passed to the transcription provider.
	Language string `mapstructure:"language"`

	// SeparationEnabled turns the mono-to-stereo separation stage on.
	SeparationEnabled bool `mapstructure:"separation_enabled"`

	// ProviderSampleRate is the rate the transcription provider expects;
	// audio is resampled to it and downmixed to mono before upload.
	ProviderSampleRate int `mapstructure:"provider_sample_rate" validate:"gt=0"`

	// WorkDir holds intermediate WAV files; empty means the OS temp dir.
	WorkDir string `mapstructure:"work_dir"`

	// Retry bounds the transcription network call. Acoustic and semantic
	// stages run once; only the provider call gets a retry budget.
	Retry resilience.RetryConfig

	Detector  diarize.DetectorConfig `mapstructure:"detector"`
	Acoustic  diarize.AcousticConfig `mapstructure:"acoustic"`
	Semantic  diarize.SemanticConfig `mapstructure:"semantic"`
	Extractor voice.ExtractorConfig  `mapstructure:"extractor"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Language:           "en-US",
		SeparationEnabled:  false,
		ProviderSampleRate: 16000,
		Retry:              resilience.DefaultRetryConfig(),
		Detector:           diarize.DefaultDetectorConfig(),
		Acoustic:           diarize.DefaultAcousticConfig(),
		Semantic:           diarize.DefaultSemanticConfig(),
		Extractor:          voice.DefaultExtractorConfig(),
	}
}

// Request describes one call to diarize. Words may carry a transcript
// obtained out of band; when empty and a transcription provider is
// configured, the orchestrator transcribes the audio itself.
type Request struct {
	AudioPath string
	Words     []stt.Word
}

// StageResult is one entry of a call's stage trace.
type StageResult struct {
	Stage   string `json:"stage"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

// Outcome is the terminal result of a call. It always carries a usable
// transcript; the Trace records how the pipeline got there.
type Outcome struct {
	CallID      string                 `json:"call_id"`
	Result      *diarize.Result        `json:"result"`
	Transcript  string                 `json:"transcript"`
	IsStereo    bool                   `json:"is_stereo"`
	Channel     diarize.ChannelProfile `json:"channel_profile"`
	Separated   bool                   `json:"separated"`
	RoleChanges int                    `json:"role_changes"`
	Trace       []StageResult          `json:"trace"`
	Duration    float64                `json:"duration_seconds"`
}

// Orchestrator drives one call at a time through the diarization stages.
// Each call owns its own profiles, segments, and buffers; a single
// Orchestrator is safe to share across concurrent calls.
type Orchestrator struct {
	cfg       Config
	detector  *diarize.Detector
	acoustic  *diarize.AcousticDiarizer
	corrector *diarize.RoleCorrector
	stt       stt.Provider
	separator *separation.Manager
	metrics   *observability.PipelineMetrics
	log       *logger.Logger
}

// NewOrchestrator validates the config and wires the stages. The
// transcription provider, separation manager, and metrics are optional;
// the corresponding stages are skipped or silent when nil.
func NewOrchestrator(cfg Config, sttProvider stt.Provider, separator *separation.Manager, metrics *observability.PipelineMetrics, log *logger.Logger) (*Orchestrator, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("pipeline")

	detector, err := diarize.NewDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	acoustic, err := diarize.NewAcousticDiarizer(cfg.Acoustic, log)
	if err != nil {
		return nil, err
	}
	corrector, err := diarize.NewRoleCorrector(cfg.Semantic, diarize.DefaultVocabulary(), log)
	if err != nil {
		return nil, err
	}
	if cfg.ProviderSampleRate <= 0 {
		cfg.ProviderSampleRate = DefaultConfig().ProviderSampleRate
	}

	return &Orchestrator{
		cfg:       cfg,
		detector:  detector,
		acoustic:  acoustic,
		corrector: corrector,
		stt:       sttProvider,
		separator: separator,
		metrics:   metrics,
		log:       log,
	}, nil
}

// Run diarizes one call. It never returns an error: whatever fails along
// the way, the outcome holds at worst a single-speaker transcript.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Outcome {
	start := time.Now()
	out := &Outcome{CallID: uuid.NewString()}
	log := o.log.WithFields(logger.Fields("call_id", out.CallID))

	ctx, span := observability.StartSpan(ctx, "diarize.call")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCallID, out.CallID)

	clip := o.detectType(ctx, req.AudioPath, out, log)
	clip = o.maybeSeparate(ctx, req.AudioPath, clip, out, log)
	words := o.tryProviderDiarization(ctx, req, clip, out, log)
	if out.Result == nil {
		o.tryAcousticDiarization(ctx, words, clip, out, log)
	}
	if out.Result == nil {
		o.fallbackSingleSpeaker(ctx, words, out, log)
	}

	out.Transcript = diarize.FormatTranscript(out.Result.Segments)
	out.Duration = time.Since(start).Seconds()

	observability.SetSpanAttribute(ctx, observability.AttrMethod, out.Result.Method)
	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, len(out.Result.Segments))
	observability.SetSpanAttribute(ctx, observability.AttrSpeakerCount, len(out.Result.Speakers()))
	if o.metrics != nil {
		o.metrics.RecordCall(ctx, out.Result.Method, time.Since(start))
	}
	log.Info("call diarized", logger.Fields(
		"method", out.Result.Method,
		"segments", len(out.Result.Segments),
		"speakers", len(out.Result.Speakers()),
		"duration_s", out.Duration,
	))
	return out
}

// detectType reads the audio and classifies the call as mono or stereo.
// Unreadable audio degrades to a mono verdict; the provider stage can
// still work from the original file path.
func (o *Orchestrator) detectType(ctx context.Context, audioPath string, out *Outcome, log *logger.Logger) *audio.Clip {
	var clip *audio.Clip
	o.stage(ctx, out, StageDetectType, func(ctx context.Context) error {
		c, err := audio.ReadWAV(audioPath)
		if err != nil {
			return err
		}
		clip = c
		isStereo, profile := o.detector.Detect(clip)
		out.IsStereo = isStereo
		out.Channel = profile
		observability.SetSpanAttribute(ctx, "call.stereo", isStereo)
		log.Info("call type detected", logger.Fields(
			"stereo", isStereo,
			"reason", profile.Reason,
		))
		return nil
	})
	return clip
}

// maybeSeparate runs the separation model on mono calls when enabled. On
// success the pseudo-stereo output replaces the working audio and the call
// is treated as stereo downstream.
func (o *Orchestrator) maybeSeparate(ctx context.Context, audioPath string, clip *audio.Clip, out *Outcome, log *logger.Logger) *audio.Clip {
	if out.IsStereo || !o.cfg.SeparationEnabled || o.separator == nil || clip == nil {
		out.Trace = append(out.Trace, StageResult{Stage: StageSeparate, Outcome: OutcomeSkipped})
		return clip
	}

	separated := clip
	o.stage(ctx, out, StageSeparate, func(ctx context.Context) error {
		outPath := filepath.Join(o.workDir(), out.CallID+"_separated.wav")
		defer os.Remove(outPath)

		if !o.separator.Invoke(ctx, audioPath, outPath) {
			return fmt.Errorf("separation model reported failure")
		}
		c, err := audio.ReadWAV(outPath)
		if err != nil {
			return err
		}
		if c.Channels() < 2 {
			return fmt.Errorf("separation produced %d channel(s), want 2", c.Channels())
		}
		separated = c
		out.IsStereo = true
		out.Separated = true
		log.Info("mono call separated into pseudo-stereo")
		return nil
	})
	return separated
}

// tryProviderDiarization obtains a word transcript and, when the provider
// tagged at least two distinct speakers, builds the result directly from
// the tags. The word list is returned for the later stages either way.
func (o *Orchestrator) tryProviderDiarization(ctx context.Context, req Request, clip *audio.Clip, out *Outcome, log *logger.Logger) []stt.Word {
	words := req.Words
	o.stage(ctx, out, StageProviderDiarization, func(ctx context.Context) error {
		if len(words) == 0 {
			if o.stt == nil {
				return fmt.Errorf("no transcript and no transcription provider configured")
			}
			res, err := o.transcribe(ctx, req.AudioPath, clip, out.CallID)
			if err != nil {
				return err
			}
			words = res.Words
		}

		if tags := stt.DistinctSpeakerTags(words); tags < 2 {
			return fmt.Errorf("provider tagged %d distinct speaker(s), need 2", tags)
		}

		out.Result = &diarize.Result{
			Segments: diarize.SegmentsFromSpeakerTags(words),
			Method:   diarize.MethodProviderNative,
		}
		log.Info("provider speaker tags accepted", logger.Fields(
			"segments", len(out.Result.Segments),
		))
		return nil
	})
	return words
}

// transcribe uploads provider-rate mono audio and returns the word
// transcript, retrying the network call within the configured budget.
func (o *Orchestrator) transcribe(ctx context.Context, audioPath string, clip *audio.Clip, callID string) (*stt.Result, error) {
	path := audioPath
	rate := 0
	if clip != nil {
		mono, err := clip.Mono().Resample(o.cfg.ProviderSampleRate)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(o.workDir(), callID+"_stt.wav")
		if err := audio.WriteWAV(path, mono); err != nil {
			return nil, err
		}
		defer os.Remove(path)
		rate = o.cfg.ProviderSampleRate
	}

	sttReq := stt.Request{
		AudioPath:         path,
		SampleRate:        rate,
		NumChannels:       1,
		Language:          o.cfg.Language,
		EnableDiarization: true,
	}
	return resilience.Retry(ctx, o.cfg.Retry, func() (*stt.Result, error) {
		return o.stt.Transcribe(ctx, sttReq)
	})
}

// tryAcousticDiarization runs the acoustic pass and the semantic role
// correction. Success needs at least one segment with non-empty text.
func (o *Orchestrator) tryAcousticDiarization(ctx context.Context, words []stt.Word, clip *audio.Clip, out *Outcome, log *logger.Logger) {
	o.stage(ctx, out, StageAcousticDiarization, func(ctx context.Context) error {
		if clip == nil {
			return fmt.Errorf("no readable audio for acoustic analysis")
		}
		extractor, err := voice.NewExtractor(clip, o.cfg.Extractor)
		if err != nil {
			return err
		}

		res, err := o.acoustic.Diarize(words, extractor, out.IsStereo)
		if err != nil {
			return err
		}

		corrected, changes := o.corrector.Correct(res.Segments)
		res.Segments = corrected

		if !hasTranscriptLine(res.Segments) {
			return fmt.Errorf("acoustic pass produced no transcript lines")
		}
		out.Result = res
		out.RoleChanges = changes
		log.Info("acoustic diarization accepted", logger.Fields(
			"segments", len(res.Segments),
			"role_changes", changes,
		))
		return nil
	})
}

// fallbackSingleSpeaker is the terminal stage; it cannot fail.
func (o *Orchestrator) fallbackSingleSpeaker(ctx context.Context, words []stt.Word, out *Outcome, log *logger.Logger) {
	o.stage(ctx, out, StageFallback, func(ctx context.Context) error {
		out.Result = &diarize.Result{
			Segments: []diarize.Segment{diarize.SingleSpeakerSegment(words)},
			Method:   diarize.MethodSingleSpeaker,
		}
		log.Warn("falling back to single-speaker transcript")
		return nil
	})
}

// stage runs fn inside a span, converts panics to failures, and records
// the outcome in the trace and on the stage counter. Stage errors never
// leave the orchestrator.
func (o *Orchestrator) stage(ctx context.Context, out *Outcome, name string, fn func(context.Context) error) {
	ctx, span := observability.StartSpan(ctx, "diarize."+name)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrStage, name)

	err := protect(ctx, fn)

	outcome := OutcomeOK
	result := StageResult{Stage: name, Outcome: OutcomeOK}
	if err != nil {
		outcome = OutcomeFailed
		result.Outcome = OutcomeFailed
		result.Detail = err.Error()
		observability.SetSpanError(ctx, err)
		if o.metrics != nil {
			o.metrics.RecordError(ctx, "stage_failure", name)
		}
		o.log.Warn("stage failed", logger.Fields(
			"stage", name,
			"reason", err.Error(),
		))
	}
	observability.SetSpanAttribute(ctx, observability.AttrStatus, outcome)
	if o.metrics != nil {
		o.metrics.RecordStage(ctx, name, outcome)
	}
	out.Trace = append(out.Trace, result)
}

func protect(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v", r)
		}
	}()
	return fn(ctx)
}

func (o *Orchestrator) workDir() string {
	if o.cfg.WorkDir != "" {
		return o.cfg.WorkDir
	}
	return os.TempDir()
}

func hasTranscriptLine(segments []diarize.Segment) bool {
	for _, s := range segments {
		if s.Text != "" {
			return true
		}
	}
	return false
}
