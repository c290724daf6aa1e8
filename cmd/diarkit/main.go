// Command diarkit diarizes a recorded two-party phone call: it reads a WAV
// file (and optionally a word-level transcript), runs the diarization
// pipeline, and writes the speaker-attributed transcript as plain text and
// as a structured JSON record.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillsenselab/diarkit/config"
	"github.com/skillsenselab/diarkit/logger"
	"github.com/skillsenselab/diarkit/observability"
	"github.com/skillsenselab/diarkit/pipeline"
	"github.com/skillsenselab/diarkit/resilience"
	"github.com/skillsenselab/diarkit/separation"
	"github.com/skillsenselab/diarkit/separation/sidecar"
	"github.com/skillsenselab/diarkit/stt"
	"github.com/skillsenselab/diarkit/stt/voicekit"
	"github.com/skillsenselab/diarkit/version"
)

const serviceName = "diarkit"

type sttConfig struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	Provider       string `yaml:"provider" mapstructure:"provider"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key"`
	Audience       string `yaml:"audience" mapstructure:"audience"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type separationConfig struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	Provider       string `yaml:"provider" mapstructure:"provider"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxConcurrent  int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

type telemetryConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline   pipeline.Config  `yaml:"pipeline" mapstructure:"pipeline"`
	STT        sttConfig        `yaml:"stt" mapstructure:"stt"`
	Separation separationConfig `yaml:"separation" mapstructure:"separation"`
	Telemetry  telemetryConfig  `yaml:"telemetry" mapstructure:"telemetry"`
}

func main() {
	var (
		audioPath      = flag.String("audio", "", "path to the call recording (WAV)")
		transcriptPath = flag.String("transcript", "", "optional word-transcript JSON (array of words)")
		outDir         = flag.String("out", ".", "output directory")
		configFile     = flag.String("config", "", "config file path")
		envFile        = flag.String("env", "", ".env file path")
		language       = flag.String("language", "", "override the transcription language")
		separate       = flag.Bool("separate", false, "force the mono-to-stereo separation stage on")
		showVersion    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(serviceName, version.GetFullVersion())
		return
	}
	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: diarkit -audio call.wav [-transcript words.json] [-out dir]")
		os.Exit(2)
	}

	cfg := appConfig{Pipeline: pipeline.DefaultConfig()}
	var loadOpts []config.LoaderOption
	if *configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(*envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, loadOpts...); err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if *language != "" {
		cfg.Pipeline.Language = *language
	}
	if *separate {
		cfg.Pipeline.SeparationEnabled = true
		cfg.Separation.Enabled = true
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)
	log.Info("starting", logger.Fields("version", version.GetShortVersion()))

	ctx := context.Background()
	metrics := initTelemetry(ctx, cfg, log)

	var sttProvider stt.Provider
	if cfg.STT.Enabled {
		backends := stt.NewRegistry()
		backends.Register(voicekit.ProviderName, voicekit.Factory())
		name := cfg.STT.Provider
		if name == "" {
			name = voicekit.ProviderName
		}
		p, err := backends.Resolve(name, map[string]any{
			"base_url":   cfg.STT.BaseURL,
			"api_key":    cfg.STT.APIKey,
			"secret_key": cfg.STT.SecretKey,
			"audience":   cfg.STT.Audience,
			"language":   cfg.Pipeline.Language,
			"timeout":    time.Duration(cfg.STT.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			log.WithError(err).Error("building transcription backend")
			os.Exit(1)
		}
		sttProvider = p
	}

	var manager *separation.Manager
	if cfg.Separation.Enabled {
		cfg.Pipeline.SeparationEnabled = true
		bulkheadCfg := resilience.DefaultBulkheadConfig("separation")
		if cfg.Separation.MaxConcurrent > 0 {
			bulkheadCfg.MaxConcurrent = cfg.Separation.MaxConcurrent
		}
		backends := separation.NewRegistry()
		backends.Register(sidecar.ProviderName, sidecar.Factory())
		name := cfg.Separation.Provider
		if name == "" {
			name = sidecar.ProviderName
		}
		// Build, not Resolve: the manager reloads its backend by asking the
		// factory for a fresh instance.
		manager = separation.NewManager(func() (separation.Provider, error) {
			return backends.Build(name, map[string]any{
				"base_url": cfg.Separation.BaseURL,
				"timeout":  time.Duration(cfg.Separation.TimeoutSeconds) * time.Second,
			})
		}, bulkheadCfg, log)
		defer manager.Shutdown()
	}

	orchestrator, err := pipeline.NewOrchestrator(cfg.Pipeline, sttProvider, manager, metrics, log)
	if err != nil {
		log.WithError(err).Error("building pipeline")
		os.Exit(1)
	}

	words, err := loadTranscript(*transcriptPath)
	if err != nil {
		log.WithError(err).Error("reading transcript")
		os.Exit(1)
	}

	outcome := orchestrator.Run(ctx, pipeline.Request{AudioPath: *audioPath, Words: words})

	fmt.Println(outcome.Transcript)
	if err := saveOutputs(*outDir, *audioPath, outcome); err != nil {
		log.WithError(err).Error("saving outputs")
		os.Exit(1)
	}
}

// initTelemetry wires the OTLP exporters when enabled; disabled telemetry
// returns nil metrics, which the pipeline treats as a no-op.
func initTelemetry(ctx context.Context, cfg appConfig, log *logger.Logger) *observability.PipelineMetrics {
	if !cfg.Telemetry.Enabled {
		return nil
	}

	tracerCfg := observability.DefaultTracerConfig(cfg.Name)
	meterCfg := observability.DefaultMeterConfig(cfg.Name)
	tracerCfg.Environment = cfg.Environment
	meterCfg.Environment = cfg.Environment
	if cfg.Telemetry.Endpoint != "" {
		tracerCfg.Endpoint = cfg.Telemetry.Endpoint
		meterCfg.Endpoint = cfg.Telemetry.Endpoint
	}

	if _, err := observability.InitTracer(ctx, tracerCfg); err != nil {
		log.WithError(err).Warn("tracing disabled")
	}
	if _, err := observability.InitMeter(ctx, meterCfg); err != nil {
		log.WithError(err).Warn("metrics disabled")
		return nil
	}
	metrics, err := observability.NewPipelineMetrics(observability.Meter(cfg.Name))
	if err != nil {
		log.WithError(err).Warn("metrics disabled")
		return nil
	}
	return metrics
}

// loadTranscript reads a JSON array of provider words; an empty path means
// the pipeline transcribes the audio itself.
func loadTranscript(path string) ([]stt.Word, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []stt.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return words, nil
}

// saveOutputs writes the plain transcript and the structured record next
// to each other, named after the input recording.
func saveOutputs(dir, audioPath string, outcome *pipeline.Outcome) error {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	txtPath := filepath.Join(dir, base+"_diarization.txt")
	if err := os.WriteFile(txtPath, []byte(outcome.Transcript+"\n"), 0o644); err != nil {
		return err
	}

	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(dir, base+"_diarization.json")
	return os.WriteFile(jsonPath, append(data, '\n'), 0o644)
}
