package voicekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/skillsenselab/diarkit/errors"
	"github.com/skillsenselab/diarkit/provider"
	"github.com/skillsenselab/diarkit/stt"
)

const (
	// ProviderName is the registered name for the VoiceKit provider.
	ProviderName = "voicekit"

	defaultBaseURL  = "http://localhost:8390"
	defaultTimeout  = 300 * time.Second
	defaultAudience = "voicekit.stt"
	defaultLanguage = "en-US"
)

// Config holds configuration for the VoiceKit provider.
type Config struct {
	BaseURL   string        `json:"base_url"`
	APIKey    string        `json:"api_key"`
	SecretKey string        `json:"secret_key"`
	Audience  string        `json:"audience"`
	Language  string        `json:"language"`
	Timeout   time.Duration `json:"timeout"`
}

// Provider implements stt.Provider against a VoiceKit recognition service.
type Provider struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// NewProvider creates a new VoiceKit provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Audience == "" {
		cfg.Audience = defaultAudience
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

// Factory returns a provider.Factory that creates VoiceKit providers from
// a generic config map.
func Factory() provider.Factory[stt.Provider] {
	return func(cfg map[string]any) (stt.Provider, error) {
		pc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			pc.BaseURL = v
		}
		if v, ok := cfg["api_key"].(string); ok {
			pc.APIKey = v
		}
		if v, ok := cfg["secret_key"].(string); ok {
			pc.SecretKey = v
		}
		if v, ok := cfg["audience"].(string); ok {
			pc.Audience = v
		}
		if v, ok := cfg["language"].(string); ok {
			pc.Language = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			pc.Timeout = v
		}
		return NewProvider(pc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the recognition service is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe uploads the audio and returns word-level recognition results.
func (p *Provider) Transcribe(ctx context.Context, req stt.Request) (*stt.Result, error) {
	audioData, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, errors.AudioUnreadable(req.AudioPath, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	language := req.Language
	if language == "" {
		language = p.cfg.Language
	}
	_ = writer.WriteField("language", language)
	if req.SampleRate > 0 {
		_ = writer.WriteField("sample_rate", fmt.Sprintf("%d", req.SampleRate))
	}
	if req.NumChannels > 0 {
		_ = writer.WriteField("num_channels", fmt.Sprintf("%d", req.NumChannels))
	}
	if req.EnableDiarization {
		_ = writer.WriteField("enable_diarization", "true")
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/recognize", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	token, err := authToken(p.cfg.APIKey, p.cfg.SecretKey, p.cfg.Audience, p.now())
	if err != nil {
		return nil, fmt.Errorf("sign auth token: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errors.ProviderUnavailable(ProviderName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.ProviderResponse(ProviderName,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.ProviderResponse(ProviderName, "decode response: "+err.Error())
	}
	if result.Error != "" {
		return nil, errors.ProviderResponse(ProviderName, result.Error)
	}

	return toResult(&result)
}

// --- internal VoiceKit API types ---

type recognizeResponse struct {
	Results []recognizeResult `json:"results"`
	Error   string            `json:"error,omitempty"`
}

type recognizeResult struct {
	Alternatives []recognizeAlternative `json:"alternatives"`
}

type recognizeAlternative struct {
	Transcript string          `json:"transcript"`
	Words      []recognizeWord `json:"words"`
}

type recognizeWord struct {
	Word       string  `json:"word"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Confidence float64 `json:"confidence"`
	SpeakerTag int     `json:"speaker_tag"`
}

func toResult(resp *recognizeResponse) (*stt.Result, error) {
	out := &stt.Result{}
	var transcripts []string
	for _, res := range resp.Results {
		for _, alt := range res.Alternatives {
			if alt.Transcript != "" {
				transcripts = append(transcripts, alt.Transcript)
			}
			for _, w := range alt.Words {
				start, err := stt.ParseTimestamp(w.StartTime)
				if err != nil {
					return nil, errors.ProviderResponse(ProviderName, "bad start_time "+w.StartTime)
				}
				end, err := stt.ParseTimestamp(w.EndTime)
				if err != nil {
					return nil, errors.ProviderResponse(ProviderName, "bad end_time "+w.EndTime)
				}
				out.Words = append(out.Words, stt.Word{
					Text:       w.Word,
					Start:      start,
					End:        end,
					Confidence: w.Confidence,
					SpeakerTag: w.SpeakerTag,
				})
			}
		}
	}
	out.Transcript = strings.Join(transcripts, " ")
	return out, nil
}
