package sidecar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/skillsenselab/diarkit/errors"
	"github.com/skillsenselab/diarkit/provider"
	"github.com/skillsenselab/diarkit/separation"
)

const (
	// ProviderName is the registered name for the sidecar provider.
	ProviderName = "sepformer"

	defaultBaseURL = "http://localhost:8391"
	defaultTimeout = 600 * time.Second
)

// Config holds configuration for the separation sidecar provider.
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// Provider implements separation.Provider using the HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new sidecar provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Factory returns a provider.Factory that creates sidecar providers from
// a generic config map.
func Factory() provider.Factory[separation.Provider] {
	return func(cfg map[string]any) (separation.Provider, error) {
		pc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			pc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			pc.Timeout = v
		}
		return NewProvider(pc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar is reachable.
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

// Separate uploads the mono recording and writes the separated stereo WAV
// to req.OutputPath.
func (p *Provider) Separate(ctx context.Context, req separation.Request) error {
	audioData, err := os.ReadFile(req.InputPath)
	if err != nil {
		return errors.AudioUnreadable(req.InputPath, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return fmt.Errorf("write audio data: %w", err)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/separate", &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return errors.SeparationFailed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.SeparationFailed(
			fmt.Errorf("sidecar status %d: %s", resp.StatusCode, string(body)))
	}

	out, err := os.Create(req.OutputPath)
	if err != nil {
		return errors.SeparationFailed(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return errors.SeparationFailed(err)
	}
	return nil
}
