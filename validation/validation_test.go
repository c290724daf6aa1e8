package validation

import (
	"strings"
	"testing"

	"github.com/skillsenselab/diarkit/errors"
)

type thresholds struct {
	Pause   float64 `mapstructure:"pause" validate:"gt=0"`
	Balance float64 `mapstructure:"balance" validate:"gte=0,lte=1"`
	Name    string  `mapstructure:"name" validate:"required"`
}

func TestValidateOK(t *testing.T) {
	err := Validate(thresholds{Pause: 0.5, Balance: 0.1, Name: "acoustic"})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	err := Validate(thresholds{Pause: 0, Balance: 1.5})
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}

	msg := appErr.Message
	for _, want := range []string{"pause", "balance", "name"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to mention %q, got %q", want, msg)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SegmentPause", "segment_pause"},
		{"MinChannelDifference", "min_channel_difference"},
		{"pause", "pause"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
