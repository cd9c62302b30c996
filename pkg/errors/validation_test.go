package errors

import (
	"math"
	"testing"
)

func TestValidateProjectID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantCode Code
	}{
		{"simple", "p1", ""},
		{"with dash", "poker-ai", ""},
		{"with underscore", "undead_zone", ""},
		{"empty", "", ErrCodeMissingID},
		{"traversal", "../etc/passwd", ErrCodeInvalidID},
		{"slash", "a/b", ErrCodeInvalidID},
		{"backslash", `a\b`, ErrCodeInvalidID},
		{"control", "a\x00b", ErrCodeInvalidID},
		{"space", "a b", ErrCodeInvalidID},
		{"leading dash", "-x", ErrCodeInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectID(tt.id)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateProjectID(%q) = %v, want nil", tt.id, err)
				}
				return
			}
			if !Is(err, tt.wantCode) {
				t.Errorf("ValidateProjectID(%q) = %v, want code %s", tt.id, err, tt.wantCode)
			}
		})
	}
}

func TestValidateProjectIDMissingMessage(t *testing.T) {
	err := ValidateProjectID("")
	if got := UserMessage(err); got != "No project ID specified." {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"desktop", 1920, 1080, false},
		{"mobile", 400, 800, false},
		{"zero width", 0, 800, true},
		{"negative height", 400, -1, true},
		{"nan", math.NaN(), 800, true},
		{"inf", math.Inf(1), 800, true},
		{"at limit", MaxViewportDimension, MaxViewportDimension, false},
		{"too wide", MaxViewportDimension + 1, 800, true},
		{"huge", 1e300, 1e300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewport(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateViewport(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidViewport) {
				t.Errorf("expected INVALID_VIEWPORT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/projects.json", false},
		{"http://localhost:8080/data", false},
		{"", true},
		{"ftp://example.com", true},
		{"./data/projects.json", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
