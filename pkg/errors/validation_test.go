package errors

import (
	"testing"
)

func TestValidateDashboardTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Home", false},
		{"valid with spaces", "Media Server Links", false},
		{"valid with punctuation", "Dev: staging & prod", false},
		{"valid unicode", "Übersicht", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDashboardTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDashboardTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWidgetID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "a4f9c2d0-7b1e-4f3a-9c8d-2e5b6a1f0d3c", false},
		{"slug", "weather-widget", false},
		{"with underscore", "clock_1", false},
		{"with dot", "feeds.news", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path separator", "foo/bar", true},
		{"path traversal", "../secret", true},
		{"leading dash", "-widget", true},
		{"spaces", "my widget", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWidgetID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWidgetID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidWidget) {
				t.Errorf("ValidateWidgetID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateBreakpointName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"wide", "wide", false},
		{"medium", "medium", false},
		{"with dash", "ultra-wide", false},
		{"with digit", "cols4", false},

		{"empty", "", true},
		{"uppercase", "Wide", true},
		{"leading digit", "4cols", true},
		{"leading dash", "-wide", true},
		{"spaces", "very wide", true},
		{"too long", "abcdefghijklmnopqrstuvwxyzabcdefghij", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBreakpointName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBreakpointName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidBreakpoint) {
				t.Errorf("ValidateBreakpointName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "dashboards/home.json", false},
		{"valid nested", "data/dashboards/home/layout.json", false},
		{"valid filename only", "stacklume.toml", false},
		{"valid with dots", "v1.2.3/dashboard.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}
