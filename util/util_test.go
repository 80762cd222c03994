package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 99},
		{"10MB", 10 << 20},
		{"512kb", 512 << 10},
		{" 2GB ", 2 << 30},
		{"64", 64},
		{"64B", 64},
		{"lots", 99},
		{"-5MB", 99},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSize(tt.in, 99); got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("AIzaSyExample", 4); got != "AIza***" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := MaskSecret("abc", 4); got != "***" {
		t.Errorf("short secrets should be fully masked, got %q", got)
	}
	if got := MaskSecret("", 4); got != "" {
		t.Errorf("empty secret should stay empty, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("ERROR: video unavailable", 5); got != "ERROR..." {
		t.Errorf("unexpected truncation %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
}
