package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Varanasi", want: "Varanasi"},
		{name: "surrounding space", input: "  Varanasi  ", want: "Varanasi"},
		{name: "inner runs collapse", input: "Assi \t Ghat   Road", want: "Assi Ghat Road"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCeremony(t *testing.T) {
	if got := NormalizeCeremony("  Griha   Pravesh "); got != "griha pravesh" {
		t.Errorf("got %q", got)
	}
	// Idempotent.
	if got := NormalizeCeremony(NormalizeCeremony("Satyanarayan Puja")); got != "satyanarayan puja" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeCeremonies(t *testing.T) {
	got := NormalizeCeremonies([]string{"Griha Pravesh", "griha pravesh", "", "  ", "Upanayana"})
	want := []string{"griha pravesh", "upanayana"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "e164 passes through", input: "+919876543210", want: "+919876543210"},
		{name: "national indian number", input: "098765 43210", want: "+919876543210"},
		{name: "us number", input: "+1 212 555 0123", want: "+12125550123"},
		{name: "empty", input: "", want: ""},
		{name: "garbage", input: "not-a-phone", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
