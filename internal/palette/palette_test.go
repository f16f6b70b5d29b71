package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  string
	}{
		{"named", "yellow", "#ffd23f"},
		{"named mixed case", " Blue ", "#3a86ff"},
		{"hex", "#7fdbff", "#7fdbff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(tt.color, "x"); got != tt.want {
				t.Errorf("Hex(%q) = %s, want %s", tt.color, got, tt.want)
			}
		})
	}
}

func TestResolve_FallbackIsStable(t *testing.T) {
	a := Hex("", "Comet")
	b := Hex("not-a-colour", "Comet")
	if a != b {
		t.Errorf("expected the same fallback colour, got %s and %s", a, b)
	}
	if !Resolve("", "Comet").IsValid() {
		t.Error("fallback colour out of gamut")
	}
}

func TestFade(t *testing.T) {
	c, _ := colorful.Hex("#ff0000")
	bg, _ := colorful.Hex("#000000")

	if got := Fade(c, bg, 0).Hex(); got != "#ff0000" {
		t.Errorf("expected unchanged colour, got %s", got)
	}
	if got := Fade(c, bg, 1).Hex(); got != "#000000" {
		t.Errorf("expected background, got %s", got)
	}
}

func TestRGBA8(t *testing.T) {
	c, _ := colorful.Hex("#3a86ff")
	r, g, b, a := RGBA8(c)
	if r != 0x3a || g != 0x86 || b != 0xff || a != 255 {
		t.Errorf("unexpected channels %d %d %d %d", r, g, b, a)
	}
}
