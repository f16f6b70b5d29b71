// Package palette turns the free-form colour strings attached to bodies
// into concrete colours shared by every renderer.
package palette

import (
	"hash/fnv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]string{
	"yellow": "#ffd23f",
	"orange": "#ff8c42",
	"red":    "#e4572e",
	"blue":   "#3a86ff",
	"green":  "#2ec4b6",
	"gray":   "#a0a0a0",
	"grey":   "#a0a0a0",
	"white":  "#f5f5f5",
	"cyan":   "#00d1ff",
	"purple": "#9b5de5",
	"brown":  "#a47148",
}

// Resolve maps a body colour to an RGB value. Known names and #rrggbb hex
// strings are honoured; anything else gets a stable hue derived from key.
func Resolve(color, key string) colorful.Color {
	c := strings.ToLower(strings.TrimSpace(color))
	if hex, ok := named[c]; ok {
		c = hex
	}
	if strings.HasPrefix(c, "#") {
		if col, err := colorful.Hex(c); err == nil {
			return col
		}
	}
	return fromKey(key)
}

func fromKey(key string) colorful.Color {
	h := fnv.New32a()
	h.Write([]byte(key))
	return colorful.Hcl(float64(h.Sum32()%360), 0.6, 0.7).Clamped()
}

// Hex is Resolve formatted as #rrggbb.
func Hex(color, key string) string {
	return Resolve(color, key).Hex()
}

// Fade blends c toward bg; t = 0 keeps c, t = 1 gives bg.
func Fade(c, bg colorful.Color, t float64) colorful.Color {
	return c.BlendLab(bg, t).Clamped()
}

// RGBA8 returns 8-bit channels for renderers that want bytes.
func RGBA8(c colorful.Color) (r, g, b, a uint8) {
	r, g, b = c.Clamped().RGB255()
	return r, g, b, 255
}
