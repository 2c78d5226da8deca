package vnode

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves a color expression to packed ARGB.
//
// Accepted forms:
//   - "#RGB", "#RRGGBB", "#AARRGGBB" hex notation
//   - X11/CSS color names ("rebeccapurple", "dodgerblue", ...)
//
// Named colors are always fully opaque.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}

	if c, ok := colornames.Map[s]; ok {
		return 0xFF000000 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B), nil
	}
	return 0, fmt.Errorf("unknown color name %q", s)
}

// MustColor is ParseColor that panics on invalid input. Intended for
// package-level style constants in application code.
func MustColor(s string) uint32 {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHexColor(hex string) (uint32, error) {
	switch len(hex) {
	case 3: // RGB -> RRGGBB
		var expanded [6]byte
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded[:])
		fallthrough
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q", hex)
		}
		return 0xFF000000 | uint32(v), nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q", hex)
		}
		return uint32(v), nil
	default:
		return 0, fmt.Errorf("invalid hex color length %d", len(hex))
	}
}
