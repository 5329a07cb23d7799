package mapgen

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSettings reads the compact form written by Params.String on top of
// base. A bare number is taken as a seed. Keys that are left out keep their
// base values.
func ParseSettings(s string, base Params) (Params, error) {
	p := base
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return p, fmt.Errorf("%w: empty settings", ErrInvalidParams)
	}

	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			key, value = "seed", f
		}

		var err error
		switch key {
		case "seed":
			p.Seed, err = strconv.ParseUint(value, 10, 64)
		case "gen":
			p.Generator, err = strconv.Atoi(value)
		case "land":
			p.Land, err = strconv.Atoi(value)
		case "players":
			p.Players, err = strconv.Atoi(value)
		case "size":
			w, h, found := strings.Cut(value, "x")
			if !found {
				return base, fmt.Errorf("%w: size %q is not WxH", ErrInvalidParams, value)
			}
			if p.Width, err = strconv.Atoi(w); err == nil {
				p.Height, err = strconv.Atoi(h)
			}
		default:
			return base, fmt.Errorf("%w: unknown setting %q", ErrInvalidParams, key)
		}
		if err != nil {
			return base, fmt.Errorf("%w: %s: %v", ErrInvalidParams, key, err)
		}
	}

	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}
