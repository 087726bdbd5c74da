package operator

import (
	"strconv"
	"strings"
)

// sliceText applies a start:stop:step range to s. Components that are empty
// or not integers take their defaults (start 0, stop end, step 1). Negative
// indices count from the end. More than three components or a zero step
// fail.
func sliceText(s, rng string) (string, bool) {
	parts := strings.Split(rng, ":")
	if len(parts) > 3 {
		return "", false
	}

	var bounds [3]*int
	bounds[0] = new(int)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		bounds[i] = &n
	}

	step := 1
	if bounds[2] != nil {
		step = *bounds[2]
	}
	if step == 0 {
		return "", false
	}

	runes := []rune(s)
	start, stop := indices(len(runes), bounds[0], bounds[1], step)

	var b strings.Builder
	if step > 0 {
		for i := start; i < stop; i += step {
			b.WriteRune(runes[i])
		}
	} else {
		for i := start; i > stop; i += step {
			b.WriteRune(runes[i])
		}
	}

	return b.String(), true
}

// indices clamps start and stop to a sequence of length n.
func indices(n int, start, stop *int, step int) (int, int) {
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}

	clamp := func(p *int, def int) int {
		if p == nil {
			return def
		}
		v := *p
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
			return v
		}
		if v > upper {
			v = upper
		}
		return v
	}

	if step < 0 {
		return clamp(start, upper), clamp(stop, lower)
	}
	return clamp(start, lower), clamp(stop, upper)
}
