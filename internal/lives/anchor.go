package lives

import (
	"fmt"
	"time"
)

// Normalize turns stored, possibly absent values into a State. A missing
// life count means full and a missing anchor means now.
func (p Policy) Normalize(stored *int, anchor *time.Time, now time.Time) State {
	s := State{Lives: p.Max, LastLifeUpdate: now}
	if stored != nil {
		s.Lives = *stored
	}
	if anchor != nil && !anchor.IsZero() {
		s.LastLifeUpdate = *anchor
	}
	return s
}

// NormalizeAnchor accepts the timestamp shapes found in imported profiles
// (time values, ISO-8601 strings, nil) and returns a concrete instant.
func NormalizeAnchor(raw any, now time.Time) (time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return now, nil
	case time.Time:
		if v.IsZero() {
			return now, nil
		}
		return v, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return now, nil
		}
		return *v, nil
	case string:
		if v == "" {
			return now, nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
	}
}
