package domain

import "fmt"

type textEnum interface {
	~int
	String() string
}

// parseEnum resolves text against the names of values 0..last.
func parseEnum[T textEnum](text []byte, last T, dst *T) error {
	for v := T(0); v <= last; v++ {
		if v.String() == string(text) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %T %q: %w", *dst, text, ErrBadRequest)
}
