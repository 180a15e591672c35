package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-call-verify/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Any custom registrations must be
// made in init() before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. Failures wrap
// domain.ErrBadRequest with a human-readable field summary.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), domain.ErrBadRequest)
	}
	return nil
}
