package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton; it caches struct metadata across calls, which
// matters when every log line goes through Struct.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks v against its `validate` tags and returns the first failure
// in a readable form.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := trimNamespace(e.Namespace())
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte", "min":
			return fmt.Errorf("%s: %v must be at least %s", field, e.Value(), param)
		case "lte", "max":
			return fmt.Errorf("%s: %v must not exceed %s", field, e.Value(), param)
		case "oneof":
			return fmt.Errorf("%s: %v must be one of [%s]", field, e.Value(), param)
		case "dive":
			return fmt.Errorf("%s: invalid element", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// trimNamespace drops the top-level struct name: "FaultRecord.Run.N" -> "Run.N".
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
