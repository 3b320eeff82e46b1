package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/sessionkit/errors"
)

// FieldError is one failed constraint, reported under the field's JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks s against its `validate` struct tags and returns an
// INVALID_INPUT AppError listing every failing field.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fe := FieldError{Field: e.Field(), Message: formatValidationError(e)}
		fields = append(fields, fe)
		messages = append(messages, fe.Field+": "+fe.Message)
	}

	return apperrors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fields)
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be >= " + e.Param()
	case "lte":
		return "must be <= " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "printascii":
		return "must contain only printable ASCII"
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return "is invalid"
	}
}
