package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/speechkit/errors"
)

// structValidator reports fields by their mapstructure key, then json key,
// then snake_cased Go name, so messages match what users write in config.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range [...]string{"mapstructure", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return toSnakeCase(fld.Name)
	})
	return v
})

// Validate checks the `validate` struct tags of s. Failures come back as a
// single INVALID_INPUT AppError with a FieldError per field.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fieldPath(fe.Namespace()), tagMessage(fe))
	}
	return v.Err()
}

// fieldPath drops the root struct name: "Config.dataset.chunk_size" becomes
// "dataset.chunk_size".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

var tagMessages = map[string]string{
	"required":      "is required",
	"gte":           "must be at least ",
	"min":           "must be at least ",
	"lte":           "must be at most ",
	"max":           "must be at most ",
	"gt":            "must be greater than ",
	"oneof":         "must be one of: ",
	"hostname_port": "must be host:port",
}

func tagMessage(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + fe.Param()
	}
	return msg
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
