package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf key, so problems read like the
// YAML or APP_ variable that has to change.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(validateServer, ServerConfig{})
	v.RegisterStructValidation(validateRetry, RetryConfig{})

	return v
}

// A request deadline past the write timeout would be cut off by the server first.
func validateServer(sl validator.StructLevel) {
	s := sl.Current().Interface().(ServerConfig) //nolint:forcetypeassert // registered for ServerConfig only
	if s.RequestTimeout > 0 && s.WriteTimeout > 0 && s.RequestTimeout >= s.WriteTimeout {
		sl.ReportError(s.RequestTimeout, "request_timeout", "RequestTimeout", "ltfield", "write_timeout")
	}
}

func validateRetry(sl validator.StructLevel) {
	r := sl.Current().Interface().(RetryConfig) //nolint:forcetypeassert // registered for RetryConfig only
	if r.MaxInterval > 0 && r.MaxInterval < r.InitialInterval {
		sl.ReportError(r.MaxInterval, "max_interval", "MaxInterval", "gtefield", "initial_interval")
	}
}

// ValidationError lists every invalid setting, one problem per entry.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Validate checks the whole configuration and returns a *ValidationError
// naming every invalid key. The service refuses to start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}

	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	key := formatFieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return key + " must be a valid URL"
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", key, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}
}

// formatFieldPath drops the root type name: "Config.client.retry.max_attempts"
// becomes "client.retry.max_attempts".
func formatFieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}
