package dto

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
)

var (
	ErrBinding    = errors.New("binding failed")
	ErrValidation = errors.New("validation failed")
)

// NameParam is the :name path parameter of the single-creature lookup. Only
// presence is checked here; the catalog service owns the length rule.
type NameParam struct {
	Name string `uri:"name" json:"name" validate:"required,notblank"`
}

// Validator returns the shared validator. Field errors are named by json tag.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	return v
})

// BindURI binds path parameters into v and validates the result. Errors wrap
// ErrBinding or ErrValidation.
func BindURI(c *gin.Context, v any) error {
	if err := c.ShouldBindUri(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// ValidationAppError turns a BindURI failure into a 400 naming the first
// invalid field, e.g. "name must not be empty".
func ValidationAppError(err error) *domain.AppError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewAppError("Invalid request", http.StatusBadRequest)
	}

	fe := fieldErrs[0]

	return domain.NewValidationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be empty"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}
