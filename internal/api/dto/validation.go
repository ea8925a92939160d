package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

type messager interface {
	messages() map[string]string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks req against its tags and returns a 400 DomainError whose
// message joins the distinct user-facing messages in field order.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("Invalid request payload", nil)
	}

	var table map[string]string
	if m, ok := req.(messager); ok {
		table = m.messages()
	}

	details := make(map[string]any, len(fieldErrs))
	seen := make(map[string]bool)
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := table[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		if _, exists := details[fe.Field()]; !exists {
			details[fe.Field()] = msg
		}
		if !seen[msg] {
			seen[msg] = true
			parts = append(parts, msg)
		}
	}
	return apperrors.NewValidationError(strings.Join(parts, ", "), details)
}
