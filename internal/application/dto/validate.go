package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

// ErrValidation wraps every request validation failure.
var ErrValidation = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("risklevel", validateRiskLevel)
	return v
}

// validatePhone accepts anything that parses to a valid E.164 number.
func validatePhone(fl validator.FieldLevel) bool {
	_, err := valueobject.NewPhoneNumber(fl.Field().String())
	return err == nil
}

func validateRiskLevel(fl validator.FieldLevel) bool {
	_, err := valueobject.RiskLevelFromString(strings.ToUpper(fl.Field().String()))
	return err == nil
}

// Validate checks a request DTO against its validate tags.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "phone":
		return fmt.Sprintf("%s is not a valid international phone number", fe.Field())
	case "risklevel":
		return fmt.Sprintf("%s must be one of MINIMAL, LOW, MEDIUM, HIGH, CRITICAL", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
