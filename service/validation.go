package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/BigDee2008/FAQForge/models"

	"github.com/go-playground/validator/v10"
)

// GenerateFaqInput is the caller-supplied description of the business
type GenerateFaqInput struct {
	BusinessType        string          `json:"businessType" validate:"required"`
	BusinessDescription string          `json:"businessDescription" validate:"min=10"`
	WebsiteURL          string          `json:"websiteUrl" validate:"omitempty,url"`
	FaqStyle            models.FaqStyle `json:"faqStyle" validate:"omitempty,oneof=accordion simple"`
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalize applies the default style. Business fields are kept as sent; a
// blank website counts as absent.
func (in GenerateFaqInput) normalize() GenerateFaqInput {
	in.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	if in.FaqStyle == "" {
		in.FaqStyle = models.DefaultFaqStyle
	}
	return in
}

// validateInput returns a *ValidationError naming every violated constraint
func validateInput(in GenerateFaqInput) error {
	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Violations: []string{err.Error()}}
	}

	violations := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, describeViolation(fe))
	}
	return &ValidationError{Violations: violations}
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
