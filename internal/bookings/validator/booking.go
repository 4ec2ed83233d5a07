package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "devevents/pkg/errors"
	"devevents/pkg/logger"
	"devevents/pkg/model"

	"github.com/go-playground/validator/v10"
)

// EmailPattern excludes every Unicode space from both halves of the address,
// not only the ASCII ones matched by \s.
const EmailPattern = `^[^\s\v\x{85}\p{Z}@]+@[^\s\v\x{85}\p{Z}@]+\.[^\s\v\x{85}\p{Z}@]+$`

var emailRegex = regexp.MustCompile(EmailPattern)

// fieldOrder: email is reported before eventId.
var fieldOrder = []string{"email", "eventId"}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("booking_email", validateBookingEmail); err != nil {
		log.Fatal("Failed to register 'booking_email' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func validateBookingEmail(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return IsValidEmail(field.String())
}

// IsValidEmail reports whether email has a local part, an "@" and a dotted
// domain, with no whitespace anywhere.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Validate expects an already trimmed booking and returns the first
// offending field as a *errors.ValidationError.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if booking == nil {
		return apperrors.NewValidationError("email", "email is required")
	}

	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return firstValidationError(validationErrs)
		}
		return err
	}
	return nil
}

func firstValidationError(errs validator.ValidationErrors) *apperrors.ValidationError {
	for _, field := range fieldOrder {
		for _, err := range errs {
			if err.Field() == field {
				return translate(err)
			}
		}
	}
	return translate(errs[0])
}

func translate(err validator.FieldError) *apperrors.ValidationError {
	message := err.Error()

	switch err.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", err.Field())
	case "booking_email":
		message = fmt.Sprintf("%s must be a valid email address", err.Field())
	case "mongodb":
		message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
	}

	return apperrors.NewValidationError(err.Field(), message)
}
