package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "devevents/pkg/errors"
	"devevents/pkg/logger"
	"devevents/pkg/model"
	"devevents/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

// fieldOrder is the order in which offending fields are reported. Only the
// first failure is returned.
var fieldOrder = []string{
	"title",
	"description",
	"overview",
	"image",
	"venue",
	"location",
	"date",
	"time",
	"mode",
	"audience",
	"organizer",
	"agenda",
	"tags",
}

type EventValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("notblank_text", validateNotBlankText); err != nil {
		log.Fatal("Failed to register 'notblank_text' validator",
			"error", err,
		)
	}

	log.Info("Event validator initialized successfully")

	return &EventValidator{
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

func validateNotBlankText(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// ValidateAndNormalize checks every required field and then rewrites the
// record into canonical form: trimmed text, a slug derived from the title,
// an ISO-8601 UTC date and an "HH:MM" time. The slug is re-derived only when
// isTitleModified is set or no slug exists yet. On error the record is left
// untouched.
func (v *EventValidator) ValidateAndNormalize(event *model.Event, isTitleModified bool) error {
	if event == nil {
		return apperrors.NewValidationError("title", "title is required")
	}

	if err := v.validate.Struct(event); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return firstValidationError(validationErrs)
		}
		return err
	}

	title := sanitizer.TrimText(event.Title)

	slug := event.Slug
	if isTitleModified || slug == "" {
		slug = sanitizer.Slugify(title)
		if slug == "" {
			return apperrors.NewValidationError("title", "title must contain at least one letter or digit")
		}
	}

	date, err := sanitizer.NormalizeDate(event.Date)
	if err != nil {
		return apperrors.NewValidationError("date", fmt.Sprintf("date %q is not a recognizable date", event.Date))
	}

	clock, err := sanitizer.NormalizeTime(event.Time)
	if err != nil {
		return apperrors.NewValidationError("time", fmt.Sprintf("time %q must be HH:MM or H[:MM] am/pm", event.Time))
	}

	event.Title = title
	event.Description = sanitizer.TrimText(event.Description)
	event.Overview = sanitizer.TrimText(event.Overview)
	event.Image = sanitizer.TrimText(event.Image)
	event.Venue = sanitizer.TrimText(event.Venue)
	event.Location = sanitizer.TrimText(event.Location)
	event.Mode = sanitizer.TrimText(event.Mode)
	event.Audience = sanitizer.TrimText(event.Audience)
	event.Organizer = sanitizer.TrimText(event.Organizer)
	event.Slug = slug
	event.Date = date
	event.Time = clock

	return nil
}

func firstValidationError(errs validator.ValidationErrors) *apperrors.ValidationError {
	byField := make(map[string]validator.FieldError, len(errs))
	for _, err := range errs {
		if _, seen := byField[err.Field()]; !seen {
			byField[err.Field()] = err
		}
	}

	for _, field := range fieldOrder {
		if err, ok := byField[field]; ok {
			return translate(err)
		}
	}
	return translate(errs[0])
}

func translate(err validator.FieldError) *apperrors.ValidationError {
	message := err.Error()

	switch err.Tag() {
	case "notblank_text", "required":
		message = fmt.Sprintf("%s is required", err.Field())
	case "min":
		message = fmt.Sprintf("%s must have at least %s item(s)", err.Field(), err.Param())
	case "mongodb":
		message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
	}

	return apperrors.NewValidationError(err.Field(), message)
}
