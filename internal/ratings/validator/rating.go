package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"pujari/pkg/logger"
	"pujari/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RatingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRatingValidator(log *logger.Logger) *RatingValidator {
	v := validator.New()

	if err := v.RegisterValidation("category_ratings", validateCategoryRatings); err != nil {
		log.Fatal("Failed to register 'category_ratings' validator",
			"error", err,
		)
	}

	log.Info("Rating validator initialized successfully")

	return &RatingValidator{
		validate: v,
		logger:   log,
	}
}

func validateCategoryRatings(fl validator.FieldLevel) bool {
	categories, ok := fl.Field().Interface().(map[string]int)
	if !ok {
		return false
	}
	for name, score := range categories {
		if name == "" || score < 1 || score > 5 {
			return false
		}
	}
	return true
}

func (v *RatingValidator) Validate(rating *model.Rating) error {
	if err := v.validate.Struct(rating); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RatingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "category_ratings":
			message = fmt.Sprintf("%s scores must be between 1 and 5", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
