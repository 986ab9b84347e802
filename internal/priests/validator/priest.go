package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

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

type PriestValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPriestValidator(log *logger.Logger) *PriestValidator {
	v := validator.New()

	if err := v.RegisterValidation("wallclock", validateWallClock); err != nil {
		log.Fatal("Failed to register 'wallclock' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("price_list", validatePriceList); err != nil {
		log.Fatal("Failed to register 'price_list' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("availability_map", validateAvailabilityMap); err != nil {
		log.Fatal("Failed to register 'availability_map' validator",
			"error", err,
		)
	}

	log.Info("Priest validator initialized successfully")

	return &PriestValidator{
		validate: v,
		logger:   log,
	}
}

func validateWallClock(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.TimeLayout, fl.Field().String())
	return err == nil
}

func validatePriceList(fl validator.FieldLevel) bool {
	prices, ok := fl.Field().Interface().(map[string]int64)
	if !ok {
		return false
	}
	if len(prices) == 0 {
		return false
	}
	for ceremony, price := range prices {
		if ceremony == "" || price <= 0 {
			return false
		}
	}
	return true
}

func validateAvailabilityMap(fl validator.FieldLevel) bool {
	availability, ok := fl.Field().Interface().(map[model.Weekday][]model.TimeWindow)
	if !ok {
		return false
	}
	return validateAvailabilityMapValue(availability)
}

func (v *PriestValidator) Validate(profile *model.PriestProfile) error {
	if err := v.validate.Struct(profile); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := validateCeremoniesPriced(profile.Ceremonies, profile.PriceList); err != nil {
		return err
	}

	return validateWindows(profile.Availability)
}

func (v *PriestValidator) ValidateUpdate(update *model.PriestProfileUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Ceremonies != nil && update.PriceList != nil {
		return validateCeremoniesPriced(update.Ceremonies, update.PriceList)
	}

	return nil
}

func (v *PriestValidator) ValidateAvailability(availability map[model.Weekday][]model.TimeWindow) error {
	if !validateAvailabilityMapValue(availability) {
		return ValidationErrors{
			ValidationError{
				Field:   "Availability",
				Message: "availability keys must be weekday names",
			},
		}
	}
	return validateWindows(availability)
}

func validateAvailabilityMapValue(availability map[model.Weekday][]model.TimeWindow) bool {
	valid := map[model.Weekday]bool{
		model.Sunday: true, model.Monday: true, model.Tuesday: true,
		model.Wednesday: true, model.Thursday: true, model.Friday: true,
		model.Saturday: true,
	}
	for day := range availability {
		if !valid[day] {
			return false
		}
	}
	return true
}

// validateCeremoniesPriced requires every offered ceremony to be priced,
// directly or through the default entry.
func validateCeremoniesPriced(ceremonies []string, prices map[string]int64) error {
	if _, hasDefault := prices[model.DefaultPriceKey]; hasDefault {
		return nil
	}
	for _, ceremony := range ceremonies {
		if _, ok := prices[ceremony]; !ok {
			return ValidationErrors{
				ValidationError{
					Field:   "PriceList",
					Message: fmt.Sprintf("ceremony %q has no price and no default is set", ceremony),
				},
			}
		}
	}
	return nil
}

// validateWindows checks every day's windows parse, run forward, and do not
// overlap each other.
func validateWindows(availability map[model.Weekday][]model.TimeWindow) error {
	for day, windows := range availability {
		parsed := make([]struct{ start, end time.Time }, 0, len(windows))
		for _, w := range windows {
			start, err := time.Parse(model.TimeLayout, w.StartTime)
			if err != nil {
				return ValidationErrors{
					ValidationError{
						Field:   "Availability",
						Message: fmt.Sprintf("%s: invalid start_time %q", day, w.StartTime),
					},
				}
			}
			end, err := time.Parse(model.TimeLayout, w.EndTime)
			if err != nil {
				return ValidationErrors{
					ValidationError{
						Field:   "Availability",
						Message: fmt.Sprintf("%s: invalid end_time %q", day, w.EndTime),
					},
				}
			}
			if !end.After(start) {
				return ValidationErrors{
					ValidationError{
						Field:   "Availability",
						Message: fmt.Sprintf("%s: window %s-%s must end after it starts", day, w.StartTime, w.EndTime),
					},
				}
			}
			parsed = append(parsed, struct{ start, end time.Time }{start, end})
		}

		sort.Slice(parsed, func(i, j int) bool { return parsed[i].start.Before(parsed[j].start) })
		for i := 1; i < len(parsed); i++ {
			if parsed[i].start.Before(parsed[i-1].end) {
				return ValidationErrors{
					ValidationError{
						Field:   "Availability",
						Message: fmt.Sprintf("%s: windows overlap", day),
					},
				}
			}
		}
	}
	return nil
}

func (v *PriestValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA time zone", err.Field())
		case "wallclock":
			message = fmt.Sprintf("%s must be in HH:MM format", err.Field())
		case "price_list":
			message = fmt.Sprintf("%s entries must have non-empty names and positive amounts", err.Field())
		case "availability_map":
			message = fmt.Sprintf("%s keys must be weekday names", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
