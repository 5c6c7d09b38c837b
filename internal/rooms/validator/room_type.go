package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"
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

type RoomTypeValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomTypeValidator(log *logger.Logger) *RoomTypeValidator {
	v := validator.New()

	if err := v.RegisterValidation("room_units", validateRoomUnits); err != nil {
		log.Fatal("Failed to register 'room_units' validator",
			"error", err,
		)
	}

	log.Info("Room type validator initialized successfully")

	return &RoomTypeValidator{
		validate: v,
		logger:   log,
	}
}

// validateRoomUnits requires at least one unit and rejects non-positive or
// duplicated unit numbers.
func validateRoomUnits(fl validator.FieldLevel) bool {
	units, ok := fl.Field().Interface().([]model.Unit)
	if !ok {
		return false
	}
	if len(units) == 0 {
		return false
	}

	seen := make(map[int]struct{}, len(units))
	for _, unit := range units {
		if unit.Number < 1 {
			return false
		}
		if _, dup := seen[unit.Number]; dup {
			return false
		}
		seen[unit.Number] = struct{}{}
	}
	return true
}

func (v *RoomTypeValidator) Validate(roomType *model.RoomType) error {
	if err := v.validate.Struct(roomType); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RoomTypeValidator) ValidateUpdate(update *model.RoomTypeUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RoomTypeValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "room_units":
			message = fmt.Sprintf("%s must contain at least one unit with positive, unique numbers", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
