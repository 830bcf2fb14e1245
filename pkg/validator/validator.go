package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations installs domain validation rules on gin's
// binding validator. "slotaligned" requires a timestamp on a half-hour
// boundary, matching the calendar slot grid.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("slotaligned", slotAligned)
}

func slotAligned(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.Minute()%30 == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
