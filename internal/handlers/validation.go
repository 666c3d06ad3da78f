package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vaadbayit/vaad_backend/internal/dto"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags to gin's validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("yearmonth", validateYearMonth)
		}
	})
}

// validateYearMonth accepts a YYYY-MM charge month.
func validateYearMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse(dto.MonthLayout, fl.Field().String())
	return err == nil
}
