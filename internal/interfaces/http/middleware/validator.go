package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/factura/backend/internal/domain/billing"
)

// cuiPattern matches a Romanian fiscal identification code: an optional RO
// prefix followed by 2 to 10 digits.
var cuiPattern = regexp.MustCompile(`^(?i:RO)?[0-9]{2,10}$`)

// SetupValidator registers custom validations on gin's binding validator.
// Call once at startup, before the engine handles requests.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("cui", validateCUI)
	_ = v.RegisterValidation("plan", validatePlan)
}

// validateCUI accepts empty values; pair with required when the field is
// mandatory.
func validateCUI(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return cuiPattern.MatchString(value)
}

func validatePlan(fl validator.FieldLevel) bool {
	_, err := billing.ParsePlan(fl.Field().String())
	return err == nil
}
