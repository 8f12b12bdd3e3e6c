package auth

import "github.com/go-playground/validator/v10"

// Validate is the process-wide validator instance shared by DTO and
// service-level field checks.
var Validate = validator.New()

// IsEmail reports whether the value is a well-formed email address.
func IsEmail(value string) bool {
	return Validate.Var(value, "required,email") == nil
}
