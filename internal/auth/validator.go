package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/mmynk/splitchain/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type registration struct {
	Email       string `validate:"required,email,max=254"`
	DisplayName string `validate:"required,max=64"`
	// bcrypt ignores bytes past 72.
	Password string `validate:"required,min=8,max=72"`
}

// ValidateRegistration reports the first invalid field as an InvalidInput error
// naming the field and the rule it broke.
func ValidateRegistration(email, displayName, password string) error {
	err := validate.Struct(registration{
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		Password:    password,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.InvalidInput(strings.ToLower(fe.Field())+" is invalid",
			"field", fe.Field(),
			"rule", fe.Tag(),
		)
	}
	return apperrors.InvalidInput(err.Error())
}
