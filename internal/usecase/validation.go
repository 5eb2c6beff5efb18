package usecase

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateLeadSubmission(input LeadSubmission) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}

	if input.ID != "" {
		if _, err := uuid.Parse(input.ID); err != nil {
			errs = append(errs, ValidationError{"id", "must be a UUID"})
		}
	}

	if email := strings.TrimSpace(input.Email); email != "" {
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			errs = append(errs, ValidationError{"email", "is invalid"})
		}
	}

	return errs
}

func joinValidationErrors(errs []ValidationError) error {
	joined := make([]error, 0, len(errs))
	for _, e := range errs {
		joined = append(joined, e)
	}
	return errors.Join(joined...)
}
