package usecase

import (
	"errors"

	"github.com/xavierca1/leadsync/internal/entity"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

var ErrMissingLeads = &DomainError{Code: "MISSING_LEADS", Message: "request body has no leads list"}

// ClassifyInsert maps a LeadStore.Insert result onto an Outcome.
func ClassifyInsert(saved *entity.Lead, err error) Outcome {
	switch {
	case err == nil && saved != nil && saved.ID != "":
		return OutcomeCreated
	case err == nil:
		return OutcomeEmptyEcho
	case errors.Is(err, entity.ErrEmptyEcho):
		return OutcomeEmptyEcho
	case errors.Is(err, entity.ErrDuplicateLead):
		return OutcomeDuplicate
	case errors.Is(err, entity.ErrStoreRejected):
		return OutcomeRejected
	default:
		return OutcomeTransportFailure
	}
}
