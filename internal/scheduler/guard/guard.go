package guard

import (
	"errors"
	"time"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

var (
	ErrContractNotActive  = errors.New("contract_not_active")
	ErrOutsideWarnWindow  = errors.New("contract_outside_warn_window")
	ErrAlreadyWarned      = errors.New("contract_already_warned")
	ErrMissingContractRef = errors.New("contract_missing_staff")
)

// EnsureContractNeedsWarning decides whether an expiry notification is due.
// Only active contracts whose expiry falls in [today, today+days] qualify.
func EnsureContractNeedsWarning(contract domain.Contract, now time.Time, days int) error {
	if contract.Status != domain.ContractStatusActive {
		return ErrContractNotActive
	}
	if contract.StaffID == "" {
		return ErrMissingContractRef
	}
	if !contract.ExpiresWithin(now, days) {
		return ErrOutsideWarnWindow
	}
	return nil
}

// EnsureNotWarned fails when any existing notification already points at link.
func EnsureNotWarned(existing []domain.Notification, link string) error {
	for _, n := range existing {
		if n.Link == link {
			return ErrAlreadyWarned
		}
	}
	return nil
}
