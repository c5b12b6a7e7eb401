package validation

import (
	"regexp"
	"strconv"
	"strings"

	"lingua-bot/internal/domain"
)

var validUserID = regexp.MustCompile(`^[1-9][0-9]{0,18}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateUserID parses a Telegram user id path parameter.
func (v *Validator) ValidateUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError("user id is required")
	}
	if !validUserID.MatchString(raw) {
		return 0, domain.NewValidationError("user id must be a positive integer")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("user id is out of range")
	}
	return id, nil
}
