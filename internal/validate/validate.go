// Package validate holds the field predicates that gate values before they
// are placed into an entity.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Accepts 212-555-0100, (212) 555-0100, 2125550100 and +1-212-555-0100.
	phoneRe = regexp.MustCompile(`^(\+\d{1,3}[-.]?)?\(?\d{3}\)?[-. ]?\d{3}[-.]?\d{4}$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Enumerated values accepted by the store's CHECK constraints.
var (
	CaseStatuses    = []string{"open", "pending", "closed", "archived"}
	PriorityLevels  = []string{"low", "medium", "high", "urgent"}
	BillingStatuses = []string{"draft", "sent", "paid", "overdue", "cancelled"}
	MessageTypes    = []string{"text", "file", "system", "notification"}
	UserRoles       = []string{"lawyer", "paralegal", "client", "admin"}
	EventTypes      = []string{"meeting", "court_date", "deadline", "reminder"}
)

// ValidationError reports a single field that failed its predicate.
type ValidationError struct {
	Field string
	Value string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %q is not a valid %s", e.Field, e.Value, e.Rule)
}

// Fail builds a ValidationError.
func Fail(field, value, rule string) error {
	return &ValidationError{Field: field, Value: value, Rule: rule}
}

func Email(s string) bool { return emailRe.MatchString(s) }

func Phone(s string) bool { return phoneRe.MatchString(s) }

func ZipCode(s string) bool { return zipRe.MatchString(s) }

// Date reports whether s is a calendar date in YYYY-MM-DD form.
func Date(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// Money reports whether amount is a usable non-negative monetary value.
func Money(amount float64) bool {
	return amount >= 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// Password reports whether s is at least 8 characters and mixes upper case,
// lower case, digits and punctuation.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func CaseStatus(s string) bool    { return oneOf(CaseStatuses, s) }
func PriorityLevel(s string) bool { return oneOf(PriorityLevels, s) }
func BillingStatus(s string) bool { return oneOf(BillingStatuses, s) }
func MessageType(s string) bool   { return oneOf(MessageTypes, s) }
func UserRole(s string) bool      { return oneOf(UserRoles, s) }
func EventType(s string) bool     { return oneOf(EventTypes, s) }

func oneOf(allowed []string, s string) bool {
	return slices.Contains(allowed, s)
}
