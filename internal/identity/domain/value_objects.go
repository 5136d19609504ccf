package domain

import (
	"strings"

	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

// MaxFieldLength bounds names and emails.
const MaxFieldLength = 255

var (
	ErrNameAndEmailRequired = &sharedDomain.ValidationError{Message: "Name and email are required"}
	ErrNameTooLong          = &sharedDomain.ValidationError{Message: "Name must be at most 255 characters"}
	ErrEmailTooLong         = &sharedDomain.ValidationError{Message: "Email must be at most 255 characters"}
)

// Email is a user's address, kept exactly as entered apart from surrounding
// whitespace. Uniqueness is case-sensitive.
type Email struct {
	value string
}

// NewEmail trims and validates an email.
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Email{}, ErrNameAndEmailRequired
	}
	if len(value) > MaxFieldLength {
		return Email{}, ErrEmailTooLong
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// Equals compares addresses byte for byte.
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// Name is a user's display name.
type Name struct {
	value string
}

// NewName trims and validates a name.
func NewName(value string) (Name, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Name{}, ErrNameAndEmailRequired
	}
	if len(value) > MaxFieldLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: value}, nil
}

func (n Name) String() string { return n.value }

// ParseProfile validates a name and email together. Missing fields are
// reported before length problems.
func ParseProfile(name, email string) (Name, Email, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return Name{}, Email{}, ErrNameAndEmailRequired
	}
	n, err := NewName(name)
	if err != nil {
		return Name{}, Email{}, err
	}
	e, err := NewEmail(email)
	if err != nil {
		return Name{}, Email{}, err
	}
	return n, e, nil
}
