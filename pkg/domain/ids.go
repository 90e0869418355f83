// Package domain holds typed identifiers shared across modules. Wrapping
// uuid.UUID in distinct types lets the compiler catch a case ID passed where
// a provider ID belongs.
package domain

import (
	"github.com/google/uuid"

	dErrors "caseline/pkg/domain-errors"
)

// CaseID identifies one prior-authorization request session.
type CaseID uuid.UUID

// EntryID identifies one audit trail entry.
type EntryID uuid.UUID

// NewCaseID generates a fresh case identifier.
func NewCaseID() CaseID {
	return CaseID(uuid.New())
}

// NewEntryID generates a fresh audit entry identifier.
func NewEntryID() EntryID {
	return EntryID(uuid.New())
}

// ParseCaseID validates a string as a case ID. IDs must be valid, non-nil
// UUIDs; anything else is a contract violation at the trust boundary.
func ParseCaseID(s string) (CaseID, error) {
	u, err := parseUUID(s, "case_id")
	if err != nil {
		return CaseID{}, err
	}
	return CaseID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return u, nil
}

func (id CaseID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id CaseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID in canonical UUID form, so JSON carries the
// string representation rather than raw bytes.
func (id CaseID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses an ID with the same strictness as ParseCaseID.
func (id *CaseID) UnmarshalText(text []byte) error {
	parsed, err := ParseCaseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id EntryID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id EntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id EntryID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *EntryID) UnmarshalText(text []byte) error {
	u, err := parseUUID(string(text), "entry_id")
	if err != nil {
		return err
	}
	*id = EntryID(u)
	return nil
}
