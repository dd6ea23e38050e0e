package domain

import "fmt"

type LookupKind int

const (
	LookupByID LookupKind = iota + 1
	LookupByEmail
	LookupBySubID
	LookupByCode
)

func (k LookupKind) String() string {
	switch k {
	case LookupByID:
		return "id"
	case LookupByEmail:
		return "email"
	case LookupBySubID:
		return "sub_id"
	case LookupByCode:
		return "code"
	}
	return "unknown"
}

// LookupBy is a point-lookup intent. Repositories resolve it to a query
// against their own table and reject kinds the table has no key for.
type LookupBy struct {
	Kind  LookupKind
	ID    int64
	Email string
	Code  int64
}

func ByID(id int64) LookupBy { return LookupBy{Kind: LookupByID, ID: id} }
func ByEmail(email string) LookupBy { return LookupBy{Kind: LookupByEmail, Email: email} }
func BySubID(subID int64) LookupBy { return LookupBy{Kind: LookupBySubID, ID: subID} }
func ByCode(code int64) LookupBy { return LookupBy{Kind: LookupByCode, Code: code} }

// Validate checks the key before any query is built.
func (l LookupBy) Validate() error {
	switch l.Kind {
	case LookupByID, LookupBySubID:
		if l.ID <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrValidation, l.Kind)
		}
	case LookupByEmail:
		if l.Email == "" {
			return fmt.Errorf("%w: empty email", ErrValidation)
		}
	case LookupByCode:
		if !ValidCode(l.Code) {
			return fmt.Errorf("%w: code out of range", ErrValidation)
		}
	default:
		return ErrUnsupportedLookup
	}
	return nil
}

// Arg returns the single query argument for the lookup.
func (l LookupBy) Arg() any {
	switch l.Kind {
	case LookupByEmail:
		return l.Email
	case LookupByCode:
		return l.Code
	}
	return l.ID
}
