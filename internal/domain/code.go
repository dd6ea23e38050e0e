package domain

import "time"

const (
	MinCode int64 = 10_000_000
	MaxCode int64 = 99_999_999
)

// CodePurpose selects which one-time code table a code lives in.
type CodePurpose string

const (
	PurposeConfirmation  CodePurpose = "confirmation"
	PurposeUpdate        CodePurpose = "update"
	PurposeUnsubscribe   CodePurpose = "unsubscribe"
	PurposePendingUpdate CodePurpose = "pending_update"
)

var CodePurposes = []CodePurpose{
	PurposeConfirmation,
	PurposeUpdate,
	PurposeUnsubscribe,
	PurposePendingUpdate,
}

func (p CodePurpose) Valid() bool {
	switch p {
	case PurposeConfirmation, PurposeUpdate, PurposeUnsubscribe, PurposePendingUpdate:
		return true
	}
	return false
}

// Window is how long a freshly issued code stays live.
func (p CodePurpose) Window() time.Duration {
	switch p {
	case PurposeConfirmation, PurposeUpdate:
		return 7 * 24 * time.Hour
	case PurposeUnsubscribe, PurposePendingUpdate:
		return 30 * time.Minute
	}
	return 0
}

// Upserted reports whether issuing replaces an existing row for the same
// subscriber instead of inserting a new one.
func (p CodePurpose) Upserted() bool {
	return p == PurposeUpdate || p == PurposeUnsubscribe
}

func ValidCode(code int64) bool {
	return code >= MinCode && code <= MaxCode
}

type Code struct {
	SubID       int64     `db:"sub_id" json:"sub_id"`
	Code        int64     `db:"code" json:"code"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
	DateExpires time.Time `db:"date_expires" json:"date_expires"`
}

func (c *Code) Live(now time.Time) bool {
	return c != nil && now.Before(c.DateExpires)
}

// PendingUpdate is a staged measurements change waiting for the subscriber
// to approve it through its own code.
type PendingUpdate struct {
	SubID int64 `db:"sub_id" json:"sub_id"`
	Code  int64 `db:"code" json:"code"`
	MeasurementValues
	DateCreated time.Time `db:"date_created" json:"date_created"`
	DateExpires time.Time `db:"date_expires" json:"date_expires"`
}

func (p *PendingUpdate) AsCode() *Code {
	return &Code{
		SubID:       p.SubID,
		Code:        p.Code,
		DateCreated: p.DateCreated,
		DateExpires: p.DateExpires,
	}
}
