package domain

import "time"

type NotificationKind string

const (
	NotificationSignupConfirm      NotificationKind = "signup-confirm"
	NotificationUpdateConfirm      NotificationKind = "update-confirm"
	NotificationUpdateReminder     NotificationKind = "update-reminder"
	NotificationUnsubscribeConfirm NotificationKind = "unsubscribe-confirm"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationSignupConfirm, NotificationUpdateConfirm, NotificationUpdateReminder, NotificationUnsubscribeConfirm:
		return true
	}
	return false
}

type Notification struct {
	Kind  NotificationKind `json:"kind"`
	Email string           `json:"email"`
	SubID int64            `json:"sub_id"`
	Code  int64            `json:"code"`
}

// EmailSent is the audit record written after a notification went out.
type EmailSent struct {
	ID        int64            `db:"id" json:"id"`
	DateSent  time.Time        `db:"date_sent" json:"date_sent"`
	Category  NotificationKind `db:"category" json:"category"`
	Recipient string           `db:"recipient" json:"recipient"`
	Subject   string           `db:"subject" json:"subject"`
	Contents  string           `db:"contents" json:"contents"`
}
