package domain

import "time"

type SubscriberState string

const (
	StateNonExistent SubscriberState = "non_existent"
	StatePending     SubscriberState = "pending"
	StateConfirmed   SubscriberState = "confirmed"
)

type Subscriber struct {
	ID            int64      `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	FreqID        int64      `db:"freq_id" json:"freq_id"`
	Confirmed     bool       `db:"confirmed" json:"confirmed"`
	DateConfirmed *time.Time `db:"date_confirmed" json:"date_confirmed,omitempty"`
}

func (s *Subscriber) State() SubscriberState {
	if s == nil {
		return StateNonExistent
	}
	if s.Confirmed {
		return StateConfirmed
	}
	return StatePending
}

// NewSubscriber is the data a visitor submits from the calculator page.
// It is used both for first-time signups and for later update requests.
type NewSubscriber struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Freq  string `json:"freq" validate:"required,max=32"`
	MeasurementValues
}
