package domain

import "time"

type Frequency struct {
	ID           int64  `db:"id" json:"id"`
	Descriptor   string `db:"descriptor" json:"descriptor"`
	IntervalDays int    `db:"interval_days" json:"interval_days"`
}

// Next returns the reminder date one interval after from.
func (f *Frequency) Next(from time.Time) time.Time {
	return from.AddDate(0, 0, f.IntervalDays)
}

type ScheduledReminder struct {
	SubID         int64     `db:"sub_id" json:"sub_id"`
	DateScheduled time.Time `db:"date_scheduled" json:"date_scheduled"`
}
