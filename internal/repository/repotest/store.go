// Package repotest provides an in-memory implementation of the repository
// interfaces with the same uniqueness, cascade and transaction semantics as
// the MySQL schema.
package repotest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
)

// DefaultFrequencies mirrors the rows seeded by the initial migration.
var DefaultFrequencies = []domain.Frequency{
	{ID: 1, Descriptor: "monthly", IntervalDays: 30},
	{ID: 2, Descriptor: "bimonthly", IntervalDays: 60},
	{ID: 3, Descriptor: "quarterly", IntervalDays: 91},
	{ID: 4, Descriptor: "biannually", IntervalDays: 182},
	{ID: 5, Descriptor: "yearly", IntervalDays: 365},
}

type txCtxKey struct{}

// Snapshot is a deep copy of every table.
type Snapshot struct {
	Subscribers    map[int64]domain.Subscriber
	Measurements   map[int64]domain.Measurements
	Codes          map[domain.CodePurpose]map[int64]domain.Code
	PendingUpdates map[int64]domain.PendingUpdate
	Reminders      map[int64]domain.ScheduledReminder
	EmailsSent     []domain.EmailSent
	NextID         int64
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	data        Snapshot
	frequencies []domain.Frequency
	failures    map[string]error
}

func New() *Store {
	s := &Store{
		frequencies: slices.Clone(DefaultFrequencies),
		failures:    make(map[string]error),
	}
	s.data = emptySnapshot()
	return s
}

func emptySnapshot() Snapshot {
	codes := make(map[domain.CodePurpose]map[int64]domain.Code, 3)
	for _, purpose := range domain.CodePurposes {
		if purpose != domain.PurposePendingUpdate {
			codes[purpose] = make(map[int64]domain.Code)
		}
	}
	return Snapshot{
		Subscribers:    make(map[int64]domain.Subscriber),
		Measurements:   make(map[int64]domain.Measurements),
		Codes:          codes,
		PendingUpdates: make(map[int64]domain.PendingUpdate),
		Reminders:      make(map[int64]domain.ScheduledReminder),
	}
}

func (s Snapshot) clone() Snapshot {
	codes := make(map[domain.CodePurpose]map[int64]domain.Code, len(s.Codes))
	for purpose, rows := range s.Codes {
		codes[purpose] = maps.Clone(rows)
	}
	subscribers := make(map[int64]domain.Subscriber, len(s.Subscribers))
	for id, sub := range s.Subscribers {
		if sub.DateConfirmed != nil {
			at := *sub.DateConfirmed
			sub.DateConfirmed = &at
		}
		subscribers[id] = sub
	}
	return Snapshot{
		Subscribers:    subscribers,
		Measurements:   maps.Clone(s.Measurements),
		Codes:          codes,
		PendingUpdates: maps.Clone(s.PendingUpdates),
		Reminders:      maps.Clone(s.Reminders),
		EmailsSent:     slices.Clone(s.EmailsSent),
		NextID:         s.NextID,
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Transactor:     transactor{s},
		Subscribers:    subscribers{s},
		Measurements:   measurements{s},
		Codes:          codes{s},
		PendingUpdates: pendingUpdates{s},
		Reminders:      reminders{s},
		Frequencies:    frequencies{s},
		EmailsSent:     emailsSent{s},
	}
}

// FailOn makes every call of the named operation return err until
// ClearFailures is called. Operation names look like "codes.Create".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

func (s *Store) Subscriber(id int64) (domain.Subscriber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.data.Subscribers[id]
	return sub, ok
}

func (s *Store) Measurements(subID int64) (domain.Measurements, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data.Measurements[subID]
	return m, ok
}

// Code returns the subscriber's row for purpose. Pending updates are
// reported by their code columns.
func (s *Store) Code(purpose domain.CodePurpose, subID int64) (domain.Code, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if purpose == domain.PurposePendingUpdate {
		p, ok := s.data.PendingUpdates[subID]
		if !ok {
			return domain.Code{}, false
		}
		return *p.AsCode(), true
	}
	c, ok := s.data.Codes[purpose][subID]
	return c, ok
}

func (s *Store) PendingUpdate(subID int64) (domain.PendingUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.PendingUpdates[subID]
	return p, ok
}

func (s *Store) Reminder(subID int64) (domain.ScheduledReminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.Reminders[subID]
	return r, ok
}

func (s *Store) EmailsSent() []domain.EmailSent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.EmailsSent)
}

// PutCode stores a code row directly, bypassing uniqueness checks.
func (s *Store) PutCode(purpose domain.CodePurpose, code domain.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if purpose == domain.PurposePendingUpdate {
		p := s.data.PendingUpdates[code.SubID]
		p.SubID, p.Code, p.DateCreated, p.DateExpires = code.SubID, code.Code, code.DateCreated, code.DateExpires
		s.data.PendingUpdates[code.SubID] = p
		return
	}
	s.data.Codes[purpose][code.SubID] = code
}

// PutReminder stores or overwrites a reminder row directly.
func (s *Store) PutReminder(reminder domain.ScheduledReminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Reminders[reminder.SubID] = reminder
}

// lock takes the data mutex and reports an injected failure for op.
func (s *Store) lock(op string) error {
	s.mu.Lock()
	if err, ok := s.failures[op]; ok {
		s.mu.Unlock()
		return err
	}
	return nil
}

type transactor struct{ s *Store }

func (t transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txCtxKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	if err := t.s.lock("tx.Begin"); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransactionAborted, err)
	}
	saved := t.s.data.clone()
	t.s.mu.Unlock()

	err := fn(context.WithValue(ctx, txCtxKey{}, true))
	if err == nil {
		if err = t.s.lock("tx.Commit"); err == nil {
			t.s.mu.Unlock()
			return nil
		}
	}

	t.s.mu.Lock()
	t.s.data = saved
	t.s.mu.Unlock()
	return fmt.Errorf("%w: %w", domain.ErrTransactionAborted, err)
}

type subscribers struct{ s *Store }

func (r subscribers) Create(_ context.Context, subscriber *domain.Subscriber) (int64, error) {
	if err := r.s.lock("subscribers.Create"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.Subscribers {
		if existing.Email == subscriber.Email {
			return 0, domain.ErrDuplicateEntry
		}
	}
	if !slices.ContainsFunc(r.s.frequencies, func(f domain.Frequency) bool { return f.ID == subscriber.FreqID }) {
		return 0, domain.ErrNotFound
	}

	r.s.data.NextID++
	subscriber.ID = r.s.data.NextID
	subscriber.Confirmed = false
	subscriber.DateConfirmed = nil
	r.s.data.Subscribers[subscriber.ID] = *subscriber
	return subscriber.ID, nil
}

func (r subscribers) GetOne(_ context.Context, by domain.LookupBy) (*domain.Subscriber, error) {
	if err := by.Validate(); err != nil {
		return nil, err
	}
	if err := r.s.lock("subscribers.GetOne"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	switch by.Kind {
	case domain.LookupByID:
		if sub, ok := r.s.data.Subscribers[by.ID]; ok {
			return &sub, nil
		}
	case domain.LookupByEmail:
		for _, sub := range r.s.data.Subscribers {
			if sub.Email == by.Email {
				return &sub, nil
			}
		}
	default:
		return nil, domain.ErrUnsupportedLookup
	}
	return nil, domain.ErrNotFound
}

func (r subscribers) Confirm(_ context.Context, id int64, at time.Time) error {
	if err := r.s.lock("subscribers.Confirm"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	sub, ok := r.s.data.Subscribers[id]
	if !ok || sub.Confirmed {
		return domain.ErrNoRowsAffected
	}
	sub.Confirmed = true
	sub.DateConfirmed = &at
	r.s.data.Subscribers[id] = sub
	return nil
}

func (r subscribers) Delete(_ context.Context, id int64) (int64, error) {
	if err := r.s.lock("subscribers.Delete"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	return r.s.cascade(id, func(domain.Subscriber) bool { return true }), nil
}

func (r subscribers) DeleteUnconfirmed(_ context.Context, id int64) (int64, error) {
	if err := r.s.lock("subscribers.DeleteUnconfirmed"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	return r.s.cascade(id, func(sub domain.Subscriber) bool { return !sub.Confirmed }), nil
}

// cascade removes the subscriber and its dependents when match allows it.
// Callers hold mu.
func (s *Store) cascade(id int64, match func(domain.Subscriber) bool) int64 {
	sub, ok := s.data.Subscribers[id]
	if !ok || !match(sub) {
		return 0
	}
	delete(s.data.Subscribers, id)
	delete(s.data.Measurements, id)
	delete(s.data.PendingUpdates, id)
	delete(s.data.Reminders, id)
	for _, rows := range s.data.Codes {
		delete(rows, id)
	}
	return 1
}

type measurements struct{ s *Store }

func (r measurements) Create(_ context.Context, m *domain.Measurements) error {
	if err := r.s.lock("measurements.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Subscribers[m.SubID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.data.Measurements[m.SubID]; ok {
		return domain.ErrDuplicateEntry
	}
	r.s.data.Measurements[m.SubID] = *m
	return nil
}

func (r measurements) GetBySubID(_ context.Context, subID int64) (*domain.Measurements, error) {
	if err := r.s.lock("measurements.GetBySubID"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	m, ok := r.s.data.Measurements[subID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r measurements) Replace(_ context.Context, subID int64, values domain.MeasurementValues, at time.Time) error {
	if err := r.s.lock("measurements.Replace"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	m, ok := r.s.data.Measurements[subID]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	m.MeasurementValues = values
	m.DateLastUpdated = at
	r.s.data.Measurements[subID] = m
	return nil
}

func (r measurements) UpdateField(_ context.Context, subID int64, change domain.FieldChange) error {
	if err := r.s.lock("measurements.UpdateField"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	m, ok := r.s.data.Measurements[subID]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	if err := m.Apply(change); err != nil {
		return err
	}
	r.s.data.Measurements[subID] = m
	return nil
}

func (r measurements) Touch(_ context.Context, subID int64, at time.Time) error {
	if err := r.s.lock("measurements.Touch"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	m, ok := r.s.data.Measurements[subID]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	m.DateLastUpdated = at
	r.s.data.Measurements[subID] = m
	return nil
}

type codes struct{ s *Store }

// rows returns the code columns of a purpose's table keyed by sub_id.
// Callers hold mu.
func (r codes) rows(purpose domain.CodePurpose) (map[int64]domain.Code, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("%w: unknown code purpose %q", domain.ErrValidation, purpose)
	}
	if purpose == domain.PurposePendingUpdate {
		rows := make(map[int64]domain.Code, len(r.s.data.PendingUpdates))
		for id, p := range r.s.data.PendingUpdates {
			rows[id] = *p.AsCode()
		}
		return rows, nil
	}
	return r.s.data.Codes[purpose], nil
}

func findCode(rows map[int64]domain.Code, by domain.LookupBy) (domain.Code, bool, error) {
	switch by.Kind {
	case domain.LookupBySubID:
		c, ok := rows[by.ID]
		return c, ok, nil
	case domain.LookupByCode:
		for _, c := range rows {
			if c.Code == by.Code {
				return c, true, nil
			}
		}
		return domain.Code{}, false, nil
	}
	return domain.Code{}, false, domain.ErrUnsupportedLookup
}

func (r codes) GetOne(_ context.Context, purpose domain.CodePurpose, by domain.LookupBy) (*domain.Code, error) {
	if err := by.Validate(); err != nil {
		return nil, err
	}
	if err := r.s.lock("codes.GetOne"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	rows, err := r.rows(purpose)
	if err != nil {
		return nil, err
	}
	c, ok, err := findCode(rows, by)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r codes) Create(_ context.Context, purpose domain.CodePurpose, code *domain.Code) error {
	if err := r.s.lock("codes.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	if purpose == domain.PurposePendingUpdate {
		return fmt.Errorf("%w: pending updates carry measurements", domain.ErrValidation)
	}
	return r.insert(purpose, code)
}

// insert enforces the sub_id and code unique keys. Callers hold mu.
func (r codes) insert(purpose domain.CodePurpose, code *domain.Code) error {
	rows, err := r.rows(purpose)
	if err != nil {
		return err
	}
	if _, ok := r.s.data.Subscribers[code.SubID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := rows[code.SubID]; ok {
		return domain.ErrDuplicateEntry
	}
	if _, ok, _ := findCode(rows, domain.ByCode(code.Code)); ok {
		return domain.ErrDuplicateEntry
	}
	rows[code.SubID] = *code
	return nil
}

func (r codes) Upsert(_ context.Context, purpose domain.CodePurpose, code *domain.Code) error {
	if err := r.s.lock("codes.Upsert"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	if !purpose.Upserted() {
		return fmt.Errorf("%w: %s codes are not upserted", domain.ErrValidation, purpose)
	}
	rows := r.s.data.Codes[purpose]
	if _, ok := rows[code.SubID]; !ok {
		return r.insert(purpose, code)
	}
	if other, ok, _ := findCode(rows, domain.ByCode(code.Code)); ok && other.SubID != code.SubID {
		return domain.ErrDuplicateEntry
	}
	rows[code.SubID] = *code
	return nil
}

func (r codes) Delete(_ context.Context, purpose domain.CodePurpose, by domain.LookupBy) (int64, error) {
	if err := by.Validate(); err != nil {
		return 0, err
	}
	if err := r.s.lock("codes.Delete"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	rows, err := r.rows(purpose)
	if err != nil {
		return 0, err
	}
	c, ok, err := findCode(rows, by)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	if purpose == domain.PurposePendingUpdate {
		delete(r.s.data.PendingUpdates, c.SubID)
	} else {
		delete(rows, c.SubID)
	}
	return 1, nil
}

func (r codes) ListExpired(_ context.Context, purpose domain.CodePurpose, now time.Time) ([]domain.Code, error) {
	if err := r.s.lock("codes.ListExpired"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	rows, err := r.rows(purpose)
	if err != nil {
		return nil, err
	}
	var expired []domain.Code
	for _, c := range rows {
		if !c.DateExpires.After(now) {
			expired = append(expired, c)
		}
	}
	slices.SortFunc(expired, func(a, b domain.Code) int { return a.DateExpires.Compare(b.DateExpires) })
	return expired, nil
}

type pendingUpdates struct{ s *Store }

func (r pendingUpdates) Create(_ context.Context, pending *domain.PendingUpdate) error {
	if err := r.s.lock("pendingUpdates.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Subscribers[pending.SubID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.data.PendingUpdates[pending.SubID]; ok {
		return domain.ErrDuplicateEntry
	}
	for _, p := range r.s.data.PendingUpdates {
		if p.Code == pending.Code {
			return domain.ErrDuplicateEntry
		}
	}
	r.s.data.PendingUpdates[pending.SubID] = *pending
	return nil
}

func (r pendingUpdates) GetOne(_ context.Context, by domain.LookupBy) (*domain.PendingUpdate, error) {
	if err := by.Validate(); err != nil {
		return nil, err
	}
	if err := r.s.lock("pendingUpdates.GetOne"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	switch by.Kind {
	case domain.LookupBySubID:
		if p, ok := r.s.data.PendingUpdates[by.ID]; ok {
			return &p, nil
		}
	case domain.LookupByCode:
		for _, p := range r.s.data.PendingUpdates {
			if p.Code == by.Code {
				return &p, nil
			}
		}
	default:
		return nil, domain.ErrUnsupportedLookup
	}
	return nil, domain.ErrNotFound
}

type reminders struct{ s *Store }

func (r reminders) Create(_ context.Context, reminder *domain.ScheduledReminder) error {
	if err := r.s.lock("reminders.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Subscribers[reminder.SubID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.data.Reminders[reminder.SubID]; ok {
		return domain.ErrDuplicateEntry
	}
	r.s.data.Reminders[reminder.SubID] = *reminder
	return nil
}

func (r reminders) GetBySubID(_ context.Context, subID int64) (*domain.ScheduledReminder, error) {
	if err := r.s.lock("reminders.GetBySubID"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	reminder, ok := r.s.data.Reminders[subID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &reminder, nil
}

func (r reminders) ListDue(_ context.Context, before time.Time) ([]domain.ScheduledReminder, error) {
	if err := r.s.lock("reminders.ListDue"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	var due []domain.ScheduledReminder
	for _, reminder := range r.s.data.Reminders {
		if reminder.DateScheduled.Before(before) {
			due = append(due, reminder)
		}
	}
	slices.SortFunc(due, func(a, b domain.ScheduledReminder) int {
		if c := a.DateScheduled.Compare(b.DateScheduled); c != 0 {
			return c
		}
		return int(a.SubID - b.SubID)
	})
	return due, nil
}

func (r reminders) Reschedule(_ context.Context, subID int64, at time.Time) error {
	if err := r.s.lock("reminders.Reschedule"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	reminder, ok := r.s.data.Reminders[subID]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	reminder.DateScheduled = at
	r.s.data.Reminders[subID] = reminder
	return nil
}

type frequencies struct{ s *Store }

func (r frequencies) GetByDescriptor(_ context.Context, descriptor string) (*domain.Frequency, error) {
	return r.find("frequencies.GetByDescriptor", func(f domain.Frequency) bool { return f.Descriptor == descriptor })
}

func (r frequencies) GetByID(_ context.Context, id int64) (*domain.Frequency, error) {
	return r.find("frequencies.GetByID", func(f domain.Frequency) bool { return f.ID == id })
}

func (r frequencies) GetAll(_ context.Context) ([]domain.Frequency, error) {
	if err := r.s.lock("frequencies.GetAll"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.frequencies), nil
}

func (r frequencies) find(op string, match func(domain.Frequency) bool) (*domain.Frequency, error) {
	if err := r.s.lock(op); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.frequencies, match)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	f := r.s.frequencies[i]
	return &f, nil
}

type emailsSent struct{ s *Store }

func (r emailsSent) Create(_ context.Context, email *domain.EmailSent) error {
	if err := r.s.lock("emailsSent.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	email.ID = int64(len(r.s.data.EmailsSent) + 1)
	r.s.data.EmailsSent = append(r.s.data.EmailsSent, *email)
	return nil
}
