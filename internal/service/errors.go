package service

import "errors"

var (
	ErrSubscriberAlreadyExist      = errors.New("subscriber already exist")
	ErrSubscriberNotFound          = errors.New("subscriber not found")
	ErrSubscriberNotConfirmed      = errors.New("subscriber not confirmed")
	ErrUnknownFrequency            = errors.New("unknown frequency")
	ErrInvalidCode                 = errors.New("invalid code")
	ErrPendingUpdateNotFound       = errors.New("pending update not found")
	ErrUnsubscribeAlreadyRequested = errors.New("unsubscribe already requested")
)
