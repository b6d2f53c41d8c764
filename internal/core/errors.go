package core

import (
	"errors"
	"time"
)

var (
	ErrSourceExhausted = errors.New("source stream exhausted")
	ErrProcessorFailed = errors.New("processing step failed")
	ErrSinkWriteFailed = errors.New("sink write failed")
	ErrRateLimit       = errors.New("rate limit exceeded")
	ErrQuotaExceeded   = errors.New("daily schedule generation quota exceeded")
	ErrDuplicateJob    = errors.New("schedule job already queued")
	ErrMissingVector   = errors.New("task is missing vector data")
)

type RetryableError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func IsRetryable(err error) (bool, time.Duration) {
	var re *RetryableError
	if errors.As(err, &re) {
		return true, re.RetryAfter
	}
	return false, 0
}
