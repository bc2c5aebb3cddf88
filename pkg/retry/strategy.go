package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/code-payments/candy-drop/pkg/retry/backoff"
)

// Strategy decides whether another attempt should follow a failed one.
// Strategies may block, for example to back off.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts, including the first.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableFunc retries errors accepted by isRetriable.
func RetriableFunc(isRetriable func(error) bool) Strategy {
	return func(_ uint, err error) bool {
		return isRetriable(err)
	}
}

// RetriableErrors retries only errors matching one of targets.
func RetriableErrors(targets ...error) Strategy {
	return RetriableFunc(func(err error) bool {
		return matchesAny(err, targets)
	})
}

// NonRetriableErrors retries everything except errors matching one of targets.
func NonRetriableErrors(targets ...error) Strategy {
	return RetriableFunc(func(err error) bool {
		return !matchesAny(err, targets)
	})
}

// Context stops retrying once ctx is done. Place it before any backoff.
func Context(ctx context.Context) Strategy {
	return func(uint, error) bool {
		return ctx.Err() == nil
	}
}

// Backoff sleeps for the delay given by strategy, capped at maxBackoff.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return BackoffWithJitter(strategy, maxBackoff, 0)
}

// BackoffWithJitter is Backoff with the capped delay randomly moved by up to
// the jitter fraction in either direction.
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := min(strategy(attempts), maxBackoff)
		if jitter > 0 {
			delay = time.Duration(float64(delay) * (1 + jitter*(2*rand.Float64()-1)))
		}

		sleeperImpl.Sleep(delay)
		return true
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type sleeper interface {
	Sleep(time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

var sleeperImpl sleeper = realSleeper{}
