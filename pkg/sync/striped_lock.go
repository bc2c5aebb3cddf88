package sync

import (
	"context"
	"fmt"
)

const (
	hashEntriesPerLock = 200
)

// StripedLock is a partitioned locking mechanism that consistently maps a key
// space to a fixed set of locks. Keys that share a stripe serialize with each
// other, which bounds memory regardless of how many keys are seen.
//
// Acquisition honours context cancellation, so a caller waiting behind a slow
// holder can give up.
type StripedLock struct {
	stripes  []chan struct{}
	hashRing *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes.
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	entries := make(map[string]int, stripes)
	for i := 0; i < int(stripes); i++ {
		entries[fmt.Sprintf("lock%d", i)] = i
	}

	l := &StripedLock{
		stripes:  make([]chan struct{}, stripes),
		hashRing: newRing(entries, hashEntriesPerLock),
	}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock blocks until the stripe for key is held or ctx is done. The returned
// function releases the stripe and must be called exactly once.
func (l *StripedLock) Lock(ctx context.Context, key []byte) (unlock func(), err error) {
	stripe := l.stripes[l.hashRing.shard(key)]

	select {
	case stripe <- struct{}{}:
		return func() { <-stripe }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryLock acquires the stripe for key without blocking.
func (l *StripedLock) TryLock(key []byte) (unlock func(), ok bool) {
	stripe := l.stripes[l.hashRing.shard(key)]

	select {
	case stripe <- struct{}{}:
		return func() { <-stripe }, true
	default:
		return nil, false
	}
}
