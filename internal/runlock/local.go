package runlock

import (
	"context"
	"sync"
)

// Local is an in-process lock for single-node deployments.
type Local struct {
	mu sync.Mutex
}

// NewLocal creates an unlocked Local.
func NewLocal() *Local {
	return &Local{}
}

// TryLock takes the lock if it is free.
func (l *Local) TryLock(context.Context) (func(context.Context) error, bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	var once sync.Once
	unlock := func(context.Context) error {
		once.Do(l.mu.Unlock)
		return nil
	}
	return unlock, true, nil
}
