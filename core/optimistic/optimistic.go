// Package optimistic applies local state changes before the remote call that confirms them.
package optimistic

import (
	"context"
	"sync"
)

// Update is a tentative local change and its inverse.
type Update struct {
	Apply    func()
	Rollback func()
}

// Do applies u, runs call and rolls u back if call fails. The call error is returned as is.
// A panicking call is rolled back too before the panic resumes.
func Do(ctx context.Context, u Update, call func(ctx context.Context) error) (err error) {
	if u.Apply != nil {
		u.Apply()
	}

	var once sync.Once
	rollback := func() {
		if u.Rollback != nil {
			once.Do(u.Rollback)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err = call(ctx); err != nil {
		rollback()
	}
	return err
}

// Guarded returns the Update running apply and rollback while holding mu.
// Either may be nil.
func Guarded(mu sync.Locker, apply, rollback func()) Update {
	locked := func(f func()) func() {
		if f == nil {
			return nil
		}
		return func() {
			mu.Lock()
			defer mu.Unlock()
			f()
		}
	}
	return Update{Apply: locked(apply), Rollback: locked(rollback)}
}
