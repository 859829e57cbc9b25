package volume

import (
	"context"
	"sync"
)

// Fake is a scripted Controller for tests. It records every call and can be
// made to fail reads or sets.
type Fake struct {
	mu sync.Mutex

	Level   int
	ReadErr error
	SetErr  error

	Reads     int
	Sets      int
	SetLevels []int
}

func (f *Fake) ReadVolume(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	return f.Level, nil
}

func (f *Fake) SetVolume(_ context.Context, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sets++
	if f.SetErr != nil {
		return f.SetErr
	}
	f.Level = level
	f.SetLevels = append(f.SetLevels, level)
	return nil
}

// Calls reports read and set counts under the lock.
func (f *Fake) Calls() (reads, sets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Reads, f.Sets
}
