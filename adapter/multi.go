package adapter

import (
	"context"
	"errors"
)

// Multi fans one Publish out to several adapters. Every adapter is
// attempted even when an earlier one fails; errors are joined.
type Multi struct {
	adapters []Adapter
}

// NewMulti creates a fanout adapter. Nil entries are skipped.
func NewMulti(adapters ...Adapter) *Multi {
	kept := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		if a != nil {
			kept = append(kept, a)
		}
	}
	return &Multi{adapters: kept}
}

// Empty reports whether there is nothing to publish to.
func (m *Multi) Empty() bool {
	return len(m.adapters) == 0
}

// Publish implements Adapter.
func (m *Multi) Publish(ctx context.Context, event *OperationEvent) error {
	var errs []error
	for _, a := range m.adapters {
		if err := a.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Adapter. All adapters are closed; errors are joined.
func (m *Multi) Close() error {
	var errs []error
	for _, a := range m.adapters {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verify Multi implements Adapter.
var _ Adapter = (*Multi)(nil)
