package employee

import "context"

// Listener receives the full collection after every successful mutation.
type Listener func(employees []Employee)

// Store is the single authoritative owner of the employee collection.
type Store interface {
	GetAll() []Employee
	Get(id string) (Employee, bool)
	Add(ctx context.Context, e Employee) (Employee, error)
	// Update replaces the record with e.ID and reports whether one matched. An unknown id is a
	// no-op: nothing is written, nobody is notified and the error is nil.
	Update(ctx context.Context, e Employee) (bool, error)
	Delete(ctx context.Context, id string) error
	// Subscribe registers l and returns a handle that removes it. Calling the handle more than once is safe.
	Subscribe(l Listener) (unsubscribe func())
}
