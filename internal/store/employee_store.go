// Package store holds the authoritative employee collection and keeps it in
// sync with durable storage.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/metrics"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
	"github.com/google/uuid"
)

// EmployeeStore owns the employee collection. Every mutation is written through to storage
// before any listener hears about it.
//
// Listeners run synchronously inside the mutating call. They may read from the store but must
// not call Add, Update or Delete from the callback.
type EmployeeStore struct {
	storage storage.Storage
	logger  *slog.Logger
	metrics *metrics.Metrics
	newID   func() string
	seed    []employee.Employee

	// writeMu serializes mutate, persist and notify so listeners see mutations in order.
	writeMu sync.Mutex

	mu        sync.RWMutex
	employees []employee.Employee

	listenersMu sync.Mutex
	listeners   map[uint64]employee.Listener
	nextToken   uint64
}

type Option func(*EmployeeStore)

func WithLogger(l *slog.Logger) Option {
	return func(s *EmployeeStore) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EmployeeStore) { s.metrics = m }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *EmployeeStore) { s.newID = fn }
}

// WithSeed replaces the bootstrap sample written on first load.
func WithSeed(seed []employee.Employee) Option {
	return func(s *EmployeeStore) { s.seed = seed }
}

// NewUUIDv7 returns a time-ordered id. Ids from one process are strictly increasing.
func NewUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New loads the collection from st. When nothing (or an empty list) is stored, the sample
// employees are persisted and become the collection.
func New(ctx context.Context, st storage.Storage, opts ...Option) (*EmployeeStore, error) {
	s := &EmployeeStore{
		storage:   st,
		logger:    slog.Default(),
		newID:     NewUUIDv7,
		seed:      SampleEmployees(),
		listeners: make(map[uint64]employee.Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if len(loaded) == 0 {
		loaded = clone(s.seed)
		if err := s.persist(ctx, loaded); err != nil {
			return nil, fmt.Errorf("failed to persist sample employees: %w", err)
		}
		s.logger.Info("Employee store seeded", "count", len(loaded))
	}

	s.employees = loaded
	s.metrics.SetEmployees(len(loaded))
	return s, nil
}

func (s *EmployeeStore) load(ctx context.Context) ([]employee.Employee, error) {
	data, err := s.storage.Get(ctx, storage.KeyEmployees)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	var employees []employee.Employee
	if err := json.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("%w: %v", employee.ErrCorruptCollection, err)
	}
	return employees, nil
}

// GetAll returns a copy of the collection in insertion order.
func (s *EmployeeStore) GetAll() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.employees)
}

func (s *EmployeeStore) Get(id string) (employee.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.employees, id); i >= 0 {
		return s.employees[i], true
	}
	return employee.Employee{}, false
}

// Add assigns a fresh id to e, appends it and returns the stored record.
func (s *EmployeeStore) Add(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	e.ID = s.newID()
	// Ids are collision-improbable, not collision-proof
	for indexOf(s.employees, e.ID) >= 0 {
		e.ID = s.newID()
	}

	next := make([]employee.Employee, len(s.employees), len(s.employees)+1)
	copy(next, s.employees)
	next = append(next, e)

	if err := s.commit(ctx, "add", next); err != nil {
		return employee.Employee{}, err
	}
	s.logger.Debug("Employee added", "id", e.ID)
	return e, nil
}

// Update replaces the record with e.ID and reports whether it existed. An unknown id is a
// no-op: nothing is written and nobody is notified.
func (s *EmployeeStore) Update(ctx context.Context, e employee.Employee) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := indexOf(s.employees, e.ID)
	if i < 0 {
		s.logger.Debug("Employee update ignored, id not found", "id", e.ID)
		return false, nil
	}

	next := clone(s.employees)
	next[i] = e

	if err := s.commit(ctx, "update", next); err != nil {
		return false, err
	}
	s.logger.Debug("Employee updated", "id", e.ID)
	return true, nil
}

// Delete removes every record with id. The collection is persisted and listeners are notified
// even when nothing matched.
func (s *EmployeeStore) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if e.ID != id {
			next = append(next, e)
		}
	}

	removed := len(s.employees) - len(next)
	if err := s.commit(ctx, "delete", next); err != nil {
		return err
	}
	s.logger.Debug("Employee deleted", "id", id, "removed", removed)
	return nil
}

// Subscribe registers l. The returned function removes exactly this registration.
func (s *EmployeeStore) Subscribe(l employee.Listener) func() {
	s.listenersMu.Lock()
	s.nextToken++
	token := s.nextToken
	s.listeners[token] = l
	count := len(s.listeners)
	s.listenersMu.Unlock()
	s.metrics.SetStoreListeners(count)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, token)
			count := len(s.listeners)
			s.listenersMu.Unlock()
			s.metrics.SetStoreListeners(count)
		})
	}
}

// ListenerCount returns the number of active subscriptions.
func (s *EmployeeStore) ListenerCount() int {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	return len(s.listeners)
}

// commit persists next, swaps it in and notifies. Caller holds writeMu. On a storage error
// the in-memory collection is untouched.
func (s *EmployeeStore) commit(ctx context.Context, op string, next []employee.Employee) error {
	if err := s.persist(ctx, next); err != nil {
		s.metrics.IncPersistFailure()
		s.logger.Error("Employee store write failed", "op", op, "error", err)
		return fmt.Errorf("failed to persist employees: %w", err)
	}

	s.mu.Lock()
	s.employees = next
	s.mu.Unlock()

	s.metrics.IncMutation(op)
	s.metrics.SetEmployees(len(next))
	s.notify(next)
	return nil
}

func (s *EmployeeStore) persist(ctx context.Context, employees []employee.Employee) error {
	start := time.Now()
	defer s.metrics.ObservePersist(start)

	// Keep "[]" rather than "null" for an empty collection
	if employees == nil {
		employees = []employee.Employee{}
	}
	data, err := json.Marshal(employees)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, storage.KeyEmployees, data)
}

func (s *EmployeeStore) notify(employees []employee.Employee) {
	start := time.Now()
	defer s.metrics.ObserveNotify(start)

	s.listenersMu.Lock()
	tokens := make([]uint64, 0, len(s.listeners))
	for token := range s.listeners {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	active := make([]employee.Listener, 0, len(tokens))
	for _, token := range tokens {
		active = append(active, s.listeners[token])
	}
	s.listenersMu.Unlock()

	for _, l := range active {
		l(clone(employees))
	}
}

func indexOf(employees []employee.Employee, id string) int {
	for i, e := range employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func clone(employees []employee.Employee) []employee.Employee {
	out := make([]employee.Employee, len(employees))
	copy(out, employees)
	return out
}
