package listview

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/domain/listview"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/metrics"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
	"github.com/google/uuid"
)

// Manager owns the open list views, one Controller per client view.
type Manager struct {
	store   employee.Store
	storage storage.Storage
	logger  *slog.Logger
	metrics *metrics.Metrics
	perPage int
	now     func() time.Time
	newID   func() string

	onOpen     func(viewID string)
	onSnapshot func(viewID string, s listview.Snapshot)
	onClose    func(viewID string)

	mu    sync.RWMutex
	views map[string]*Controller
}

type ManagerOption func(*Manager)

func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

func WithManagerMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) { m.metrics = mt }
}

func WithPageSize(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.perPage = n
		}
	}
}

// WithOpenHook is called with the id of every new view before Open returns it.
func WithOpenHook(fn func(viewID string)) ManagerOption {
	return func(m *Manager) { m.onOpen = fn }
}

// WithSnapshotHook is called with every snapshot a view produces.
func WithSnapshotHook(fn func(viewID string, s listview.Snapshot)) ManagerOption {
	return func(m *Manager) { m.onSnapshot = fn }
}

// WithCloseHook is called once a view has been closed and removed.
func WithCloseHook(fn func(viewID string)) ManagerOption {
	return func(m *Manager) { m.onClose = fn }
}

func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(st employee.Store, kv storage.Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:   st,
		storage: kv,
		logger:  slog.Default(),
		perPage: listview.DefaultItemsPerPage,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		views:   make(map[string]*Controller),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a view with an empty query on page 1.
func (m *Manager) Open(ctx context.Context) (*Controller, string, error) {
	id := m.newID()

	opts := []ControllerOption{
		WithItemsPerPage(m.perPage),
		WithControllerLogger(m.logger),
		WithClock(m.now),
	}
	if m.onSnapshot != nil {
		hook := m.onSnapshot
		opts = append(opts, WithOnChange(func(s listview.Snapshot) { hook(id, s) }))
	}

	c, err := NewController(ctx, id, m.store, m.storage, opts...)
	if err != nil {
		return nil, "", err
	}
	if m.onOpen != nil {
		m.onOpen(id)
	}

	m.mu.Lock()
	m.views[id] = c
	n := len(m.views)
	m.mu.Unlock()

	m.metrics.SetOpenViews(n)
	m.logger.Info("List view opened", "view_id", id, "open_views", n)
	return c, id, nil
}

// Get returns the view and marks it as active.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	c, ok := m.views[id]
	m.mu.RUnlock()
	if !ok {
		return nil, listview.ErrViewNotFound
	}
	c.Touch()
	return c, nil
}

func (m *Manager) Close(id string) error {
	m.mu.Lock()
	c, ok := m.views[id]
	if ok {
		delete(m.views, id)
	}
	n := len(m.views)
	m.mu.Unlock()

	if !ok {
		return listview.ErrViewNotFound
	}

	m.teardown(c)
	m.metrics.SetOpenViews(n)
	m.logger.Info("List view closed", "view_id", id, "open_views", n)
	return nil
}

// CloseIdle closes every view with no activity for at least idle and reports how many it closed.
func (m *Manager) CloseIdle(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []*Controller
	for id, c := range m.views {
		if ctx.Err() != nil {
			break
		}
		if !c.LastActive().After(cutoff) {
			stale = append(stale, c)
			delete(m.views, id)
		}
	}
	n := len(m.views)
	m.mu.Unlock()

	for _, c := range stale {
		m.teardown(c)
	}

	if len(stale) > 0 {
		m.metrics.SetOpenViews(n)
		m.metrics.AddViewsReaped(len(stale))
		m.logger.Info("Closed idle list views", "closed", len(stale), "open_views", n)
	}
	return len(stale)
}

// CloseAll closes every open view, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	views := m.views
	m.views = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range views {
		m.teardown(c)
	}
	m.metrics.SetOpenViews(0)
}

func (m *Manager) teardown(c *Controller) {
	c.Close()
	if m.onClose != nil {
		m.onClose(c.ID())
	}
}

// IDs returns the open view ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.views))
	for id := range m.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.views)
}
