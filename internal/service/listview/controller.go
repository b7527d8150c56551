package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/domain/listview"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
)

// Controller is the state of one list view: search text, page, selection, view mode and the
// delete confirmation, recomputed from the latest store snapshot.
//
// The change hook runs while the controller is locked and must not call back into it.
type Controller struct {
	id      string
	store   employee.Store
	storage storage.Storage
	logger  *slog.Logger
	perPage int
	now     func() time.Time

	mu            sync.Mutex
	employees     []employee.Employee
	query         string
	page          int
	view          View
	selected      map[string]struct{}
	viewMode      listview.ViewMode
	compact       bool
	pendingDelete *employee.Employee
	lastActive    time.Time
	onChange      func(listview.Snapshot)

	closeOnce   sync.Once
	closed      bool
	unsubscribe func()
}

type ControllerOption func(*Controller)

func WithItemsPerPage(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.perPage = n
		}
	}
}

func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithOnChange sets the hook called with a fresh snapshot after every state change.
func WithOnChange(fn func(listview.Snapshot)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// NewController restores the persisted view mode, subscribes to st and takes its first snapshot.
// Close must be called when the view goes away.
func NewController(ctx context.Context, id string, st employee.Store, kv storage.Storage, opts ...ControllerOption) (*Controller, error) {
	c := &Controller{
		id:       id,
		store:    st,
		storage:  kv,
		logger:   slog.Default(),
		perPage:  listview.DefaultItemsPerPage,
		now:      time.Now,
		page:     1,
		selected: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	mode, err := c.loadViewMode(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewMode = mode
	c.lastActive = c.now()
	// Subscribe before reading so no mutation falls between the two
	c.unsubscribe = st.Subscribe(c.handleStoreChange)
	c.employees = st.GetAll()
	c.recompute()
	return c, nil
}

func (c *Controller) loadViewMode(ctx context.Context) (listview.ViewMode, error) {
	data, err := c.storage.Get(ctx, storage.KeyViewMode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return listview.ViewModeTable, nil
		}
		return "", fmt.Errorf("failed to load view mode: %w", err)
	}
	mode, err := listview.ParseViewMode(string(data))
	if err != nil {
		c.logger.Warn("Ignoring stored view mode", "value", string(data))
		return listview.ViewModeTable, nil
	}
	return mode, nil
}

func (c *Controller) ID() string {
	return c.id
}

// LastActive is the time of the last intent handled by this view.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Touch marks the view as in use without changing its state.
func (c *Controller) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = c.now()
}

func (c *Controller) Snapshot() listview.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Search sets the query and always returns to page 1.
func (c *Controller) Search(query string) listview.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	c.query = query
	c.page = 1
	c.recompute()
	return c.emit()
}

// SetPage moves to page n when 1 <= n <= TotalPages. Anything else is ignored and false is returned.
func (c *Controller) SetPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	if n < 1 || n > c.view.TotalPages {
		return false
	}
	c.page = n
	c.recompute()
	c.emit()
	return true
}

// ToggleSelect checks or unchecks a single row. Checking an id that is not in the collection
// leaves the selection unchanged.
func (c *Controller) ToggleSelect(id string, checked bool) listview.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	if checked {
		if !c.hasEmployee(id) {
			return c.snapshot()
		}
		c.selected[id] = struct{}{}
	} else {
		delete(c.selected, id)
	}
	return c.emit()
}

// ToggleSelectAll selects every employee in the collection, whatever the current filter,
// or clears the selection.
func (c *Controller) ToggleSelectAll(checked bool) listview.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	c.selected = make(map[string]struct{}, len(c.employees))
	if checked {
		for _, e := range c.employees {
			c.selected[e.ID] = struct{}{}
		}
	}
	return c.emit()
}

// SetViewMode persists mode as the shared preference, then applies it to this view.
func (c *Controller) SetViewMode(ctx context.Context, mode listview.ViewMode) (listview.Snapshot, error) {
	mode, err := listview.ParseViewMode(string(mode))
	if err != nil {
		return listview.Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	if err := c.setViewModeLocked(ctx, mode); err != nil {
		return listview.Snapshot{}, err
	}
	return c.emit(), nil
}

func (c *Controller) setViewModeLocked(ctx context.Context, mode listview.ViewMode) error {
	if err := c.storage.Set(ctx, storage.KeyViewMode, []byte(mode)); err != nil {
		return fmt.Errorf("failed to persist view mode: %w", err)
	}
	c.viewMode = mode
	return nil
}

// SetCompact records whether the viewport is too narrow for the table. Becoming compact while
// in table mode switches to the compact list.
func (c *Controller) SetCompact(ctx context.Context, compact bool) (listview.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	if compact == c.compact {
		return c.snapshot(), nil
	}
	c.compact = compact
	if compact && c.viewMode == listview.ViewModeTable {
		if err := c.setViewModeLocked(ctx, listview.ViewModeCompactList); err != nil {
			return listview.Snapshot{}, err
		}
	}
	return c.emit(), nil
}

// RequestDelete remembers the employee to delete until ConfirmDelete or CancelDelete.
func (c *Controller) RequestDelete(id string) (employee.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	for _, e := range c.employees {
		if e.ID == id {
			pending := e
			c.pendingDelete = &pending
			c.emit()
			return pending, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

// hasEmployee reports whether id is in the latest store snapshot. Caller holds mu.
func (c *Controller) hasEmployee(id string) bool {
	for _, e := range c.employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (c *Controller) CancelDelete() listview.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = c.now()
	c.pendingDelete = nil
	return c.emit()
}

// ConfirmDelete deletes the pending employee from the store. On a storage failure the request
// stays pending so it can be retried or cancelled.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return listview.ErrViewClosed
	}
	c.lastActive = c.now()
	if c.pendingDelete == nil {
		c.mu.Unlock()
		return listview.ErrNoPendingDelete
	}
	id := c.pendingDelete.ID
	c.mu.Unlock()

	// The store notifies this controller synchronously, so the lock must not be held here
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete != nil && c.pendingDelete.ID == id {
		c.pendingDelete = nil
		c.emit()
	}
	return nil
}

// Close unsubscribes from the store. Safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.unsubscribe()
		c.logger.Debug("List view closed", "view_id", c.id)
	})
}

func (c *Controller) handleStoreChange(employees []employee.Employee) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.employees = employees

	present := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		present[e.ID] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := present[id]; !ok {
			delete(c.selected, id)
		}
	}
	if c.pendingDelete != nil {
		if _, ok := present[c.pendingDelete.ID]; !ok {
			c.pendingDelete = nil
		}
	}

	// Data changes keep the page; only a query change goes back to page 1
	c.recompute()
	c.emit()
}

// recompute derives the view and clamps the page into 1..max(1, TotalPages). Caller holds mu.
func (c *Controller) recompute() {
	c.view = Derive(c.employees, c.query, c.page, c.perPage)
	maxPage := c.view.TotalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if c.page > maxPage || c.page < 1 {
		if c.page < 1 {
			c.page = 1
		} else {
			c.page = maxPage
		}
		c.view = Derive(c.employees, c.query, c.page, c.perPage)
	}
}

// emit builds a snapshot and hands it to the change hook. Caller holds mu.
func (c *Controller) emit() listview.Snapshot {
	s := c.snapshot()
	if c.onChange != nil {
		c.onChange(s)
	}
	return s
}

func (c *Controller) snapshot() listview.Snapshot {
	selected := make([]string, 0, len(c.selected))
	for id := range c.selected {
		selected = append(selected, id)
	}
	sort.Strings(selected)

	items := make([]employee.Employee, len(c.view.Items))
	copy(items, c.view.Items)

	var pending *employee.Employee
	if c.pendingDelete != nil {
		p := *c.pendingDelete
		pending = &p
	}

	return listview.Snapshot{
		Items:         items,
		TotalItems:    len(c.view.Filtered),
		TotalPages:    c.view.TotalPages,
		CurrentPage:   c.page,
		ItemsPerPage:  c.perPage,
		SearchQuery:   c.query,
		SelectedIDs:   selected,
		ViewMode:      c.viewMode,
		Compact:       c.compact,
		PendingDelete: pending,
	}
}

// Filtered returns every employee matching the current query, across all pages.
func (c *Controller) Filtered() []employee.Employee {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]employee.Employee, len(c.view.Filtered))
	copy(out, c.view.Filtered)
	return out
}
