package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/metrics"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 100
	return func() string {
		n++
		return fmt.Sprintf("emp-%d", n)
	}
}

// failingStorage is a MemoryStorage whose writes start failing after failWith.
type failingStorage struct {
	*storage.MemoryStorage
	mu  sync.Mutex
	err error
}

func newFailingStorage() *failingStorage {
	return &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
}

func (s *failingStorage) failWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *failingStorage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStorage.Set(ctx, key, value)
}

func newTestStore(t *testing.T, st storage.Storage, opts ...Option) *EmployeeStore {
	t.Helper()
	s, err := New(context.Background(), st, opts...)
	require.NoError(t, err)
	return s
}

func newEmployee(first, last string) employee.Employee {
	return employee.Employee{
		FirstName:        first,
		LastName:         last,
		DateOfEmployment: "2024-01-02",
		DateOfBirth:      "1994-03-04",
		PhoneNumber:      "5301234567",
		Email:            first + "@example.com",
		Department:       employee.DepartmentTech,
		Position:         employee.PositionJunior,
	}
}

// recorder collects every notification payload.
type recorder struct {
	calls [][]employee.Employee
}

func (r *recorder) listen(employees []employee.Employee) {
	r.calls = append(r.calls, employees)
}

// ===== LOAD / SEED =====

func TestNew_SeedsAndPersistsOnFirstLoad(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()

	s := newTestStore(t, st)

	assert.Equal(t, SampleEmployees(), s.GetAll())
	stored, err := st.Get(ctx, storage.KeyEmployees)
	require.NoError(t, err)
	assert.Contains(t, string(stored), `"firstName":"John"`)
	assert.Contains(t, string(stored), `"firstName":"Jane"`)
}

func TestNew_SeedsWhenStoredCollectionIsEmpty(t *testing.T) {
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(context.Background(), storage.KeyEmployees, []byte(`[]`)))

	s := newTestStore(t, st)
	assert.Len(t, s.GetAll(), 2)
}

func TestNew_LoadsExistingCollectionWithoutSeeding(t *testing.T) {
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(context.Background(), storage.KeyEmployees,
		[]byte(`[{"id":"7","firstName":"Ada","lastName":"Lovelace","department":"Tech","position":"Senior"}]`)))

	s := newTestStore(t, st)

	all := s.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, "7", all[0].ID)
	assert.Equal(t, employee.PositionSenior, all[0].Position)
}

func TestNew_CorruptedContentFails(t *testing.T) {
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(context.Background(), storage.KeyEmployees, []byte(`{not json`)))

	_, err := New(context.Background(), st)
	assert.ErrorIs(t, err, employee.ErrCorruptCollection)
}

func TestNew_SeedWriteFailureFails(t *testing.T) {
	st := newFailingStorage()
	st.failWith(assert.AnError)

	_, err := New(context.Background(), st)
	assert.ErrorIs(t, err, assert.AnError)
}

// ===== READS =====

func TestGetAll_ReturnsDefensiveCopy(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())

	all := s.GetAll()
	all[0].FirstName = "Mutated"

	fresh := s.GetAll()
	assert.Equal(t, "John", fresh[0].FirstName)
	assert.Len(t, fresh, 2)
}

func TestGet(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryStorage())

	e, ok := s.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Jane", e.FirstName)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

// ===== ADD =====

func TestAdd_AssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())

	seen := map[string]bool{"1": true, "2": true}
	for i := 0; i < 50; i++ {
		in := newEmployee(fmt.Sprintf("First%d", i), "Last")
		in.ID = "caller-supplied"
		added, err := s.Add(ctx, in)
		require.NoError(t, err)
		assert.NotEqual(t, "caller-supplied", added.ID)
		assert.False(t, seen[added.ID], "duplicate id %s", added.ID)
		seen[added.ID] = true
	}
	assert.Len(t, s.GetAll(), 52)
}

func TestAdd_RegeneratesCollidingID(t *testing.T) {
	ids := []string{"1", "1", "fresh"}
	next := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	s := newTestStore(t, storage.NewMemoryStorage(), WithIDGenerator(next))

	added, err := s.Add(context.Background(), newEmployee("Ayse", "Kaya"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", added.ID)
}

func TestNewUUIDv7_IsIncreasing(t *testing.T) {
	prev := NewUUIDv7()
	for i := 0; i < 100; i++ {
		id := NewUUIDv7()
		assert.Greater(t, id, prev)
		prev = id
	}
}

// ===== WRITE-THROUGH =====

func TestMutations_AreWrittenThrough(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	s := newTestStore(t, st, WithIDGenerator(sequentialIDs()))

	added, err := s.Add(ctx, newEmployee("Mehmet", "Demir"))
	require.NoError(t, err)
	assertReloadMatches(t, st, s)

	updated := added
	updated.Position = employee.PositionMedior
	found, err := s.Update(ctx, updated)
	require.NoError(t, err)
	require.True(t, found)
	assertReloadMatches(t, st, s)

	require.NoError(t, s.Delete(ctx, "1"))
	assertReloadMatches(t, st, s)

	require.NoError(t, s.Delete(ctx, "2"))
	require.NoError(t, s.Delete(ctx, added.ID))
	assertReloadMatches(t, st, s)
}

func assertReloadMatches(t *testing.T, st storage.Storage, s *EmployeeStore) {
	t.Helper()
	before := s.GetAll()
	reloaded := newTestStore(t, st, WithSeed(nil))
	if len(before) == 0 {
		// An empty stored collection reseeds with the (here empty) seed
		assert.Empty(t, reloaded.GetAll())
		return
	}
	assert.Equal(t, before, reloaded.GetAll())
}

func TestMutations_PersistFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	st := newFailingStorage()
	s := newTestStore(t, st)
	rec := &recorder{}
	defer s.Subscribe(rec.listen)()

	st.failWith(assert.AnError)
	before := s.GetAll()

	_, err := s.Add(ctx, newEmployee("Zeynep", "Arslan"))
	assert.ErrorIs(t, err, assert.AnError)

	changed := before[0]
	changed.FirstName = "Johnny"
	found, err := s.Update(ctx, changed)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, found)

	assert.ErrorIs(t, s.Delete(ctx, "1"), assert.AnError)

	assert.Equal(t, before, s.GetAll())
	assert.Empty(t, rec.calls, "no notification for a failed write")
}

// ===== UPDATE / DELETE =====

func TestUpdate_UnknownIDIsSilentNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())
	rec := &recorder{}
	defer s.Subscribe(rec.listen)()

	ghost := newEmployee("Ghost", "Record")
	ghost.ID = "does-not-exist"
	found, err := s.Update(ctx, ghost)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, SampleEmployees(), s.GetAll())
	assert.Empty(t, rec.calls)
}

func TestUpdate_ReplacesWholeRecordInPlace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())

	replacement := newEmployee("Janet", "Smyth")
	replacement.ID = "2"
	found, err := s.Update(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, found)

	all := s.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, replacement, all[1])
}

func TestDelete_NonexistentIDNotifiesUnchangedCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())
	rec := &recorder{}
	defer s.Subscribe(rec.listen)()

	require.NoError(t, s.Delete(ctx, "nope"))

	assert.Equal(t, SampleEmployees(), s.GetAll())
	require.Len(t, rec.calls, 1)
	assert.Equal(t, SampleEmployees(), rec.calls[0])
}

func TestDelete_Scenario_JohnAndJane(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.listen)
	defer unsubscribe()

	require.NoError(t, s.Delete(ctx, "1"))

	all := s.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, "Jane", all[0].FirstName)

	require.Len(t, rec.calls, 1)
	require.Len(t, rec.calls[0], 1)
	assert.Equal(t, "Jane", rec.calls[0][0].FirstName)
}

// ===== SUBSCRIBE =====

func TestSubscribe_EverySubscriberGetsOneCallPerMutation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage(), WithIDGenerator(sequentialIDs()))

	recs := []*recorder{{}, {}, {}}
	for _, r := range recs {
		defer s.Subscribe(r.listen)()
	}

	added, err := s.Add(ctx, newEmployee("Can", "Ozturk"))
	require.NoError(t, err)
	added.LastName = "Öztürk"
	_, err = s.Update(ctx, added)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "1"))

	for _, r := range recs {
		require.Len(t, r.calls, 3)
		assert.Equal(t, s.GetAll(), r.calls[2])
		assert.Len(t, r.calls[0], 3)
		assert.Equal(t, "Öztürk", r.calls[1][2].LastName)
	}
}

func TestSubscribe_PayloadIsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())

	first, second := &recorder{}, &recorder{}
	defer s.Subscribe(func(e []employee.Employee) {
		e[0].FirstName = "Tampered"
		first.listen(e)
	})()
	defer s.Subscribe(second.listen)()

	require.NoError(t, s.Delete(ctx, "nope"))

	assert.Equal(t, "John", second.calls[0][0].FirstName)
	assert.Equal(t, "John", s.GetAll()[0].FirstName)
}

func TestSubscribe_UnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())

	kept, dropped := &recorder{}, &recorder{}
	defer s.Subscribe(kept.listen)()
	unsubscribe := s.Subscribe(dropped.listen)
	assert.Equal(t, 2, s.ListenerCount())

	require.NoError(t, s.Delete(ctx, "x"))
	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, s.ListenerCount())

	require.NoError(t, s.Delete(ctx, "y"))

	assert.Len(t, kept.calls, 2)
	assert.Len(t, dropped.calls, 1)
}

func TestSubscribe_SameFunctionTwiceIsTwoRegistrations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())

	rec := &recorder{}
	unsubscribeA := s.Subscribe(rec.listen)
	defer s.Subscribe(rec.listen)()

	require.NoError(t, s.Delete(ctx, "x"))
	assert.Len(t, rec.calls, 2)

	unsubscribeA()
	require.NoError(t, s.Delete(ctx, "x"))
	assert.Len(t, rec.calls, 3)
}

func TestSubscribe_ListenerMayReadStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryStorage())

	var seen []employee.Employee
	defer s.Subscribe(func([]employee.Employee) {
		seen = s.GetAll()
	})()

	require.NoError(t, s.Delete(ctx, "2"))
	require.Len(t, seen, 1)
	assert.Equal(t, "John", seen[0].FirstName)
}

// ===== METRICS =====

func TestMetrics_TrackMutationsAndListeners(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())
	st := newFailingStorage()
	s := newTestStore(t, st, WithMetrics(m))

	unsubscribe := s.Subscribe(func([]employee.Employee) {})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreListeners))

	_, err := s.Add(ctx, newEmployee("Elif", "Sahin"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "1"))

	st.failWith(assert.AnError)
	assert.Error(t, s.Delete(ctx, "2"))

	unsubscribe()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreListeners))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Employees))
}

func TestEmployeeStore_ImplementsStore(t *testing.T) {
	var _ employee.Store = newTestStore(t, storage.NewMemoryStorage())
}
