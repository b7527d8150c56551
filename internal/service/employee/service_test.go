package employee

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/storage"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/validator"
	"github.com/cmlabs-hris/employee-directory/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func setup(t *testing.T) (employee.EmployeeService, *store.EmployeeStore, *failingStorage) {
	t.Helper()
	kv := newFailingStorage()
	s, err := store.New(context.Background(), kv)
	require.NoError(t, err)
	return NewEmployeeService(s, nil), s, kv
}

func validCreate() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		DateOfEmployment: "2024-06-01",
		DateOfBirth:      "1990-12-10",
		PhoneNumber:      "5301234567",
		Email:            "ada@example.com",
		Department:       "Tech",
		Position:         "Senior",
	}
}

func TestListEmployees_ReturnsStoreOrder(t *testing.T) {
	svc, _, _ := setup(t)

	got := svc.ListEmployees(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "John", got[0].FirstName)
	assert.Equal(t, "Jane", got[1].FirstName)
}

func TestGetEmployee(t *testing.T) {
	svc, _, _ := setup(t)

	got, err := svc.GetEmployee(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Smith", got.LastName)
	assert.Equal(t, "Analytics", got.Department)

	_, err = svc.GetEmployee(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCreateEmployee_AddsToStore(t *testing.T) {
	svc, s, _ := setup(t)

	created, err := svc.CreateEmployee(context.Background(), validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.FirstName)

	stored, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, employee.PositionSenior, stored.Position)
	assert.Len(t, s.GetAll(), 3)
}

func TestCreateEmployee_InvalidRequestDoesNotTouchStore(t *testing.T) {
	svc, s, _ := setup(t)

	req := validCreate()
	req.Email = "not-an-email"
	req.PhoneNumber = "123"

	_, err := svc.CreateEmployee(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "email")
	assert.Contains(t, verrs.ToMap(), "phoneNumber")
	assert.Len(t, s.GetAll(), 2)
}

func TestCreateEmployee_StorageFailure(t *testing.T) {
	svc, s, kv := setup(t)
	kv.failWith(errors.New("disk full"))

	_, err := svc.CreateEmployee(context.Background(), validCreate())
	assert.Error(t, err)
	assert.Len(t, s.GetAll(), 2)
}

func TestUpdateEmployee(t *testing.T) {
	svc, s, _ := setup(t)

	c := validCreate()
	req := employee.UpdateEmployeeRequest{
		ID:               "1",
		FirstName:        "Johnny",
		LastName:         c.LastName,
		DateOfEmployment: c.DateOfEmployment,
		DateOfBirth:      c.DateOfBirth,
		PhoneNumber:      c.PhoneNumber,
		Email:            c.Email,
		Department:       c.Department,
		Position:         c.Position,
	}

	got, err := svc.UpdateEmployee(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.FirstName)

	stored, _ := s.Get("1")
	assert.Equal(t, "Johnny", stored.FirstName)
	assert.Equal(t, "1", s.GetAll()[0].ID, "update keeps position in the collection")
}

func TestUpdateEmployee_UnknownIDIsNotFound(t *testing.T) {
	svc, s, _ := setup(t)

	c := validCreate()
	req := employee.UpdateEmployeeRequest{
		ID:               "missing",
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		DateOfEmployment: c.DateOfEmployment,
		DateOfBirth:      c.DateOfBirth,
		PhoneNumber:      c.PhoneNumber,
		Email:            c.Email,
		Department:       c.Department,
		Position:         c.Position,
	}

	_, err := svc.UpdateEmployee(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Len(t, s.GetAll(), 2)
}

func TestUpdateEmployee_AfterConcurrentDelete(t *testing.T) {
	c := validCreate()
	req := employee.UpdateEmployeeRequest{
		ID:               "1",
		FirstName:        "Johnny",
		LastName:         c.LastName,
		DateOfEmployment: c.DateOfEmployment,
		DateOfBirth:      c.DateOfBirth,
		PhoneNumber:      c.PhoneNumber,
		Email:            c.Email,
		Department:       c.Department,
		Position:         c.Position,
	}

	for i := 0; i < 50; i++ {
		svc, s, _ := setup(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		var updateErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updateErr = svc.UpdateEmployee(ctx, req)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.DeleteEmployee(ctx, "1"))
		}()
		wg.Wait()

		if updateErr != nil {
			assert.ErrorIs(t, updateErr, employee.ErrEmployeeNotFound)
		}
		_, ok := s.Get("1")
		assert.False(t, ok, "a deleted employee is never brought back")

		// Once the delete has landed the update must report not-found
		_, err := svc.UpdateEmployee(ctx, req)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	}
}

func TestDeleteEmployee_IsIdempotent(t *testing.T) {
	svc, s, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteEmployee(ctx, "2"))
	require.NoError(t, svc.DeleteEmployee(ctx, "2"))

	all := s.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, "John", all[0].FirstName)
}
