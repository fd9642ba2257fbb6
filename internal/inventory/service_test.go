package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	items map[uuid.UUID]Item
	loans map[uuid.UUID]Loan
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[uuid.UUID]Item{}, loans: map[uuid.UUID]Loan{}}
}

func (m *memRepo) GetItem(_ context.Context, id uuid.UUID) (*Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &it, nil
}

func (m *memRepo) ListItems(_ context.Context) ([]Item, error) {
	var out []Item
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func (m *memRepo) CreateItem(_ context.Context, it Item) (*Item, error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	m.items[it.ID] = it
	return &it, nil
}

func (m *memRepo) UpdateItem(_ context.Context, it Item) (*Item, error) {
	if _, ok := m.items[it.ID]; !ok {
		return nil, ErrItemNotFound
	}
	m.items[it.ID] = it
	return &it, nil
}

func (m *memRepo) DeleteItem(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) (*Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if it.Stock+delta < 0 {
		return nil, ErrInsufficientStock
	}
	it.Stock += delta
	m.items[id] = it
	return &it, nil
}

func (m *memRepo) GetLoan(_ context.Context, id uuid.UUID) (*Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return nil, ErrLoanNotFound
	}
	return &l, nil
}

func (m *memRepo) CreateLoan(_ context.Context, l Loan) (*Loan, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if it, ok := m.items[l.ItemID]; ok {
		l.ItemName = it.Name
	}
	m.loans[l.ID] = l
	return &l, nil
}

func (m *memRepo) CloseLoan(_ context.Context, id uuid.UUID, returnedAt time.Time) (*Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return nil, ErrLoanNotFound
	}
	if l.ReturnedAt != nil {
		return nil, ErrLoanAlreadyClosed
	}
	l.ReturnedAt = &returnedAt
	m.loans[id] = l
	return &l, nil
}

func (m *memRepo) ListOpenLoans(_ context.Context) ([]Loan, error) {
	var out []Loan
	for _, l := range m.loans {
		if l.ReturnedAt == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func testService(t *testing.T) (*Service, *memRepo, *Item) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	item, err := repo.CreateItem(context.Background(), Item{
		Name: "Test WISC-V", Category: "Pruebas", PriceCents: 150000, Stock: 3, Loanable: true,
	})
	require.NoError(t, err)
	return svc, repo, item
}

func TestLoanAndReturn(t *testing.T) {
	svc, repo, item := testService(t)
	due := time.Now().AddDate(0, 0, 14)

	loan, err := svc.Loan(context.Background(), LoanInput{
		ItemID: item.ID, PatientID: uuid.New(), PatientName: "Ana Morales", Quantity: 2, DueDate: due,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.items[item.ID].Stock)
	assert.Nil(t, loan.ReturnedAt)

	returned, err := svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, 3, repo.items[item.ID].Stock)

	_, err = svc.Return(context.Background(), loan.ID)
	assert.ErrorIs(t, err, ErrLoanAlreadyClosed)
}

func TestLoanInsufficientStock(t *testing.T) {
	svc, _, item := testService(t)

	_, err := svc.Loan(context.Background(), LoanInput{
		ItemID: item.ID, PatientID: uuid.New(), Quantity: 5, DueDate: time.Now().AddDate(0, 0, 7),
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestLoanNotLoanable(t *testing.T) {
	svc, repo, _ := testService(t)
	sellOnly, err := repo.CreateItem(context.Background(), Item{
		Name: "Cuaderno de ejercicios", Stock: 10, Loanable: false,
	})
	require.NoError(t, err)

	_, err = svc.Loan(context.Background(), LoanInput{
		ItemID: sellOnly.ID, PatientID: uuid.New(), Quantity: 1, DueDate: time.Now().AddDate(0, 0, 7),
	})
	assert.ErrorIs(t, err, ErrItemNotLoanable)
}

func TestSell(t *testing.T) {
	svc, repo, item := testService(t)

	got, err := svc.Sell(context.Background(), item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 0, repo.items[item.ID].Stock)

	_, err = svc.Sell(context.Background(), item.ID, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestOverdue(t *testing.T) {
	svc, _, item := testService(t)
	now := time.Now()

	late, err := svc.Loan(context.Background(), LoanInput{
		ItemID: item.ID, PatientID: uuid.New(), Quantity: 1, DueDate: now.AddDate(0, 0, -2),
	})
	require.NoError(t, err)
	_, err = svc.Loan(context.Background(), LoanInput{
		ItemID: item.ID, PatientID: uuid.New(), Quantity: 1, DueDate: now.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	overdue, err := svc.Overdue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}
