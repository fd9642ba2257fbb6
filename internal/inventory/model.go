package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrLoanAlreadyClosed = errors.New("loan already returned")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotLoanable   = errors.New("item is not loanable")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// Item is something the practice sells or lends out: test materials,
// books, equipment.
type Item struct {
	ID         uuid.UUID
	Name       string
	Category   string
	PriceCents int64
	Stock      int
	Loanable   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Loan is an open or returned lending of an item. ReturnedAt is nil
// while the loan is outstanding.
type Loan struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	ItemName    string
	PatientID   uuid.UUID
	PatientName string
	Quantity    int
	LoanedAt    time.Time
	DueDate     time.Time
	ReturnedAt  *time.Time
}

// Overdue reports whether the loan is still open past its due date.
func (l Loan) Overdue(now time.Time) bool {
	return l.ReturnedAt == nil && now.After(l.DueDate)
}

type Repository interface {
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	CreateItem(ctx context.Context, it Item) (*Item, error)
	UpdateItem(ctx context.Context, it Item) (*Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// AdjustStock adds delta to the item's stock, failing with
	// ErrInsufficientStock if the result would be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Item, error)

	GetLoan(ctx context.Context, id uuid.UUID) (*Loan, error)
	CreateLoan(ctx context.Context, l Loan) (*Loan, error)
	CloseLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time) (*Loan, error)
	ListOpenLoans(ctx context.Context) ([]Loan, error)
}
