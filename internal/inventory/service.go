package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// LoanInput describes a lending request for a loanable item.
type LoanInput struct {
	ItemID      uuid.UUID
	PatientID   uuid.UUID
	PatientName string
	Quantity    int
	DueDate     time.Time
}

// Loan lends out stock: the item must be loanable and have enough
// units; stock is decremented for the duration of the loan.
func (s *Service) Loan(ctx context.Context, in LoanInput) (*Loan, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.repo.GetItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Loanable {
		return nil, ErrItemNotLoanable
	}

	if _, err := s.repo.AdjustStock(ctx, in.ItemID, -in.Quantity); err != nil {
		return nil, err
	}

	loan, err := s.repo.CreateLoan(ctx, Loan{
		ItemID:      in.ItemID,
		PatientID:   in.PatientID,
		PatientName: in.PatientName,
		Quantity:    in.Quantity,
		LoanedAt:    time.Now(),
		DueDate:     in.DueDate,
	})
	if err != nil {
		// put the stock back if the loan record failed
		if _, restoreErr := s.repo.AdjustStock(ctx, in.ItemID, in.Quantity); restoreErr != nil {
			s.log.Error("restore stock after failed loan",
				zap.String("item_id", in.ItemID.String()),
				zap.Error(restoreErr))
		}
		return nil, fmt.Errorf("create loan: %w", err)
	}

	return loan, nil
}

// Return closes an open loan and restores the item's stock.
func (s *Service) Return(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	loan, err := s.repo.CloseLoan(ctx, loanID, time.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AdjustStock(ctx, loan.ItemID, loan.Quantity); err != nil {
		s.log.Error("restore stock on return",
			zap.String("loan_id", loanID.String()),
			zap.Error(err))
	}

	return loan, nil
}

// Sell decrements stock for a direct sale of a sellable item.
func (s *Service) Sell(ctx context.Context, itemID uuid.UUID, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.repo.AdjustStock(ctx, itemID, -quantity)
}

// Overdue returns open loans past their due date as of now.
func (s *Service) Overdue(ctx context.Context, now time.Time) ([]Loan, error) {
	open, err := s.repo.ListOpenLoans(ctx)
	if err != nil {
		return nil, err
	}

	var overdue []Loan
	for _, l := range open {
		if l.Overdue(now) {
			overdue = append(overdue, l)
		}
	}
	return overdue, nil
}

func (s *Service) Items(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) OpenLoans(ctx context.Context) ([]Loan, error) {
	return s.repo.ListOpenLoans(ctx)
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) CreateItem(ctx context.Context, it Item) (*Item, error) {
	if it.Stock < 0 {
		return nil, errors.New("stock cannot be negative")
	}
	return s.repo.CreateItem(ctx, it)
}

func (s *Service) UpdateItem(ctx context.Context, it Item) (*Item, error) {
	if it.Stock < 0 {
		return nil, errors.New("stock cannot be negative")
	}
	return s.repo.UpdateItem(ctx, it)
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}
