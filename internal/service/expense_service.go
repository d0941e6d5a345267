package service

import (
	"context"
	"errors"
	"time"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*dto.ExpenseResponse, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
	Pay(ctx context.Context, owner, id uuid.UUID, req dto.PayExpenseRequest) (*dto.ExpenseResponse, error)
	Cancel(ctx context.Context, owner, id uuid.UUID) (*dto.ExpenseResponse, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !model.ExpenseCategories[req.Category] {
		return nil, ErrCategoryNotFound
	}

	e := &model.Expense{
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        model.ExpenseStatusPending,
		Concept:       req.Concept,
		CreatedBy:     owner,
	}
	if req.Vendor != nil {
		e.Vendor = model.VendorInfo{
			Name:  req.Vendor.Name,
			Phone: req.Vendor.Phone,
			Email: req.Vendor.Email,
		}
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return expenseToResponse(e), nil
}

func (s *expenseService) Get(ctx context.Context, owner, id uuid.UUID) (*dto.ExpenseResponse, error) {
	e, err := s.findExpense(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return expenseToResponse(e), nil
}

func (s *expenseService) List(ctx context.Context, owner uuid.UUID, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	expenses, total, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		data = append(data, *expenseToResponse(&expenses[i]))
	}
	return &dto.ExpenseListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Pay settles a pending expense. The method on the settlement request wins
// over whatever was declared at creation; PaidAt records the settlement time.
// Both paid and cancelled are terminal.
func (s *expenseService) Pay(ctx context.Context, owner, id uuid.UUID, req dto.PayExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := s.findExpense(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if e.Status != model.ExpenseStatusPending {
		return nil, ErrExpenseNotPending
	}

	now := time.Now().UTC()
	e.Status = model.ExpenseStatusPaid
	e.PaymentMethod = req.Method
	e.PaidAt = &now

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return expenseToResponse(e), nil
}

func (s *expenseService) Cancel(ctx context.Context, owner, id uuid.UUID) (*dto.ExpenseResponse, error) {
	e, err := s.findExpense(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if e.Status != model.ExpenseStatusPending {
		return nil, ErrExpenseNotPending
	}

	e.Status = model.ExpenseStatusCancelled
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return expenseToResponse(e), nil
}

func (s *expenseService) findExpense(ctx context.Context, owner, id uuid.UUID) (*model.Expense, error) {
	e, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

func expenseToResponse(e *model.Expense) *dto.ExpenseResponse {
	resp := &dto.ExpenseResponse{
		ID:            e.ID.String(),
		Category:      e.Category,
		Amount:        e.Amount,
		PaymentMethod: e.PaymentMethod,
		Status:        e.Status,
		Concept:       e.Concept,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.Vendor.Name != nil || e.Vendor.Phone != nil || e.Vendor.Email != nil {
		resp.Vendor = &dto.VendorInfoResponse{
			Name:  e.Vendor.Name,
			Phone: e.Vendor.Phone,
			Email: e.Vendor.Email,
		}
	}
	if e.PaidAt != nil {
		paidAt := e.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}
