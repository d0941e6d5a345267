package service_test

import (
	"context"
	"testing"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"
	"comercio/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubExpenseRepo struct {
	expenses map[uuid.UUID]*model.Expense
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{expenses: make(map[uuid.UUID]*model.Expense)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.expenses[e.ID] = e
	return nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, owner, id uuid.UUID) (*model.Expense, error) {
	e, ok := r.expenses[id]
	if !ok || e.CreatedBy != owner {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubExpenseRepo) Update(_ context.Context, e *model.Expense) error {
	r.expenses[e.ID] = e
	return nil
}

func (r *stubExpenseRepo) List(_ context.Context, owner uuid.UUID, _ dto.ExpenseFilter) ([]model.Expense, int64, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if e.CreatedBy == owner {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

func TestExpense_CreateStartsPending(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := service.NewExpenseService(repo)
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, dto.CreateExpenseRequest{
		Category:      "rent",
		Amount:        decimal.NewFromInt(1500),
		PaymentMethod: "transfer",
		Concept:       strPtr("store rent, august"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Nil(t, resp.PaidAt)
}

func TestExpense_CreateRejectsNonPositiveAmount(t *testing.T) {
	svc := service.NewExpenseService(newStubExpenseRepo())

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateExpenseRequest{
		Category:      "rent",
		Amount:        decimal.Zero,
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestExpense_PaySettlesAndRecordsMethod(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := service.NewExpenseService(repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, dto.CreateExpenseRequest{
		Category:      "supplies",
		Amount:        decimal.NewFromInt(200),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// Settlement method overrides the one declared at creation.
	resp, err := svc.Pay(context.Background(), owner, uuid.MustParse(created.ID), dto.PayExpenseRequest{Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "card", resp.PaymentMethod)
	require.NotNil(t, resp.PaidAt)
}

func TestExpense_PaidIsTerminal(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := service.NewExpenseService(repo)
	owner := uuid.New()

	created, _ := svc.Create(context.Background(), owner, dto.CreateExpenseRequest{
		Category:      "utilities",
		Amount:        decimal.NewFromInt(80),
		PaymentMethod: "cash",
	})
	id := uuid.MustParse(created.ID)

	_, err := svc.Pay(context.Background(), owner, id, dto.PayExpenseRequest{Method: "cash"})
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), owner, id, dto.PayExpenseRequest{Method: "cash"})
	assert.ErrorIs(t, err, service.ErrExpenseNotPending)

	_, err = svc.Cancel(context.Background(), owner, id)
	assert.ErrorIs(t, err, service.ErrExpenseNotPending)
}

func TestExpense_CancelIsTerminal(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := service.NewExpenseService(repo)
	owner := uuid.New()

	created, _ := svc.Create(context.Background(), owner, dto.CreateExpenseRequest{
		Category:      "transport",
		Amount:        decimal.NewFromInt(40),
		PaymentMethod: "cash",
	})
	id := uuid.MustParse(created.ID)

	resp, err := svc.Cancel(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	_, err = svc.Pay(context.Background(), owner, id, dto.PayExpenseRequest{Method: "cash"})
	assert.ErrorIs(t, err, service.ErrExpenseNotPending)
}

func TestExpense_NotFound(t *testing.T) {
	svc := service.NewExpenseService(newStubExpenseRepo())

	_, err := svc.Pay(context.Background(), uuid.New(), uuid.New(), dto.PayExpenseRequest{Method: "cash"})
	assert.ErrorIs(t, err, service.ErrExpenseNotFound)
}
