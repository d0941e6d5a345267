package service_test

import (
	"context"
	"errors"
	"fmt"
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

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

// FindByID returns a copy, mirroring a DB row snapshot.
func (r *stubProductRepo) FindByID(_ context.Context, owner, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.CreatedBy != owner {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, owner uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CreatedBy == owner {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListActiveForCatalog(_ context.Context, owner uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CreatedBy == owner && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListBelowMinStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Stock <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, owner, id uuid.UUID) error {
	if p, ok := r.products[id]; ok && p.CreatedBy == owner {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, owner, id uuid.UUID) error {
	if p, ok := r.products[id]; ok && p.CreatedBy == owner {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) DecrementStock(_ context.Context, owner, id uuid.UUID, qty int) (bool, error) {
	p, ok := r.products[id]
	if !ok || p.CreatedBy != owner || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, owner, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok || p.CreatedBy != owner {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	payments   []model.SalePayment
	seq        int
	failCreate bool
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, owner, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.CreatedBy != owner {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) Update(_ context.Context, s *model.Sale) error {
	stored, ok := r.sales[s.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = s.Status
	stored.PaymentMethod = s.PaymentMethod
	stored.PaidAmount = s.PaidAmount
	stored.DebtAmount = s.DebtAmount
	return nil
}

func (r *stubSaleRepo) NextNumber(_ context.Context) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubSaleRepo) List(_ context.Context, owner uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CreatedBy == owner {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) CreatePayment(_ context.Context, p *model.SalePayment) error {
	r.payments = append(r.payments, *p)
	return nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubMovementRepo captures the stock audit trail for assertions.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, _, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) countByType(movType string) int {
	n := 0
	for _, m := range r.movements {
		if m.Type == movType {
			n++
		}
	}
	return n
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, owner uuid.UUID, name string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  "general",
		Price:     decimal.NewFromFloat(price),
		Cost:      decimal.NewFromFloat(price / 2),
		Stock:     stock,
		MinStock:  2,
		Unit:      "unit",
		Active:    true,
		CreatedBy: owner,
	}
	repo.products[p.ID] = p
	return p
}

func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubProductRepo, *stubMovementRepo) {
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo()
	movementRepo := &stubMovementRepo{}
	svc := service.NewSaleService(saleRepo, productRepo, movementRepo, nil)
	return svc, saleRepo, productRepo, movementRepo
}

func strPtr(s string) *string { return &s }

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// ── Create: product sales ─────────────────────────────────────────────────────

func TestCreateSale_Product(t *testing.T) {
	svc, saleRepo, productRepo, movementRepo := buildSaleSvc()
	owner := uuid.New()
	beer := seedProduct(productRepo, owner, "Beer 355ml", 25, 50)
	water := seedProduct(productRepo, owner, "Water 500ml", 10, 30)

	// 2×25 + 3×10 = 80
	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type: "product",
		Items: []dto.SaleItemRequest{
			{ProductID: beer.ID.String(), Quantity: 2},
			{ProductID: water.ID.String(), Quantity: 3},
		},
		Total:         dec(80),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Number)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "80", resp.Total.String())
	assert.Equal(t, "80", resp.PaidAmount.String())
	assert.True(t, resp.DebtAmount.IsZero())
	assert.Len(t, resp.Items, 2)

	// Stock decremented exactly by the sold quantities
	assert.Equal(t, 48, productRepo.products[beer.ID].Stock)
	assert.Equal(t, 27, productRepo.products[water.ID].Stock)

	// One audit movement per line, negative quantity
	require.Equal(t, 2, movementRepo.countByType("sale"))
	assert.Equal(t, -2, movementRepo.movements[0].Quantity)

	assert.Len(t, saleRepo.sales, 1)
}

func TestCreateSale_PriceAtSaleOverride(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Cheese wheel", 120, 10)

	override := dec(100)
	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1, PriceAtSale: &override}},
		Total:         dec(100),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Items[0].UnitPrice.String())
}

func TestCreateSale_PercentDiscount(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Olive oil 1L", 100, 10)

	// subtotal 200, 10% discount → total 180
	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		Discount:      dec(10),
		DiscountType:  "percent",
		Total:         dec(180),
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, "180", resp.Total.String())
	assert.Equal(t, "20", resp.Discount.String())
	assert.Equal(t, "200", resp.Subtotal.String())
}

func TestCreateSale_TotalWithinTolerance(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Bread", 33.33, 10)

	// computed 99.99, declared 100.00 — off by 0.01, accepted
	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
		Total:         dec(100.00),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "99.99", resp.Total.String())
}

func TestCreateSale_TotalMismatch_RevertsStock(t *testing.T) {
	svc, saleRepo, productRepo, movementRepo := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Wine 750ml", 500, 10)

	_, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		Total:         dec(900), // computed 1000
		PaymentMethod: "cash",
	})
	require.ErrorIs(t, err, service.ErrTotalMismatch)

	// Decrement was applied, then compensated
	assert.Equal(t, 10, productRepo.products[p.ID].Stock)
	assert.Equal(t, 1, movementRepo.countByType("sale_reversal"))
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_InsufficientStock_RevertsPriorLines(t *testing.T) {
	svc, saleRepo, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	first := seedProduct(productRepo, owner, "Rice 1kg", 30, 20)
	second := seedProduct(productRepo, owner, "Sugar 1kg", 20, 2) // only 2 left

	_, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type: "product",
		Items: []dto.SaleItemRequest{
			{ProductID: first.ID.String(), Quantity: 5},
			{ProductID: second.ID.String(), Quantity: 5},
		},
		Total:         dec(250),
		PaymentMethod: "cash",
	})
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	// First line was decremented and must be restored; second never applied.
	assert.Equal(t, 20, productRepo.products[first.ID].Stock)
	assert.Equal(t, 2, productRepo.products[second.ID].Stock)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_PersistFailure_RevertsStock(t *testing.T) {
	svc, saleRepo, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Coffee 250g", 80, 10)
	saleRepo.failCreate = true

	_, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		Total:         dec(320),
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, 10, productRepo.products[p.ID].Stock)
}

func TestCreateSale_InactiveProduct(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Discontinued", 10, 5)
	p.Active = false

	_, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		Total:         dec(10),
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrProductInactive)
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		Total:         dec(10),
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestCreateSale_OwnerScoping(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	stranger := uuid.New()
	p := seedProduct(productRepo, stranger, "Someone else's", 10, 5)

	_, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		Total:         dec(10),
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestCreateSale_EmptyItems(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Type:          "product",
		Total:         dec(10),
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrEmptySale)
}

func TestCreateSale_InvalidPaymentMethod(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Type:          "product",
		Total:         dec(10),
		PaymentMethod: "bitcoin",
	})
	assert.ErrorIs(t, err, service.ErrInvalidPayment)
}

// ── Create: debt and free sales ───────────────────────────────────────────────

func TestCreateSale_Debt(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Flour 1kg", 50, 20)

	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		Total:         dec(200),
		Status:        "debt",
		PaidAmount:    dec(50),
		PaymentMethod: "cash",
		Client:        &dto.ClientInfoRequest{Name: strPtr("Maria Lopez")},
	})
	require.NoError(t, err)
	assert.Equal(t, "debt", resp.Status)
	assert.Equal(t, "50", resp.PaidAmount.String())
	assert.Equal(t, "150", resp.DebtAmount.String())
}

func TestCreateSale_DebtFullyPaidUpFront_CommitsAsPaid(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	p := seedProduct(productRepo, owner, "Milk 1L", 25, 20)

	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		Total:         dec(50),
		Status:        "debt",
		PaidAmount:    dec(50),
		PaymentMethod: "cash",
		Client:        &dto.ClientInfoRequest{Name: strPtr("Jorge")},
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.True(t, resp.DebtAmount.IsZero())
}

func TestCreateSale_DebtRequiresClientName(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Type:          "product",
		Total:         dec(100),
		Status:        "debt",
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrDebtRequiresClient)
}

func TestCreateSale_Free(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()
	owner := uuid.New()

	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "free",
		Total:         dec(99.50),
		PaymentMethod: "transfer",
		Concept:       strPtr("delivery service"),
	})
	require.NoError(t, err)
	assert.Equal(t, "free", resp.Type)
	assert.Equal(t, "99.5", resp.Total.String())
	assert.Equal(t, "paid", resp.Status)
	assert.Empty(t, resp.Items)
}

func TestCreateSale_Free_NonPositiveTotal(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateSaleRequest{
		Type:          "free",
		Total:         decimal.Zero,
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

// ── ApplyPayment (abono) ──────────────────────────────────────────────────────

func createDebtSale(t *testing.T, svc service.SaleService, productRepo *stubProductRepo, owner uuid.UUID, total, paid float64) *dto.SaleResponse {
	t.Helper()
	p := seedProduct(productRepo, owner, fmt.Sprintf("Item %s", uuid.NewString()[:8]), total, 10)
	resp, err := svc.Create(context.Background(), owner, dto.CreateSaleRequest{
		Type:          "product",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		Total:         dec(total),
		Status:        "debt",
		PaidAmount:    dec(paid),
		PaymentMethod: "cash",
		Client:        &dto.ClientInfoRequest{Name: strPtr("Debtor")},
	})
	require.NoError(t, err)
	return resp
}

func TestApplyPayment_PartialThenClose(t *testing.T) {
	svc, saleRepo, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	sale := createDebtSale(t, svc, productRepo, owner, 300, 0)
	saleID := uuid.MustParse(sale.ID)

	// First abono: 100 → debt 200, still open
	resp, err := svc.ApplyPayment(context.Background(), owner, saleID, dto.ApplyPaymentRequest{Amount: dec(100)})
	require.NoError(t, err)
	assert.Equal(t, "debt", resp.Status)
	assert.Equal(t, "100", resp.PaidAmount.String())
	assert.Equal(t, "200", resp.DebtAmount.String())

	// Second abono: 200 → closed
	resp, err = svc.ApplyPayment(context.Background(), owner, saleID, dto.ApplyPaymentRequest{Amount: dec(200), Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "300", resp.PaidAmount.String())
	assert.True(t, resp.DebtAmount.IsZero())

	// Immutable ledger: one entry per abono, with running balances
	require.Len(t, saleRepo.payments, 2)
	assert.Equal(t, "200", saleRepo.payments[0].DebtAfter.String())
	assert.Equal(t, "0", saleRepo.payments[1].DebtAfter.String())
	assert.Equal(t, "transfer", saleRepo.payments[1].Method)
}

func TestApplyPayment_ExceedsDebt(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	sale := createDebtSale(t, svc, productRepo, owner, 100, 40)

	_, err := svc.ApplyPayment(context.Background(), owner, uuid.MustParse(sale.ID), dto.ApplyPaymentRequest{Amount: dec(61)})
	assert.ErrorIs(t, err, service.ErrPaymentExceedsDebt)
}

func TestApplyPayment_AlreadyPaid(t *testing.T) {
	svc, _, productRepo, _ := buildSaleSvc()
	owner := uuid.New()
	sale := createDebtSale(t, svc, productRepo, owner, 100, 0)
	saleID := uuid.MustParse(sale.ID)

	_, err := svc.ApplyPayment(context.Background(), owner, saleID, dto.ApplyPaymentRequest{Amount: dec(100)})
	require.NoError(t, err)

	_, err = svc.ApplyPayment(context.Background(), owner, saleID, dto.ApplyPaymentRequest{Amount: dec(1)})
	assert.ErrorIs(t, err, service.ErrSaleAlreadyPaid)
}

func TestApplyPayment_NonPositiveAmount(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()

	_, err := svc.ApplyPayment(context.Background(), uuid.New(), uuid.New(), dto.ApplyPaymentRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestApplyPayment_SaleNotFound(t *testing.T) {
	svc, _, _, _ := buildSaleSvc()

	_, err := svc.ApplyPayment(context.Background(), uuid.New(), uuid.New(), dto.ApplyPaymentRequest{Amount: dec(10)})
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}
