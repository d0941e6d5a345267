package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"
	"comercio/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// totalTolerance is the maximum accepted divergence between the declared total
// and the recomputed total before the sale is rejected as a discrepancy.
var totalTolerance = decimal.NewFromFloat(0.01)

type SaleService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	ApplyPayment(ctx context.Context, owner, saleID uuid.UUID, req dto.ApplyPaymentRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

// stockUndo is one entry of the compensation list: enough to re-increment a
// product's stock by the exact quantity previously subtracted.
type stockUndo struct {
	productID uuid.UUID
	name      string
	qty       int
	before    int
}

// ── Create ────────────────────────────────────────────────────────────────────
// The sale processor. Product path:
//  1. Per line item, in request order: load product, conditional-decrement its
//     stock (stock >= qty guard), push an undo entry. Decrements are persisted
//     immediately, so stock visibility changes incrementally while the request
//     is in flight — every abort after the first decrement must replay the
//     undo list in reverse.
//  2. Recompute the total from authoritative prices (or the captured
//     priceAtSale override) and compare against the declared total within
//     totalTolerance; mismatch reverts everything.
//  3. Persist the sale; persistence failure also reverts everything.
//  4. Fire-and-forget client notification — never affects the result.
//
// This is best-effort compensation, not an atomic transaction: a crash between
// a decrement and its compensation leaves stock short with no automatic
// recovery.
func (s *saleService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if !model.PaymentMethods[req.PaymentMethod] {
		return nil, ErrInvalidPayment
	}

	status := req.Status
	if status == "" {
		status = model.SaleStatusPaid
	}
	if status == model.SaleStatusDebt && (req.Client == nil || req.Client.Name == nil || *req.Client.Name == "") {
		return nil, ErrDebtRequiresClient
	}

	discountType := req.DiscountType
	if discountType == "" {
		discountType = "amount"
	}

	var (
		sale *model.Sale
		err  error
	)
	switch req.Type {
	case model.SaleTypeFree:
		sale, err = s.buildFreeSale(ctx, owner, req, status, discountType)
		if err != nil {
			return nil, err
		}
	case model.SaleTypeProduct:
		sale, err = s.processProductSale(ctx, owner, req, status, discountType)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown sale type %q", req.Type)
	}

	resp := saleToResponse(sale)

	// Fire-and-forget notification. Enqueue failures are logged, never surfaced:
	// the sale is already committed.
	if s.dispatcher != nil && req.Client != nil && req.Client.Email != nil && *req.Client.Email != "" {
		payload := worker.SaleNotificationPayload{
			SaleID:      sale.ID.String(),
			SaleNumber:  sale.Number,
			ClientEmail: *req.Client.Email,
			Total:       sale.Total,
		}
		if err := s.dispatcher.EnqueueSaleNotification(ctx, payload); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to enqueue sale notification")
		}
	}

	return resp, nil
}

func (s *saleService) processProductSale(ctx context.Context, owner uuid.UUID, req dto.CreateSaleRequest, status, discountType string) (*model.Sale, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySale
	}

	var (
		applied  []stockUndo
		items    []model.SaleItem
		subtotal = decimal.Zero
	)

	// abort reverts every decrement applied so far (in reverse order) and
	// returns the triggering error unchanged.
	abort := func(cause error) (*model.Sale, error) {
		s.compensate(ctx, owner, applied)
		return nil, cause
	}

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return abort(fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID))
		}

		p, err := s.productRepo.FindByID(ctx, owner, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return abort(fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID))
			}
			return abort(err)
		}
		if !p.Active {
			return abort(fmt.Errorf("%w: %s", ErrProductInactive, p.Name))
		}

		// Captured unit price: point-of-sale override wins over the list price.
		unitPrice := p.Price
		if item.PriceAtSale != nil {
			unitPrice = *item.PriceAtSale
		}

		// Atomic conditional decrement, persisted immediately. The guard closes
		// the read-check/write race between concurrent sales on the same product.
		ok, err := s.productRepo.DecrementStock(ctx, owner, pid, item.Quantity)
		if err != nil {
			return abort(err)
		}
		if !ok {
			return abort(fmt.Errorf("%w: %s (requested %d, available %d)",
				ErrInsufficientStock, p.Name, item.Quantity, p.Stock))
		}
		applied = append(applied, stockUndo{productID: pid, name: p.Name, qty: item.Quantity, before: p.Stock})

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, model.SaleItem{
			ProductID:   pid,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
	}

	discount := discountAmount(subtotal, req.Discount, discountType)
	total := subtotal.Sub(discount)

	// Independent recomputation vs the caller-declared total.
	if total.Sub(req.Total).Abs().GreaterThan(totalTolerance) {
		return abort(fmt.Errorf("%w: declared %s, computed %s", ErrTotalMismatch, req.Total, total))
	}

	paid, debt, status := settleAmounts(total, req.PaidAmount, status)

	sale := &model.Sale{
		Type:          model.SaleTypeProduct,
		Status:        status,
		Subtotal:      subtotal,
		Discount:      discount,
		DiscountType:  discountType,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    paid,
		DebtAmount:    debt,
		Client:        clientInfo(req.Client),
		Concept:       req.Concept,
		CreatedBy:     owner,
		Items:         items,
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return abort(err)
	}
	sale.Number = number

	if err := s.repo.Create(ctx, sale); err != nil {
		// Stock was already decremented — revert before surfacing the error.
		return abort(err)
	}

	s.recordMovements(ctx, owner, sale.ID, applied)
	return sale, nil
}

func (s *saleService) buildFreeSale(ctx context.Context, owner uuid.UUID, req dto.CreateSaleRequest, status, discountType string) (*model.Sale, error) {
	if !req.Total.IsPositive() {
		return nil, ErrInvalidAmount
	}

	subtotal := req.Subtotal
	discount := discountAmount(subtotal, req.Discount, discountType)
	if subtotal.IsZero() {
		// Caller supplied only a total — derive the subtotal so the
		// total = subtotal − discount invariant holds.
		discount = discountAmount(req.Total, req.Discount, discountType)
		subtotal = req.Total.Add(discount)
	} else if subtotal.Sub(discount).Sub(req.Total).Abs().GreaterThan(totalTolerance) {
		return nil, fmt.Errorf("%w: declared %s, computed %s", ErrTotalMismatch, req.Total, subtotal.Sub(discount))
	}

	paid, debt, status := settleAmounts(req.Total, req.PaidAmount, status)

	sale := &model.Sale{
		Type:          model.SaleTypeFree,
		Status:        status,
		Subtotal:      subtotal,
		Discount:      discount,
		DiscountType:  discountType,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    paid,
		DebtAmount:    debt,
		Client:        clientInfo(req.Client),
		Concept:       req.Concept,
		CreatedBy:     owner,
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	sale.Number = number

	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// compensate replays the undo list in reverse, re-incrementing each product's
// stock by the exact quantity subtracted. Best effort: a failed replay is
// logged and skipped — there is no durable undo log or retry.
func (s *saleService) compensate(ctx context.Context, owner uuid.UUID, applied []stockUndo) {
	for i := len(applied) - 1; i >= 0; i-- {
		u := applied[i]
		if err := s.productRepo.AdjustStock(ctx, owner, u.productID, u.qty); err != nil {
			log.Error().Err(err).
				Str("product_id", u.productID.String()).
				Int("qty", u.qty).
				Msg("stock compensation failed; inventory is short")
			continue
		}
		mov := &model.StockMovement{
			ProductID:   u.productID,
			Type:        "sale_reversal",
			Quantity:    u.qty,
			StockBefore: u.before - u.qty,
			StockAfter:  u.before,
			Reason:      fmt.Sprintf("Reverted decrement of %q after failed sale", u.name),
			CreatedBy:   owner,
		}
		if err := s.movementRepo.Create(ctx, mov); err != nil {
			log.Warn().Err(err).Msg("failed to record compensation movement")
		}
	}
}

// recordMovements writes the stock audit trail for a committed sale.
// Audit failures are logged, never unwound — the sale already committed.
func (s *saleService) recordMovements(ctx context.Context, owner, saleID uuid.UUID, applied []stockUndo) {
	for _, u := range applied {
		ref := saleID
		mov := &model.StockMovement{
			ProductID:   u.productID,
			Type:        "sale",
			Quantity:    -u.qty,
			StockBefore: u.before,
			StockAfter:  u.before - u.qty,
			Reason:      fmt.Sprintf("Sale of %d x %s", u.qty, u.name),
			ReferenceID: &ref,
			CreatedBy:   owner,
		}
		if err := s.movementRepo.Create(ctx, mov); err != nil {
			log.Warn().Err(err).Str("sale_id", saleID.String()).Msg("failed to record stock movement")
		}
	}
}

// ── ApplyPayment (abono) ─────────────────────────────────────────────────────
// Monotonic, one-directional debt settlement: paidAmount only grows, and once
// status reaches "paid" no further payment is accepted.
func (s *saleService) ApplyPayment(ctx context.Context, owner, saleID uuid.UUID, req dto.ApplyPaymentRequest) (*dto.SaleResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.Method != "" && !model.PaymentMethods[req.Method] {
		return nil, ErrInvalidPayment
	}

	sale, err := s.repo.FindByID(ctx, owner, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	if sale.Status == model.SaleStatusPaid {
		return nil, ErrSaleAlreadyPaid
	}
	if req.Amount.GreaterThan(sale.DebtAmount) {
		return nil, ErrPaymentExceedsDebt
	}

	sale.PaidAmount = sale.PaidAmount.Add(req.Amount)
	if sale.PaidAmount.GreaterThanOrEqual(sale.Total) {
		sale.Status = model.SaleStatusPaid
		sale.DebtAmount = decimal.Zero
	} else {
		sale.DebtAmount = sale.Total.Sub(sale.PaidAmount)
	}
	if req.Method != "" {
		sale.PaymentMethod = req.Method
	}

	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = sale.PaymentMethod
	}
	payment := &model.SalePayment{
		SaleID:    sale.ID,
		Amount:    req.Amount,
		Method:    method,
		PaidAfter: sale.PaidAmount,
		DebtAfter: sale.DebtAmount,
		CreatedBy: owner,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		// The ledger row is an audit record; the settlement itself committed.
		log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to record payment ledger entry")
	}

	return saleToResponse(sale), nil
}

func (s *saleService) Get(ctx context.Context, owner, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, owner uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func discountAmount(subtotal, discount decimal.Decimal, discountType string) decimal.Decimal {
	if discountType == "percent" {
		return subtotal.Mul(discount).Div(decimal.NewFromInt(100)).Round(2)
	}
	return discount
}

// settleAmounts derives the final paid/debt/status triple. A "debt" request
// whose paidAmount already covers the total is committed as "paid".
func settleAmounts(total, paidRequested decimal.Decimal, status string) (paid, debt decimal.Decimal, finalStatus string) {
	if status != model.SaleStatusDebt {
		return total, decimal.Zero, model.SaleStatusPaid
	}
	if paidRequested.GreaterThanOrEqual(total) {
		return paidRequested, decimal.Zero, model.SaleStatusPaid
	}
	return paidRequested, total.Sub(paidRequested), model.SaleStatusDebt
}

func clientInfo(c *dto.ClientInfoRequest) model.ClientInfo {
	if c == nil {
		return model.ClientInfo{}
	}
	return model.ClientInfo{Name: c.Name, Phone: c.Phone, Email: c.Email}
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	var client *dto.ClientInfoResponse
	if v.Client.Name != nil || v.Client.Phone != nil || v.Client.Email != nil {
		client = &dto.ClientInfoResponse{Name: v.Client.Name, Phone: v.Client.Phone, Email: v.Client.Email}
	}

	return &dto.SaleResponse{
		ID:            v.ID.String(),
		Number:        v.Number,
		Type:          v.Type,
		Status:        v.Status,
		Items:         items,
		Subtotal:      v.Subtotal,
		Discount:      v.Discount,
		DiscountType:  v.DiscountType,
		Total:         v.Total,
		PaymentMethod: v.PaymentMethod,
		PaidAmount:    v.PaidAmount,
		DebtAmount:    v.DebtAmount,
		Client:        client,
		Concept:       v.Concept,
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
