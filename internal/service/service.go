package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lapakpos/backend/internal/catalog"
	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
	"lapakpos/backend/internal/purchase"
	"lapakpos/backend/internal/register"
	"lapakpos/backend/internal/snapshot"
	"lapakpos/backend/internal/state"
	"lapakpos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service is the commerce event processor: the single writer of the
// aggregate state. Each command applies every derived update before
// returning, then hands the full state to the persistence gate. The mutex
// is the serialization point; no two commands interleave.
type Service struct {
	mu    sync.Mutex
	state *state.State
	gate  snapshot.Gate
}

func New(st *state.State, gate snapshot.Gate) *Service {
	if gate == nil {
		gate = snapshot.Noop{}
	}
	return &Service{state: st, gate: gate}
}

// persist mirrors the state after a mutating command. Persistence is a side
// effect of an already-applied command: a gate failure is logged, never
// rolled back into the caller's result.
func (s *Service) persist(ctx context.Context) {
	if err := s.gate.Save(ctx, s.state); err != nil {
		log.Printf("[service] WARN: failed to persist snapshot: %v", err)
	}
}

// RecordSale applies one sale: invoice append, register accrual, customer
// loyalty, the sales ledger entry, and per-line stock or borrowed-supplier
// effects. Ordinary lines may drive product stock negative; that is kept,
// callers use it to represent backorders.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleRequest) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(req.Items) == 0 {
		return domain.Invoice{}, fmt.Errorf("%w: sale needs at least one item", state.ErrInvalidArgument)
	}
	if req.LoyaltyPointsUsed < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: loyalty points used must not be negative", state.ErrInvalidArgument)
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	for i := range req.PaymentSplits {
		req.PaymentSplits[i].Method = strings.ToLower(strings.TrimSpace(req.PaymentSplits[i].Method))
	}
	if req.PaymentMethod == "" && len(req.PaymentSplits) == 0 {
		req.PaymentMethod = domain.PaymentMethodCash
	}

	lines := make([]domain.InvoiceLine, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		if item.Qty < 1 {
			return domain.Invoice{}, fmt.Errorf("%w: item qty must be positive", state.ErrInvalidArgument)
		}
		product := s.state.ProductByID(item.ProductID)
		if product == nil {
			return domain.Invoice{}, fmt.Errorf("%w: product %s", state.ErrNotFound, item.ProductID)
		}
		if item.BorrowedSupplierID != "" && s.state.SupplierByID(item.BorrowedSupplierID) == nil {
			return domain.Invoice{}, fmt.Errorf("%w: supplier %s", state.ErrNotFound, item.BorrowedSupplierID)
		}

		unitPrice := item.UnitPriceCents
		if unitPrice == 0 {
			unitPrice = product.PriceCents
		}
		if unitPrice < 0 {
			return domain.Invoice{}, fmt.Errorf("%w: unit price must not be negative", state.ErrInvalidArgument)
		}

		lines = append(lines, domain.InvoiceLine{
			ProductID:          product.ID,
			Name:               product.Name,
			Qty:                item.Qty,
			UnitPriceCents:     unitPrice,
			BorrowedSupplierID: item.BorrowedSupplierID,
			BorrowedCostCents:  item.BorrowedCostCents,
		})
		total += int64(item.Qty) * unitPrice
	}
	if total < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: invoice total must not be negative", state.ErrInvalidArgument)
	}

	invoice := domain.Invoice{
		ID:                xid.New("inv"),
		CustomerID:        strings.TrimSpace(req.CustomerID),
		Items:             lines,
		TotalCents:        total,
		Status:            domain.InvoiceStatusPaid,
		PaymentMethod:     req.PaymentMethod,
		PaymentSplits:     req.PaymentSplits,
		LoyaltyPointsUsed: req.LoyaltyPointsUsed,
		CreatedAt:         time.Now().UTC(),
	}

	register.ApplySale(s.state.RegisterSession, invoice)

	customerAccountID := ""
	customerAccountName := ledger.AccountWalkInSales
	if customer := s.state.CustomerByID(invoice.CustomerID); customer != nil {
		earned := invoice.TotalCents / 100
		customer.LoyaltyPoints += earned - invoice.LoyaltyPointsUsed
		customer.TotalPurchasesCents += invoice.TotalCents
		now := time.Now().UTC()
		customer.LastVisit = &now
		customerAccountID = customer.ID
		customerAccountName = customer.Name
	}

	s.state.Ledger = append(s.state.Ledger, ledger.Credit(
		customerAccountID, customerAccountName, domain.CategorySales,
		"Sale "+invoice.ID, invoice.ID, invoice.TotalCents,
	))

	for _, line := range lines {
		if line.BorrowedSupplierID != "" {
			supplier := s.state.SupplierByID(line.BorrowedSupplierID)
			debt := line.BorrowedCostCents * int64(line.Qty)
			supplier.BalanceCents += debt
			s.state.Ledger = append(s.state.Ledger, ledger.Credit(
				supplier.ID, supplier.Name, domain.CategoryPurchase,
				"Borrowed stock sold on "+invoice.ID, invoice.ID, debt,
			))
			continue
		}
		s.state.ProductByID(line.ProductID).StockQty -= line.Qty
	}

	s.state.Invoices = append(s.state.Invoices, invoice)
	s.persist(ctx)
	return invoice, nil
}

// ProcessSalesReturn restocks the returned lines and records the refund.
// The invoice status is overwritten to Returned regardless of whether the
// return is partial; return detail lives in the return history entries.
func (s *Service) ProcessSalesReturn(ctx context.Context, req domain.SalesReturnRequest) (domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice := s.state.InvoiceByID(req.InvoiceID)
	if invoice == nil {
		return domain.Invoice{}, fmt.Errorf("%w: invoice %s", state.ErrNotFound, req.InvoiceID)
	}
	if len(req.Items) == 0 {
		return domain.Invoice{}, fmt.Errorf("%w: return needs at least one item", state.ErrInvalidArgument)
	}

	var refund int64
	for _, line := range req.Items {
		if line.Qty < 1 || line.RefundCents < 0 {
			return domain.Invoice{}, fmt.Errorf("%w: return qty must be positive and refund non-negative", state.ErrInvalidArgument)
		}
		if s.state.ProductByID(line.ProductID) == nil {
			return domain.Invoice{}, fmt.Errorf("%w: product %s", state.ErrNotFound, line.ProductID)
		}
		refund += line.RefundCents
	}

	for _, line := range req.Items {
		// Uncapped: returning more than was sold is the caller's call.
		s.state.ProductByID(line.ProductID).StockQty += line.Qty
	}

	entry := domain.SalesReturnEntry{
		ID:          xid.New("sret"),
		Items:       req.Items,
		RefundCents: refund,
		CreatedAt:   time.Now().UTC(),
	}
	invoice.ReturnHistory = append(invoice.ReturnHistory, entry)
	invoice.Status = domain.InvoiceStatusReturned

	s.state.Ledger = append(s.state.Ledger, ledger.Debit(
		"", ledger.AccountSalesReturn, domain.CategorySales,
		"Sales return on "+invoice.ID, invoice.ID, refund,
	))

	s.persist(ctx)
	return *invoice, nil
}

// RecordPurchase creates a purchase, moves the supplier balance, and writes
// the purchase ledger entry. INVOICE-type purchases are received in full at
// creation: stock lands immediately and the status is terminal Received.
func (s *Service) RecordPurchase(ctx context.Context, req domain.PurchaseRequest) (domain.Purchase, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Purchase{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	supplier := s.state.SupplierByID(req.SupplierID)
	if supplier == nil {
		return domain.Purchase{}, fmt.Errorf("%w: supplier %s", state.ErrNotFound, req.SupplierID)
	}
	if len(req.Items) == 0 {
		return domain.Purchase{}, fmt.Errorf("%w: purchase needs at least one item", state.ErrInvalidArgument)
	}

	purchaseType := strings.ToUpper(strings.TrimSpace(req.Type))
	if purchaseType == "" {
		purchaseType = domain.PurchaseTypeOrder
	}
	if purchaseType != domain.PurchaseTypeInvoice && purchaseType != domain.PurchaseTypeOrder {
		return domain.Purchase{}, fmt.Errorf("%w: unknown purchase type %q", state.ErrInvalidArgument, req.Type)
	}

	lines := make([]domain.PurchaseLine, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		if item.Qty < 1 || item.CostCents < 0 {
			return domain.Purchase{}, fmt.Errorf("%w: purchase line needs positive qty and non-negative cost", state.ErrInvalidArgument)
		}
		if s.state.ProductByID(item.ProductID) == nil {
			return domain.Purchase{}, fmt.Errorf("%w: product %s", state.ErrNotFound, item.ProductID)
		}
		lines = append(lines, domain.PurchaseLine{ProductID: item.ProductID, Qty: item.Qty, CostCents: item.CostCents})
		total += int64(item.Qty) * item.CostCents
	}

	p := domain.Purchase{
		ID:         xid.New("pur"),
		SupplierID: supplier.ID,
		Type:       purchaseType,
		Items:      lines,
		TotalCents: total,
		Status:     domain.PurchaseStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	supplier.BalanceCents += total
	s.state.Ledger = append(s.state.Ledger, ledger.Credit(
		supplier.ID, supplier.Name, domain.CategoryPurchase,
		"Purchase "+p.ID, p.ID, total,
	))

	if purchaseType == domain.PurchaseTypeInvoice {
		purchase.MarkFullyReceived(&p, s.actorName(ctx))
		for _, line := range p.Items {
			s.state.ProductByID(line.ProductID).StockQty += line.Qty
		}
	}

	s.state.Purchases = append(s.state.Purchases, p)
	s.persist(ctx)
	return p, nil
}

// ReceivePurchaseItems applies a partial (or final) delivery: stock in, the
// purchase lines' received counters up, one immutable receipt record, and
// the status re-derived from quantity totals. Over-receipt is applied
// as-is, not clamped.
func (s *Service) ReceivePurchaseItems(ctx context.Context, req domain.ReceiveRequest) (domain.Purchase, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Purchase{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.PurchaseByID(req.PurchaseID)
	if p == nil {
		return domain.Purchase{}, fmt.Errorf("%w: purchase %s", state.ErrNotFound, req.PurchaseID)
	}
	if len(req.Lines) == 0 {
		return domain.Purchase{}, fmt.Errorf("%w: receipt needs at least one line", state.ErrInvalidArgument)
	}

	// Validate every line before mutating anything so the receipt applies
	// total-or-nothing.
	for _, line := range req.Lines {
		if line.Qty < 1 {
			return domain.Purchase{}, fmt.Errorf("%w: receipt qty must be positive", state.ErrInvalidArgument)
		}
		if s.state.ProductByID(line.ProductID) == nil {
			return domain.Purchase{}, fmt.Errorf("%w: product %s", state.ErrNotFound, line.ProductID)
		}
		if !purchaseHasLine(p, line.ProductID) {
			return domain.Purchase{}, fmt.Errorf("%w: purchase line for product %s", state.ErrNotFound, line.ProductID)
		}
	}

	receivedBy := strings.TrimSpace(req.ReceivedBy)
	if receivedBy == "" {
		receivedBy = s.actorName(ctx)
	}

	if _, err := purchase.ApplyReceipt(p, req.Lines, receivedBy); err != nil {
		return domain.Purchase{}, err
	}
	for _, line := range req.Lines {
		s.state.ProductByID(line.ProductID).StockQty += line.Qty
	}

	s.persist(ctx)
	return *p, nil
}

// ReturnPurchase sends goods back to the supplier: balance down by the
// refund, stock down by the returned quantity (clamped at zero), and an
// immutable return record on the purchase.
func (s *Service) ReturnPurchase(ctx context.Context, req domain.PurchaseReturnRequest) (domain.Purchase, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Purchase{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.PurchaseByID(req.PurchaseID)
	if p == nil {
		return domain.Purchase{}, fmt.Errorf("%w: purchase %s", state.ErrNotFound, req.PurchaseID)
	}
	if len(req.Items) == 0 {
		return domain.Purchase{}, fmt.Errorf("%w: return needs at least one item", state.ErrInvalidArgument)
	}

	var refund int64
	for _, line := range req.Items {
		if line.Qty < 1 || line.RefundCents < 0 {
			return domain.Purchase{}, fmt.Errorf("%w: return qty must be positive and refund non-negative", state.ErrInvalidArgument)
		}
		if s.state.ProductByID(line.ProductID) == nil {
			return domain.Purchase{}, fmt.Errorf("%w: product %s", state.ErrNotFound, line.ProductID)
		}
		refund += line.RefundCents
	}

	supplier := s.state.SupplierByID(p.SupplierID)
	if supplier == nil {
		return domain.Purchase{}, fmt.Errorf("%w: supplier %s", state.ErrNotFound, p.SupplierID)
	}
	supplier.BalanceCents -= refund

	for _, line := range req.Items {
		product := s.state.ProductByID(line.ProductID)
		product.StockQty -= line.Qty
		if product.StockQty < 0 {
			product.StockQty = 0
		}
	}

	entry := domain.PurchaseReturnEntry{
		ID:          xid.New("pret"),
		Items:       req.Items,
		RefundCents: refund,
		CreatedAt:   time.Now().UTC(),
	}
	p.ReturnHistory = append(p.ReturnHistory, entry)

	s.state.Ledger = append(s.state.Ledger, ledger.Debit(
		supplier.ID, supplier.Name, domain.CategoryPurchase,
		"Purchase return on "+p.ID, p.ID, refund,
	))

	s.persist(ctx)
	return *p, nil
}

// AddStockAdjustment applies a signed quantity delta and records the audit
// entry. The cost amount is priced at the product's cost before the
// mutation.
func (s *Service) AddStockAdjustment(ctx context.Context, req domain.AdjustmentRequest) (domain.StockAdjustment, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.StockAdjustment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.state.ProductByID(req.ProductID)
	if product == nil {
		return domain.StockAdjustment{}, fmt.Errorf("%w: product %s", state.ErrNotFound, req.ProductID)
	}
	if req.Qty == 0 {
		return domain.StockAdjustment{}, fmt.Errorf("%w: adjustment qty must not be zero", state.ErrInvalidArgument)
	}
	switch req.Reason {
	case domain.AdjustReasonDamaged, domain.AdjustReasonExpired, domain.AdjustReasonTheft,
		domain.AdjustReasonCorrection, domain.AdjustReasonGift:
	default:
		return domain.StockAdjustment{}, fmt.Errorf("%w: unknown adjustment reason %q", state.ErrInvalidArgument, req.Reason)
	}

	costAmount := absInt64(int64(req.Qty)) * product.CostCents
	adjustment := domain.StockAdjustment{
		ID:              xid.New("adj"),
		ProductID:       product.ID,
		Qty:             req.Qty,
		Reason:          req.Reason,
		CostAmountCents: costAmount,
		Note:            strings.TrimSpace(req.Note),
		CreatedAt:       time.Now().UTC(),
	}

	product.StockQty += req.Qty
	s.state.StockAdjustments = append(s.state.StockAdjustments, adjustment)

	entryType := ledger.Debit
	if req.Qty > 0 {
		entryType = ledger.Credit
	}
	s.state.Ledger = append(s.state.Ledger, entryType(
		"", "Inventory", domain.CategoryAdjustment,
		fmt.Sprintf("Stock adjustment (%s) on %s", adjustment.Reason, product.Name),
		adjustment.ID, costAmount,
	))

	s.persist(ctx)
	return adjustment, nil
}

func (s *Service) OpenRegister(ctx context.Context, req domain.RegisterOpenRequest) (domain.RegisterSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.OpeningFloatCents < 0 {
		return domain.RegisterSession{}, fmt.Errorf("%w: opening float must not be negative", state.ErrInvalidArgument)
	}
	if s.state.RegisterSession != nil && s.state.RegisterSession.Status == domain.RegisterStatusOpen {
		return domain.RegisterSession{}, fmt.Errorf("%w: register already open", state.ErrInvalidArgument)
	}

	session := register.Open(s.actorName(ctx), req.OpeningFloatCents)
	s.state.RegisterSession = &session

	s.state.Ledger = append(s.state.Ledger, ledger.Debit(
		"", ledger.AccountCashDrawer, domain.CategoryPayment,
		"Shift Opening Float", session.ID, req.OpeningFloatCents,
	))

	s.persist(ctx)
	return session, nil
}

// CloseRegister reconciles and terminates the active session. Closing an
// already-closed session changes nothing and returns it as-is; closing when
// no session was ever opened reports NotFound.
func (s *Service) CloseRegister(ctx context.Context, req domain.RegisterCloseRequest) (domain.RegisterSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.state.RegisterSession
	if session == nil {
		return domain.RegisterSession{}, fmt.Errorf("%w: no register session", state.ErrNotFound)
	}
	if !register.Close(session, req.ActualCents) {
		return *session, nil
	}

	s.persist(ctx)
	return *session, nil
}

func (s *Service) ActiveRegister(_ context.Context) (domain.RegisterSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.RegisterSession == nil || s.state.RegisterSession.Status != domain.RegisterStatusOpen {
		return domain.RegisterSession{}, fmt.Errorf("%w: no open register session", state.ErrNotFound)
	}
	return *s.state.RegisterSession, nil
}

// RecordExpense books an operating expense and its ledger debit.
func (s *Service) RecordExpense(ctx context.Context, req domain.ExpenseRequest) (domain.Expense, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" || req.AmountCents < 1 {
		return domain.Expense{}, fmt.Errorf("%w: expense needs a description and positive amount", state.ErrInvalidArgument)
	}

	expense := domain.Expense{
		ID:          xid.New("exp"),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		AmountCents: req.AmountCents,
		CreatedAt:   time.Now().UTC(),
	}
	s.state.Expenses = append(s.state.Expenses, expense)

	s.state.Ledger = append(s.state.Ledger, ledger.Debit(
		"", "Operating Expenses", domain.CategoryExpense,
		expense.Description, expense.ID, expense.AmountCents,
	))

	s.persist(ctx)
	return expense, nil
}

func (s *Service) AddLot(ctx context.Context, req domain.LotAddRequest) (domain.Lot, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Lot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.state.CatalogItemByID(req.ItemID)
	if item == nil {
		return domain.Lot{}, fmt.Errorf("%w: catalog item %s", state.ErrNotFound, req.ItemID)
	}

	var expiry *time.Time
	if strings.TrimSpace(req.ExpiryDate) != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return domain.Lot{}, fmt.Errorf("%w: expiry date must be YYYY-MM-DD", state.ErrInvalidArgument)
		}
		exp := parsed.UTC()
		expiry = &exp
	}

	lot, err := catalog.AddLot(item, strings.TrimSpace(req.LotNumber), req.Qty, req.CostCents, expiry)
	if err != nil {
		return domain.Lot{}, err
	}

	s.persist(ctx)
	return lot, nil
}

func (s *Service) UpdateLot(ctx context.Context, req domain.LotUpdateRequest) (domain.CatalogItem, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.CatalogItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.state.CatalogItemByID(req.ItemID)
	if item == nil {
		return domain.CatalogItem{}, fmt.Errorf("%w: catalog item %s", state.ErrNotFound, req.ItemID)
	}
	if err := catalog.UpdateLot(item, req.LotID, req.Qty, req.CostCents, req.Status); err != nil {
		return domain.CatalogItem{}, err
	}

	s.persist(ctx)
	return *item, nil
}

func (s *Service) RemoveLot(ctx context.Context, itemID string, lotID string) (domain.CatalogItem, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.CatalogItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.state.CatalogItemByID(itemID)
	if item == nil {
		return domain.CatalogItem{}, fmt.Errorf("%w: catalog item %s", state.ErrNotFound, itemID)
	}
	if err := catalog.RemoveLot(item, lotID); err != nil {
		return domain.CatalogItem{}, err
	}

	s.persist(ctx)
	return *item, nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func (s *Service) actorName(ctx context.Context) string {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor.Username
	}
	return "system"
}

func purchaseHasLine(p *domain.Purchase, productID string) bool {
	for i := range p.Items {
		if p.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// --- generic entity commands -------------------------------------------------

// AddEntity appends a record to one of the simple collections. The switch
// over domain.CollectionKind is the closed dispatch table: an unknown kind
// is an InvalidArgument, never a silent default.
func (s *Service) AddEntity(ctx context.Context, kind domain.CollectionKind, payload json.RawMessage) (any, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created any
	switch kind {
	case domain.KindProducts:
		var p domain.Product
		if err := decodeEntity(payload, &p); err != nil {
			return nil, err
		}
		if p.ID == "" {
			p.ID = xid.New("prd")
		}
		s.state.Products = append(s.state.Products, p)
		created = p
	case domain.KindCatalogItems:
		var item domain.CatalogItem
		if err := decodeEntity(payload, &item); err != nil {
			return nil, err
		}
		if item.ID == "" {
			item.ID = xid.New("cat")
		}
		s.state.CatalogItems = append(s.state.CatalogItems, item)
		created = item
	case domain.KindSuppliers:
		var sup domain.Supplier
		if err := decodeEntity(payload, &sup); err != nil {
			return nil, err
		}
		if sup.ID == "" {
			sup.ID = xid.New("sup")
		}
		if sup.CreatedAt.IsZero() {
			sup.CreatedAt = time.Now().UTC()
		}
		s.state.Suppliers = append(s.state.Suppliers, sup)
		created = sup
	case domain.KindCustomers:
		var cus domain.Customer
		if err := decodeEntity(payload, &cus); err != nil {
			return nil, err
		}
		if cus.ID == "" {
			cus.ID = xid.New("cus")
		}
		s.state.Customers = append(s.state.Customers, cus)
		created = cus
	case domain.KindUsers:
		var user domain.UserAccount
		if err := decodeEntity(payload, &user); err != nil {
			return nil, err
		}
		user.Username = strings.ToLower(strings.TrimSpace(user.Username))
		if user.Username == "" {
			return nil, fmt.Errorf("%w: username required", state.ErrInvalidArgument)
		}
		if s.state.UserByUsername(user.Username) != nil {
			return nil, fmt.Errorf("%w: username already exists", state.ErrInvalidArgument)
		}
		if strings.TrimSpace(user.Password) == "" {
			return nil, fmt.Errorf("%w: password required", state.ErrInvalidArgument)
		}
		hashed, err := hashCredential(user.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now().UTC()
		}
		s.state.Users = append(s.state.Users, user)
		created = user
	case domain.KindRoles:
		var role domain.Role
		if err := decodeEntity(payload, &role); err != nil {
			return nil, err
		}
		if role.ID == "" {
			role.ID = xid.New("role")
		}
		s.state.Roles = append(s.state.Roles, role)
		created = role
	case domain.KindExpenses:
		var exp domain.Expense
		if err := decodeEntity(payload, &exp); err != nil {
			return nil, err
		}
		if exp.ID == "" {
			exp.ID = xid.New("exp")
		}
		if exp.CreatedAt.IsZero() {
			exp.CreatedAt = time.Now().UTC()
		}
		s.state.Expenses = append(s.state.Expenses, exp)
		created = exp
	default:
		return nil, fmt.Errorf("%w: unknown collection kind %q", state.ErrInvalidArgument, kind)
	}

	s.persist(ctx)
	return created, nil
}

// UpdateEntity replaces a record matched by id (users match by username).
func (s *Service) UpdateEntity(ctx context.Context, kind domain.CollectionKind, payload json.RawMessage) (any, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated any
	switch kind {
	case domain.KindProducts:
		var p domain.Product
		if err := decodeEntity(payload, &p); err != nil {
			return nil, err
		}
		existing := s.state.ProductByID(p.ID)
		if existing == nil {
			return nil, fmt.Errorf("%w: product %s", state.ErrNotFound, p.ID)
		}
		*existing = p
		updated = p
	case domain.KindCatalogItems:
		var item domain.CatalogItem
		if err := decodeEntity(payload, &item); err != nil {
			return nil, err
		}
		existing := s.state.CatalogItemByID(item.ID)
		if existing == nil {
			return nil, fmt.Errorf("%w: catalog item %s", state.ErrNotFound, item.ID)
		}
		*existing = item
		updated = item
	case domain.KindSuppliers:
		var sup domain.Supplier
		if err := decodeEntity(payload, &sup); err != nil {
			return nil, err
		}
		existing := s.state.SupplierByID(sup.ID)
		if existing == nil {
			return nil, fmt.Errorf("%w: supplier %s", state.ErrNotFound, sup.ID)
		}
		*existing = sup
		updated = sup
	case domain.KindCustomers:
		var cus domain.Customer
		if err := decodeEntity(payload, &cus); err != nil {
			return nil, err
		}
		existing := s.state.CustomerByID(cus.ID)
		if existing == nil {
			return nil, fmt.Errorf("%w: customer %s", state.ErrNotFound, cus.ID)
		}
		*existing = cus
		updated = cus
	case domain.KindUsers:
		var user domain.UserAccount
		if err := decodeEntity(payload, &user); err != nil {
			return nil, err
		}
		user.Username = strings.ToLower(strings.TrimSpace(user.Username))
		existing := s.state.UserByUsername(user.Username)
		if existing == nil {
			return nil, fmt.Errorf("%w: user %s", state.ErrNotFound, user.Username)
		}
		if strings.TrimSpace(user.Password) == "" {
			// An empty password keeps the stored credential.
			user.Password = existing.Password
		} else {
			hashed, err := hashCredential(user.Password)
			if err != nil {
				return nil, err
			}
			user.Password = hashed
		}
		*existing = user
		updated = user
	case domain.KindRoles:
		var role domain.Role
		if err := decodeEntity(payload, &role); err != nil {
			return nil, err
		}
		found := false
		for i := range s.state.Roles {
			if s.state.Roles[i].ID == role.ID {
				s.state.Roles[i] = role
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: role %s", state.ErrNotFound, role.ID)
		}
		updated = role
	case domain.KindExpenses:
		var exp domain.Expense
		if err := decodeEntity(payload, &exp); err != nil {
			return nil, err
		}
		found := false
		for i := range s.state.Expenses {
			if s.state.Expenses[i].ID == exp.ID {
				s.state.Expenses[i] = exp
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: expense %s", state.ErrNotFound, exp.ID)
		}
		updated = exp
	default:
		return nil, fmt.Errorf("%w: unknown collection kind %q", state.ErrInvalidArgument, kind)
	}

	s.persist(ctx)
	return updated, nil
}

// DeleteEntity removes a record by id (users by username).
func (s *Service) DeleteEntity(ctx context.Context, kind domain.CollectionKind, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	switch kind {
	case domain.KindProducts:
		s.state.Products, deleted = deleteByID(s.state.Products, id, func(p domain.Product) string { return p.ID })
	case domain.KindCatalogItems:
		s.state.CatalogItems, deleted = deleteByID(s.state.CatalogItems, id, func(c domain.CatalogItem) string { return c.ID })
	case domain.KindSuppliers:
		s.state.Suppliers, deleted = deleteByID(s.state.Suppliers, id, func(sup domain.Supplier) string { return sup.ID })
	case domain.KindCustomers:
		s.state.Customers, deleted = deleteByID(s.state.Customers, id, func(c domain.Customer) string { return c.ID })
	case domain.KindUsers:
		s.state.Users, deleted = deleteByID(s.state.Users, id, func(u domain.UserAccount) string { return u.Username })
	case domain.KindRoles:
		s.state.Roles, deleted = deleteByID(s.state.Roles, id, func(r domain.Role) string { return r.ID })
	case domain.KindExpenses:
		s.state.Expenses, deleted = deleteByID(s.state.Expenses, id, func(e domain.Expense) string { return e.ID })
	default:
		return fmt.Errorf("%w: unknown collection kind %q", state.ErrInvalidArgument, kind)
	}
	if !deleted {
		return fmt.Errorf("%w: %s %s", state.ErrNotFound, kind, id)
	}

	s.persist(ctx)
	return nil
}

// hashCredential bcrypts a plaintext password so stored credentials are
// always verifiable by the auth layer. Values already carrying a bcrypt
// prefix are stored as-is, letting callers round-trip existing records.
func hashCredential(password string) (string, error) {
	if strings.HasPrefix(password, "$2a$") || strings.HasPrefix(password, "$2b$") || strings.HasPrefix(password, "$2y$") {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func decodeEntity(payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", state.ErrInvalidArgument)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%w: %v", state.ErrInvalidArgument, err)
	}
	return nil
}

func deleteByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	for i := range items {
		if key(items[i]) == id {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}
