package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/snapshot"
	"lapakpos/backend/internal/state"
)

func newTestService() (*Service, *state.State) {
	st := state.New()
	st.Products = append(st.Products,
		domain.Product{ID: "p1", SKU: "SKU-KOPI", Name: "Kopi Bubuk 250g", StockQty: 20, CostCents: 1000, PriceCents: 1500, MinStockLevel: 5, Active: true},
		domain.Product{ID: "p2", SKU: "SKU-GULA", Name: "Gula Pasir 1kg", StockQty: 3, CostCents: 1200, PriceCents: 1600, MinStockLevel: 5, Active: true},
	)
	st.Suppliers = append(st.Suppliers, domain.Supplier{ID: "s1", Name: "CV Sumber Rejeki"})
	st.Customers = append(st.Customers, domain.Customer{ID: "c1", Name: "Budi Santoso"})
	return New(st, snapshot.Noop{}), st
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func TestRecordSaleCashAccruesRegister(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 10000}); err != nil {
		t.Fatalf("open register: %v", err)
	}

	inv, err := svc.RecordSale(ctx, domain.SaleRequest{
		PaymentMethod: "cash",
		Items:         []domain.SaleLine{{ProductID: "p1", Qty: 2, UnitPriceCents: 2500}},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if inv.TotalCents != 5000 {
		t.Fatalf("expected total 5000, got %d", inv.TotalCents)
	}
	if inv.Status != domain.InvoiceStatusPaid {
		t.Fatalf("expected status Paid, got %q", inv.Status)
	}

	session := st.RegisterSession
	if session.ExpectedCents != 15000 {
		t.Fatalf("expected drawer balance 15000, got %d", session.ExpectedCents)
	}
	if session.SalesCount != 1 || session.TotalSalesCents != 5000 {
		t.Fatalf("expected 1 sale totalling 5000, got %d sales %d cents", session.SalesCount, session.TotalSalesCents)
	}

	sales := svc.ListLedger(ctx, domain.CategorySales, "")
	if len(sales) != 1 || sales[0].Type != domain.EntryCredit || sales[0].AmountCents != 5000 {
		t.Fatalf("expected one 5000 CREDIT sales entry, got %+v", sales)
	}
	floats := svc.ListLedger(ctx, domain.CategoryPayment, "")
	if len(floats) != 1 || floats[0].Type != domain.EntryDebit || floats[0].AmountCents != 10000 {
		t.Fatalf("expected one 10000 DEBIT opening float entry, got %+v", floats)
	}
}

func TestRecordSaleNonCashDoesNotMoveDrawer(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 10000}); err != nil {
		t.Fatalf("open register: %v", err)
	}
	if _, err := svc.RecordSale(ctx, domain.SaleRequest{
		PaymentMethod: "card",
		Items:         []domain.SaleLine{{ProductID: "p1", Qty: 1, UnitPriceCents: 5000}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if st.RegisterSession.ExpectedCents != 10000 {
		t.Fatalf("expected drawer unchanged at 10000, got %d", st.RegisterSession.ExpectedCents)
	}
	if st.RegisterSession.TotalSalesCents != 5000 {
		t.Fatalf("expected total sales 5000, got %d", st.RegisterSession.TotalSalesCents)
	}
}

func TestRecordSaleSplitPaymentAccruesCashPortionOnly(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 0}); err != nil {
		t.Fatalf("open register: %v", err)
	}
	if _, err := svc.RecordSale(ctx, domain.SaleRequest{
		PaymentSplits: []domain.PaymentSplit{
			{Method: "cash", AmountCents: 3000},
			{Method: "qris", AmountCents: 4500},
		},
		Items: []domain.SaleLine{{ProductID: "p1", Qty: 5, UnitPriceCents: 1500}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if st.RegisterSession.ExpectedCents != 3000 {
		t.Fatalf("expected only cash split 3000 in drawer, got %d", st.RegisterSession.ExpectedCents)
	}
}

func TestRecordSaleAllowsNegativeStock(t *testing.T) {
	svc, st := newTestService()

	if _, err := svc.RecordSale(adminCtx(), domain.SaleRequest{
		PaymentMethod: "cash",
		Items:         []domain.SaleLine{{ProductID: "p2", Qty: 5, UnitPriceCents: 1600}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if got := st.ProductByID("p2").StockQty; got != -2 {
		t.Fatalf("expected stock -2, got %d", got)
	}
}

func TestRecordSaleBorrowedLine(t *testing.T) {
	svc, st := newTestService()

	inv, err := svc.RecordSale(adminCtx(), domain.SaleRequest{
		PaymentMethod: "cash",
		Items: []domain.SaleLine{{
			ProductID:          "p1",
			Qty:                3,
			UnitPriceCents:     2000,
			BorrowedSupplierID: "s1",
			BorrowedCostCents:  500,
		}},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if got := st.SupplierByID("s1").BalanceCents; got != 1500 {
		t.Fatalf("expected supplier balance 1500, got %d", got)
	}
	if got := st.ProductByID("p1").StockQty; got != 20 {
		t.Fatalf("expected stock untouched at 20, got %d", got)
	}

	entries := svc.ListLedger(context.Background(), domain.CategoryPurchase, "s1")
	if len(entries) != 1 || entries[0].Type != domain.EntryCredit || entries[0].AmountCents != 1500 {
		t.Fatalf("expected one 1500 CREDIT purchase entry for supplier, got %+v", entries)
	}
	if entries[0].ReferenceID != inv.ID {
		t.Fatalf("expected entry referencing %s, got %s", inv.ID, entries[0].ReferenceID)
	}
}

func TestRecordSaleLoyaltyMath(t *testing.T) {
	svc, st := newTestService()

	// Total 2550 cents is 25.50; the customer earns floor(25.50) = 25 points
	// and spends 10 of them.
	if _, err := svc.RecordSale(adminCtx(), domain.SaleRequest{
		CustomerID:        "c1",
		PaymentMethod:     "cash",
		LoyaltyPointsUsed: 10,
		Items:             []domain.SaleLine{{ProductID: "p1", Qty: 1, UnitPriceCents: 2550}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	customer := st.CustomerByID("c1")
	if customer.LoyaltyPoints != 15 {
		t.Fatalf("expected 15 loyalty points, got %d", customer.LoyaltyPoints)
	}
	if customer.TotalPurchasesCents != 2550 {
		t.Fatalf("expected total purchases 2550, got %d", customer.TotalPurchasesCents)
	}
	if customer.LastVisit == nil {
		t.Fatal("expected last visit to be set")
	}

	entries := svc.ListLedger(context.Background(), domain.CategorySales, "c1")
	if len(entries) != 1 || entries[0].AccountName != "Budi Santoso" {
		t.Fatalf("expected sales entry on customer account, got %+v", entries)
	}
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RecordSale(adminCtx(), domain.SaleRequest{
		Items: []domain.SaleLine{{ProductID: "missing", Qty: 1, UnitPriceCents: 100}},
	})
	if !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSalesReturnRestocksAndDebits(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	inv, err := svc.RecordSale(ctx, domain.SaleRequest{
		PaymentMethod: "cash",
		Items:         []domain.SaleLine{{ProductID: "p1", Qty: 4, UnitPriceCents: 1500}},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	updated, err := svc.ProcessSalesReturn(ctx, domain.SalesReturnRequest{
		InvoiceID: inv.ID,
		Items:     []domain.SalesReturnLine{{ProductID: "p1", Qty: 2, RefundCents: 3000}},
	})
	if err != nil {
		t.Fatalf("process return: %v", err)
	}

	if got := st.ProductByID("p1").StockQty; got != 18 {
		t.Fatalf("expected stock 18 after restock, got %d", got)
	}
	if updated.Status != domain.InvoiceStatusReturned {
		t.Fatalf("expected status Returned, got %q", updated.Status)
	}
	if len(updated.ReturnHistory) != 1 || updated.ReturnHistory[0].RefundCents != 3000 {
		t.Fatalf("expected one return history entry refunding 3000, got %+v", updated.ReturnHistory)
	}

	var debit *domain.LedgerEntry
	for _, e := range svc.ListLedger(ctx, domain.CategorySales, "") {
		if e.Type == domain.EntryDebit {
			entry := e
			debit = &entry
		}
	}
	if debit == nil || debit.AmountCents != 3000 || debit.AccountName != "Sales Return" {
		t.Fatalf("expected 3000 DEBIT on Sales Return, got %+v", debit)
	}
}

func TestSalesReturnUnknownInvoice(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ProcessSalesReturn(adminCtx(), domain.SalesReturnRequest{
		InvoiceID: "missing",
		Items:     []domain.SalesReturnLine{{ProductID: "p1", Qty: 1}},
	})
	if !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestRecordPurchaseOrderThenReceive(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	p, err := svc.RecordPurchase(ctx, domain.PurchaseRequest{
		SupplierID: "s1",
		Type:       "ORDER",
		Items:      []domain.PurchaseLineRequest{{ProductID: "p1", Qty: 100, CostCents: 900}},
	})
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}
	if p.Status != domain.PurchaseStatusPending {
		t.Fatalf("expected Pending, got %q", p.Status)
	}
	if got := st.SupplierByID("s1").BalanceCents; got != 90000 {
		t.Fatalf("expected supplier balance 90000, got %d", got)
	}
	if got := st.ProductByID("p1").StockQty; got != 20 {
		t.Fatalf("expected no stock movement on order, got %d", got)
	}

	p, err = svc.ReceivePurchaseItems(ctx, domain.ReceiveRequest{
		PurchaseID: p.ID,
		Lines:      []domain.ReceiptLine{{ProductID: "p1", Qty: 60}},
	})
	if err != nil {
		t.Fatalf("first receipt: %v", err)
	}
	if p.Status != domain.PurchaseStatusPartial {
		t.Fatalf("expected Partial after 60/100, got %q", p.Status)
	}
	if got := st.ProductByID("p1").StockQty; got != 80 {
		t.Fatalf("expected stock 80, got %d", got)
	}

	p, err = svc.ReceivePurchaseItems(ctx, domain.ReceiveRequest{
		PurchaseID: p.ID,
		Lines:      []domain.ReceiptLine{{ProductID: "p1", Qty: 40}},
	})
	if err != nil {
		t.Fatalf("second receipt: %v", err)
	}
	if p.Status != domain.PurchaseStatusCompleted {
		t.Fatalf("expected Completed after 100/100, got %q", p.Status)
	}
	if got := st.ProductByID("p1").StockQty; got != 120 {
		t.Fatalf("expected stock 120, got %d", got)
	}
	if len(p.ReceivedHistory) != 2 {
		t.Fatalf("expected two receipt records, got %d", len(p.ReceivedHistory))
	}
}

func TestRecordPurchaseInvoiceReceivesImmediately(t *testing.T) {
	svc, st := newTestService()

	p, err := svc.RecordPurchase(adminCtx(), domain.PurchaseRequest{
		SupplierID: "s1",
		Type:       "INVOICE",
		Items:      []domain.PurchaseLineRequest{{ProductID: "p1", Qty: 10, CostCents: 1000}},
	})
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}

	if p.Status != domain.PurchaseStatusReceived {
		t.Fatalf("expected terminal Received, got %q", p.Status)
	}
	if p.Items[0].ReceivedQty != 10 {
		t.Fatalf("expected received qty pre-set to 10, got %d", p.Items[0].ReceivedQty)
	}
	if len(p.ReceivedHistory) != 1 {
		t.Fatalf("expected one receipt record, got %d", len(p.ReceivedHistory))
	}
	if got := st.ProductByID("p1").StockQty; got != 30 {
		t.Fatalf("expected stock 30, got %d", got)
	}
}

func TestReturnPurchaseClampsStockAtZero(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	p, err := svc.RecordPurchase(ctx, domain.PurchaseRequest{
		SupplierID: "s1",
		Items:      []domain.PurchaseLineRequest{{ProductID: "p2", Qty: 10, CostCents: 1200}},
	})
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}

	// p2 holds 3 units; returning 10 clamps at zero rather than going negative.
	p, err = svc.ReturnPurchase(ctx, domain.PurchaseReturnRequest{
		PurchaseID: p.ID,
		Items:      []domain.PurchaseReturnLine{{ProductID: "p2", Qty: 10, RefundCents: 12000}},
	})
	if err != nil {
		t.Fatalf("return purchase: %v", err)
	}

	if got := st.ProductByID("p2").StockQty; got != 0 {
		t.Fatalf("expected stock clamped to 0, got %d", got)
	}
	if got := st.SupplierByID("s1").BalanceCents; got != 0 {
		t.Fatalf("expected supplier balance back to 0, got %d", got)
	}
	if len(p.ReturnHistory) != 1 || p.ReturnHistory[0].RefundCents != 12000 {
		t.Fatalf("expected one return record refunding 12000, got %+v", p.ReturnHistory)
	}
}

func TestAddStockAdjustmentCostsAtPreMutationCost(t *testing.T) {
	svc, st := newTestService()

	adj, err := svc.AddStockAdjustment(adminCtx(), domain.AdjustmentRequest{
		ProductID: "p1",
		Qty:       -5,
		Reason:    domain.AdjustReasonDamaged,
		Note:      "dropped pallet",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if got := st.ProductByID("p1").StockQty; got != 15 {
		t.Fatalf("expected stock 15, got %d", got)
	}
	if adj.CostAmountCents != 5000 {
		t.Fatalf("expected cost amount 5*1000=5000, got %d", adj.CostAmountCents)
	}

	entries := svc.ListLedger(context.Background(), domain.CategoryAdjustment, "")
	if len(entries) != 1 || entries[0].Type != domain.EntryDebit || entries[0].AmountCents != 5000 {
		t.Fatalf("expected one 5000 DEBIT adjustment entry, got %+v", entries)
	}
}

func TestAddStockAdjustmentRejectsUnknownReason(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddStockAdjustment(adminCtx(), domain.AdjustmentRequest{ProductID: "p1", Qty: -1, Reason: "Shrink"})
	if !errors.Is(err, state.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument, got %v", err)
	}
}

func TestCloseRegisterIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := adminCtx()

	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 10000}); err != nil {
		t.Fatalf("open register: %v", err)
	}
	if _, err := svc.RecordSale(ctx, domain.SaleRequest{
		PaymentMethod: "cash",
		Items:         []domain.SaleLine{{ProductID: "p1", Qty: 1, UnitPriceCents: 5000}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	closed, err := svc.CloseRegister(ctx, domain.RegisterCloseRequest{ActualCents: 14000})
	if err != nil {
		t.Fatalf("close register: %v", err)
	}
	if closed.Status != domain.RegisterStatusClosed {
		t.Fatalf("expected CLOSED, got %q", closed.Status)
	}
	if closed.DiscrepancyCents == nil || *closed.DiscrepancyCents != -1000 {
		t.Fatalf("expected discrepancy -1000, got %+v", closed.DiscrepancyCents)
	}

	again, err := svc.CloseRegister(ctx, domain.RegisterCloseRequest{ActualCents: 99999})
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if *again.ActualCents != 14000 || *again.DiscrepancyCents != -1000 {
		t.Fatalf("expected second close to change nothing, got %+v", again)
	}
}

func TestCloseRegisterWithoutSession(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CloseRegister(adminCtx(), domain.RegisterCloseRequest{ActualCents: 0})
	if !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestOpenRegisterTwiceRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := adminCtx()

	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 100}); err != nil {
		t.Fatalf("open register: %v", err)
	}
	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 100}); !errors.Is(err, state.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument on double open, got %v", err)
	}
}

func TestRecordExpenseWritesLedgerDebit(t *testing.T) {
	svc, _ := newTestService()

	exp, err := svc.RecordExpense(adminCtx(), domain.ExpenseRequest{Description: "Listrik bulan ini", Category: "utilities", AmountCents: 25000})
	if err != nil {
		t.Fatalf("record expense: %v", err)
	}

	entries := svc.ListLedger(context.Background(), domain.CategoryExpense, "")
	if len(entries) != 1 || entries[0].Type != domain.EntryDebit || entries[0].AmountCents != 25000 {
		t.Fatalf("expected one 25000 DEBIT expense entry, got %+v", entries)
	}
	if entries[0].ReferenceID != exp.ID {
		t.Fatalf("expected entry referencing %s, got %s", exp.ID, entries[0].ReferenceID)
	}
}

func TestLowStockProducts(t *testing.T) {
	svc, _ := newTestService()

	low := svc.LowStockProducts(context.Background())
	if len(low) != 1 || low[0].ID != "p2" {
		t.Fatalf("expected only p2 below minimum, got %+v", low)
	}
}

func TestGenericEntityLifecycle(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	created, err := svc.AddEntity(ctx, domain.KindSuppliers, json.RawMessage(`{"name":"PT Maju Jaya","phone":"0812"}`))
	if err != nil {
		t.Fatalf("add supplier: %v", err)
	}
	sup := created.(domain.Supplier)
	if sup.ID == "" {
		t.Fatal("expected generated supplier id")
	}

	payload, _ := json.Marshal(domain.Supplier{ID: sup.ID, Name: "PT Maju Jaya Abadi", CreatedAt: sup.CreatedAt})
	if _, err := svc.UpdateEntity(ctx, domain.KindSuppliers, payload); err != nil {
		t.Fatalf("update supplier: %v", err)
	}
	if got := st.SupplierByID(sup.ID).Name; got != "PT Maju Jaya Abadi" {
		t.Fatalf("expected renamed supplier, got %q", got)
	}

	if err := svc.DeleteEntity(ctx, domain.KindSuppliers, sup.ID); err != nil {
		t.Fatalf("delete supplier: %v", err)
	}
	if st.SupplierByID(sup.ID) != nil {
		t.Fatal("expected supplier gone after delete")
	}

	if err := svc.DeleteEntity(ctx, domain.KindSuppliers, sup.ID); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
	if _, err := svc.AddEntity(ctx, domain.CollectionKind("widgets"), json.RawMessage(`{}`)); !errors.Is(err, state.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for unknown kind, got %v", err)
	}
}

func TestAddEntityHashesUserPassword(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	created, err := svc.AddEntity(ctx, domain.KindUsers, json.RawMessage(`{"username":"Rina","password":"rahasia123","role":"cashier","active":true}`))
	if err != nil {
		t.Fatalf("add user: %v", err)
	}

	user := created.(domain.UserAccount)
	if user.Username != "rina" {
		t.Fatalf("expected normalized username rina, got %q", user.Username)
	}
	stored := st.UserByUsername("rina")
	if stored == nil {
		t.Fatal("expected stored user")
	}
	if stored.Password == "rahasia123" {
		t.Fatal("password must not be stored in plaintext")
	}
	if !strings.HasPrefix(stored.Password, "$2a$") && !strings.HasPrefix(stored.Password, "$2b$") {
		t.Fatalf("expected bcrypt hash, got %q", stored.Password)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("rahasia123")) != nil {
		t.Fatal("stored hash must verify against the original password")
	}
}

func TestUpdateEntityUserPasswordSemantics(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	if _, err := svc.AddEntity(ctx, domain.KindUsers, json.RawMessage(`{"username":"rina","password":"rahasia123","role":"cashier","active":true}`)); err != nil {
		t.Fatalf("add user: %v", err)
	}
	firstHash := st.UserByUsername("rina").Password

	// An empty password on update keeps the stored credential.
	if _, err := svc.UpdateEntity(ctx, domain.KindUsers, json.RawMessage(`{"username":"rina","role":"admin","active":true}`)); err != nil {
		t.Fatalf("update without password: %v", err)
	}
	after := st.UserByUsername("rina")
	if after.Password != firstHash {
		t.Fatal("update without password must keep the stored hash")
	}
	if after.Role != "admin" {
		t.Fatalf("expected role change to apply, got %q", after.Role)
	}

	// A new plaintext password is re-hashed.
	if _, err := svc.UpdateEntity(ctx, domain.KindUsers, json.RawMessage(`{"username":"rina","password":"baru456","role":"admin","active":true}`)); err != nil {
		t.Fatalf("update with new password: %v", err)
	}
	rehashed := st.UserByUsername("rina").Password
	if rehashed == "baru456" || rehashed == firstHash {
		t.Fatal("new password must be stored as a fresh hash")
	}
	if bcrypt.CompareHashAndPassword([]byte(rehashed), []byte("baru456")) != nil {
		t.Fatal("new hash must verify against the new password")
	}
}

func TestAddEntityUserRequiresPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddEntity(adminCtx(), domain.KindUsers, json.RawMessage(`{"username":"rina","role":"cashier","active":true}`))
	if !errors.Is(err, state.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument for missing password, got %v", err)
	}
}

func TestRecordSaleSplitMethodCaseInsensitive(t *testing.T) {
	svc, st := newTestService()
	ctx := adminCtx()

	if _, err := svc.OpenRegister(ctx, domain.RegisterOpenRequest{OpeningFloatCents: 0}); err != nil {
		t.Fatalf("open register: %v", err)
	}
	if _, err := svc.RecordSale(ctx, domain.SaleRequest{
		PaymentSplits: []domain.PaymentSplit{
			{Method: " Cash ", AmountCents: 3000},
			{Method: "QRIS", AmountCents: 4500},
		},
		Items: []domain.SaleLine{{ProductID: "p1", Qty: 5, UnitPriceCents: 1500}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if st.RegisterSession.ExpectedCents != 3000 {
		t.Fatalf("expected cash split 3000 regardless of tender casing, got %d", st.RegisterSession.ExpectedCents)
	}
}

func TestPurchaseRequiresAdminRole(t *testing.T) {
	svc, _ := newTestService()
	cashier := WithActor(context.Background(), domain.Actor{Username: "dewi", Role: "cashier"})

	if _, err := svc.RecordPurchase(cashier, domain.PurchaseRequest{SupplierID: "s1"}); err == nil {
		t.Fatal("expected role error for cashier")
	}
}

func TestMutationsPersistSnapshot(t *testing.T) {
	st := state.New()
	st.Products = append(st.Products, domain.Product{ID: "p1", Name: "Kopi", StockQty: 5, PriceCents: 1000, Active: true})
	gate := &snapshot.Memory{}
	svc := New(st, gate)

	if _, err := svc.RecordSale(adminCtx(), domain.SaleRequest{
		PaymentMethod: "cash",
		Items:         []domain.SaleLine{{ProductID: "p1", Qty: 2, UnitPriceCents: 1000}},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	restored, err := gate.Load(context.Background())
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(restored.Invoices) != 1 {
		t.Fatalf("expected snapshot to carry 1 invoice, got %d", len(restored.Invoices))
	}
	if restored.ProductByID("p1").StockQty != 3 {
		t.Fatalf("expected snapshot stock 3, got %d", restored.ProductByID("p1").StockQty)
	}
}
