package domain

import "time"

type Variant struct {
	ID         string `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	StockQty   int    `json:"stock_qty"`
}

// Product.StockQty and the variants' StockQty are independent counters.
// The parent stock is never derived from the variant counters.
type Product struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	StockQty      int       `json:"stock_qty"`
	CostCents     int64     `json:"cost_cents"`
	PriceCents    int64     `json:"price_cents"`
	MinStockLevel int       `json:"min_stock_level"`
	Variants      []Variant `json:"variants,omitempty"`
	Active        bool      `json:"active"`
}

type Lot struct {
	ID         string     `json:"id"`
	LotNumber  string     `json:"lot_number"`
	Qty        int        `json:"qty"`
	CostCents  int64      `json:"cost_cents"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Status     string     `json:"status"`
	ReceivedAt time.Time  `json:"received_at"`
}

// CatalogItem.StockQty must equal the sum of its lot quantities whenever
// lots exist. Attributes are metadata only and never affect stock math.
type CatalogItem struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	StockQty   int               `json:"stock_qty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Lots       []Lot             `json:"lots,omitempty"`
}

// Supplier.BalanceCents is signed; positive means the store owes the supplier.
type Supplier struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type Customer struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	LoyaltyPoints       int64      `json:"loyalty_points"`
	TotalPurchasesCents int64      `json:"total_purchases_cents"`
	LastVisit           *time.Time `json:"last_visit,omitempty"`
}

// InvoiceLine with a non-empty BorrowedSupplierID is fulfilled from stock the
// store does not own: it creates supplier debt instead of consuming inventory.
type InvoiceLine struct {
	ProductID          string `json:"product_id"`
	Name               string `json:"name"`
	Qty                int    `json:"qty"`
	UnitPriceCents     int64  `json:"unit_price_cents"`
	BorrowedSupplierID string `json:"borrowed_supplier_id,omitempty"`
	BorrowedCostCents  int64  `json:"borrowed_cost_cents,omitempty"`
}

type SalesReturnLine struct {
	ProductID   string `json:"product_id"`
	Qty         int    `json:"qty"`
	RefundCents int64  `json:"refund_cents"`
}

type SalesReturnEntry struct {
	ID          string            `json:"id"`
	Items       []SalesReturnLine `json:"items"`
	RefundCents int64             `json:"refund_cents"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Invoice struct {
	ID                string             `json:"id"`
	CustomerID        string             `json:"customer_id,omitempty"`
	Items             []InvoiceLine      `json:"items"`
	TotalCents        int64              `json:"total_cents"`
	Status            string             `json:"status"`
	PaymentMethod     string             `json:"payment_method"`
	PaymentSplits     []PaymentSplit     `json:"payment_splits,omitempty"`
	LoyaltyPointsUsed int64              `json:"loyalty_points_used"`
	ReturnHistory     []SalesReturnEntry `json:"return_history,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

type PurchaseLine struct {
	ProductID   string `json:"product_id"`
	Qty         int    `json:"qty"`
	ReceivedQty int    `json:"received_qty"`
	CostCents   int64  `json:"cost_cents"`
}

type ReceiptLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type PurchaseReceipt struct {
	ID         string        `json:"id"`
	Lines      []ReceiptLine `json:"lines"`
	ReceivedBy string        `json:"received_by,omitempty"`
	ReceivedAt time.Time     `json:"received_at"`
}

type PurchaseReturnLine struct {
	ProductID   string `json:"product_id"`
	Qty         int    `json:"qty"`
	RefundCents int64  `json:"refund_cents"`
}

type PurchaseReturnEntry struct {
	ID          string               `json:"id"`
	Items       []PurchaseReturnLine `json:"items"`
	RefundCents int64                `json:"refund_cents"`
	CreatedAt   time.Time            `json:"created_at"`
}

type Purchase struct {
	ID              string                `json:"id"`
	SupplierID      string                `json:"supplier_id"`
	Type            string                `json:"type"`
	Items           []PurchaseLine        `json:"items"`
	TotalCents      int64                 `json:"total_cents"`
	Status          string                `json:"status"`
	ReceivedHistory []PurchaseReceipt     `json:"received_history,omitempty"`
	ReturnHistory   []PurchaseReturnEntry `json:"return_history,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

type StockAdjustment struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	Qty             int       `json:"qty"`
	Reason          string    `json:"reason"`
	CostAmountCents int64     `json:"cost_amount_cents"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type LedgerEntry struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ReferenceID string    `json:"reference_id,omitempty"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	AccountID   string    `json:"account_id"`
	AccountName string    `json:"account_name"`
	Category    string    `json:"category"`
}

type RegisterSession struct {
	ID                string     `json:"id"`
	OpenedBy          string     `json:"opened_by,omitempty"`
	OpeningFloatCents int64      `json:"opening_float_cents"`
	ExpectedCents     int64      `json:"expected_cents"`
	SalesCount        int        `json:"sales_count"`
	TotalSalesCents   int64      `json:"total_sales_cents"`
	Status            string     `json:"status"`
	OpenedAt          time.Time  `json:"opened_at"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	ActualCents       *int64     `json:"actual_cents,omitempty"`
	DiscrepancyCents  *int64     `json:"discrepancy_cents,omitempty"`
}

type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

type Settings struct {
	StoreName      string  `json:"store_name"`
	CurrencyCode   string  `json:"currency_code"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	LoyaltyEnabled bool    `json:"loyalty_enabled"`
}

type PaymentSplit struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference,omitempty"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Actor struct {
	Username string
	Role     string
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type SaleLine struct {
	ProductID          string `json:"product_id"`
	Qty                int    `json:"qty"`
	UnitPriceCents     int64  `json:"unit_price_cents"`
	BorrowedSupplierID string `json:"borrowed_supplier_id,omitempty"`
	BorrowedCostCents  int64  `json:"borrowed_cost_cents,omitempty"`
}

type SaleRequest struct {
	CustomerID        string         `json:"customer_id,omitempty"`
	PaymentMethod     string         `json:"payment_method"`
	PaymentSplits     []PaymentSplit `json:"payment_splits,omitempty"`
	LoyaltyPointsUsed int64          `json:"loyalty_points_used"`
	Items             []SaleLine     `json:"items"`
}

type SalesReturnRequest struct {
	InvoiceID string            `json:"invoice_id"`
	Items     []SalesReturnLine `json:"items"`
}

type PurchaseLineRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	CostCents int64  `json:"cost_cents"`
}

type PurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Type       string                `json:"type"`
	Items      []PurchaseLineRequest `json:"items"`
}

type ReceiveRequest struct {
	PurchaseID string        `json:"purchase_id"`
	ReceivedBy string        `json:"received_by,omitempty"`
	Lines      []ReceiptLine `json:"lines"`
}

type PurchaseReturnRequest struct {
	PurchaseID string               `json:"purchase_id"`
	Items      []PurchaseReturnLine `json:"items"`
}

type AdjustmentRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Reason    string `json:"reason"`
	Note      string `json:"note,omitempty"`
}

type RegisterOpenRequest struct {
	OpeningFloatCents int64 `json:"opening_float_cents"`
}

type RegisterCloseRequest struct {
	ActualCents int64 `json:"actual_cents"`
}

type ExpenseRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
}

type LotAddRequest struct {
	ItemID     string `json:"item_id"`
	LotNumber  string `json:"lot_number"`
	Qty        int    `json:"qty"`
	CostCents  int64  `json:"cost_cents"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

type LotUpdateRequest struct {
	ItemID    string  `json:"item_id"`
	LotID     string  `json:"lot_id"`
	Qty       *int    `json:"qty,omitempty"`
	CostCents *int64  `json:"cost_cents,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// Invoice statuses. The sale and return commands only write Paid and
// Returned; Partial Refund and Pending complete the stored-status domain
// and are accepted on invoices carried in from existing snapshots.
const (
	InvoiceStatusPaid          = "Paid"
	InvoiceStatusReturned      = "Returned"
	InvoiceStatusPartialRefund = "Partial Refund"
	InvoiceStatusPending       = "Pending"
)

const (
	PurchaseTypeInvoice = "INVOICE"
	PurchaseTypeOrder   = "ORDER"
)

const (
	PurchaseStatusPending   = "Pending"
	PurchaseStatusPartial   = "Partial"
	PurchaseStatusCompleted = "Completed"
	PurchaseStatusReceived  = "Received"
)

const (
	LotStatusActive   = "Active"
	LotStatusExpired  = "Expired"
	LotStatusDepleted = "Depleted"
)

const (
	AdjustReasonDamaged    = "Damaged"
	AdjustReasonExpired    = "Expired"
	AdjustReasonTheft      = "Theft"
	AdjustReasonCorrection = "Correction"
	AdjustReasonGift       = "Gift"
)

const (
	EntryDebit  = "DEBIT"
	EntryCredit = "CREDIT"
)

const (
	CategorySales      = "SALES"
	CategoryPurchase   = "PURCHASE"
	CategoryExpense    = "EXPENSE"
	CategoryPayment    = "PAYMENT"
	CategoryAdjustment = "ADJUSTMENT"
)

const (
	RegisterStatusOpen   = "OPEN"
	RegisterStatusClosed = "CLOSED"
)

const PaymentMethodCash = "cash"

// CollectionKind tags the simple collections reachable through the generic
// entity commands. The set is closed; the service switches over it
// exhaustively.
type CollectionKind string

const (
	KindProducts     CollectionKind = "products"
	KindCatalogItems CollectionKind = "catalog_items"
	KindSuppliers    CollectionKind = "suppliers"
	KindCustomers    CollectionKind = "customers"
	KindUsers        CollectionKind = "users"
	KindRoles        CollectionKind = "roles"
	KindExpenses     CollectionKind = "expenses"
)
