package state

import (
	"errors"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/xid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// State is the full aggregate set of the store. It is owned by a single
// writer (the service) and serialized whole by the persistence gate after
// every mutating command.
type State struct {
	Products         []domain.Product         `json:"products"`
	CatalogItems     []domain.CatalogItem     `json:"catalog_items"`
	Suppliers        []domain.Supplier        `json:"suppliers"`
	Customers        []domain.Customer        `json:"customers"`
	Users            []domain.UserAccount     `json:"users"`
	Roles            []domain.Role            `json:"roles"`
	Expenses         []domain.Expense         `json:"expenses"`
	Invoices         []domain.Invoice         `json:"invoices"`
	Purchases        []domain.Purchase        `json:"purchases"`
	Ledger           []domain.LedgerEntry     `json:"ledger"`
	StockAdjustments []domain.StockAdjustment `json:"stock_adjustments"`
	RegisterSession  *domain.RegisterSession  `json:"register_session,omitempty"`
	Settings         domain.Settings          `json:"settings"`
	CurrentUser      string                   `json:"current_user,omitempty"`
}

func New() *State {
	return &State{
		Products:         make([]domain.Product, 0, 32),
		CatalogItems:     make([]domain.CatalogItem, 0, 16),
		Suppliers:        make([]domain.Supplier, 0, 8),
		Customers:        make([]domain.Customer, 0, 16),
		Users:            make([]domain.UserAccount, 0, 4),
		Roles:            make([]domain.Role, 0, 4),
		Expenses:         make([]domain.Expense, 0, 16),
		Invoices:         make([]domain.Invoice, 0, 64),
		Purchases:        make([]domain.Purchase, 0, 16),
		Ledger:           make([]domain.LedgerEntry, 0, 128),
		StockAdjustments: make([]domain.StockAdjustment, 0, 16),
		Settings: domain.Settings{
			StoreName:      "Lapak POS",
			CurrencyCode:   "IDR",
			TaxRatePercent: 0,
			LoyaltyEnabled: true,
		},
	}
}

func (s *State) ProductByID(id string) *domain.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

func (s *State) CatalogItemByID(id string) *domain.CatalogItem {
	for i := range s.CatalogItems {
		if s.CatalogItems[i].ID == id {
			return &s.CatalogItems[i]
		}
	}
	return nil
}

func (s *State) SupplierByID(id string) *domain.Supplier {
	for i := range s.Suppliers {
		if s.Suppliers[i].ID == id {
			return &s.Suppliers[i]
		}
	}
	return nil
}

func (s *State) CustomerByID(id string) *domain.Customer {
	for i := range s.Customers {
		if s.Customers[i].ID == id {
			return &s.Customers[i]
		}
	}
	return nil
}

func (s *State) InvoiceByID(id string) *domain.Invoice {
	for i := range s.Invoices {
		if s.Invoices[i].ID == id {
			return &s.Invoices[i]
		}
	}
	return nil
}

func (s *State) PurchaseByID(id string) *domain.Purchase {
	for i := range s.Purchases {
		if s.Purchases[i].ID == id {
			return &s.Purchases[i]
		}
	}
	return nil
}

func (s *State) UserByUsername(username string) *domain.UserAccount {
	for i := range s.Users {
		if s.Users[i].Username == username {
			return &s.Users[i]
		}
	}
	return nil
}

// Seeded builds the initial demo state used when no snapshot exists yet.
func Seeded() *State {
	s := New()
	now := time.Now().UTC()

	s.Products = append(s.Products,
		domain.Product{ID: xid.New("prd"), SKU: "SKU-MIE-01", Name: "Mie Goreng Instan", Category: "grocery", StockQty: 120, CostCents: 2700, PriceCents: 3500, MinStockLevel: 30, Active: true},
		domain.Product{ID: xid.New("prd"), SKU: "SKU-TELUR-01", Name: "Telur 10 Butir", Category: "grocery", StockQty: 80, CostCents: 23000, PriceCents: 26500, MinStockLevel: 20, Active: true},
		domain.Product{ID: xid.New("prd"), SKU: "SKU-SUSU-01", Name: "Susu UHT 1L", Category: "dairy", StockQty: 60, CostCents: 13600, PriceCents: 18900, MinStockLevel: 25, Active: true},
		domain.Product{ID: xid.New("prd"), SKU: "SKU-KOPI-01", Name: "Kopi Sachet", Category: "beverage", StockQty: 200, CostCents: 1700, PriceCents: 2600, MinStockLevel: 40, Active: true},
		domain.Product{
			ID: xid.New("prd"), SKU: "SKU-KAOS-01", Name: "Kaos Polos", Category: "apparel",
			StockQty: 0, CostCents: 32000, PriceCents: 55000, MinStockLevel: 10, Active: true,
			Variants: []domain.Variant{
				{ID: xid.New("var"), SKU: "SKU-KAOS-01-M", Name: "Ukuran M", PriceCents: 55000, StockQty: 14},
				{ID: xid.New("var"), SKU: "SKU-KAOS-01-L", Name: "Ukuran L", PriceCents: 55000, StockQty: 9},
			},
		},
	)

	s.Suppliers = append(s.Suppliers,
		domain.Supplier{ID: xid.New("sup"), Name: "PT Sumber Pangan", Phone: "0812-1111-2222", CreatedAt: now},
		domain.Supplier{ID: xid.New("sup"), Name: "CV Berkah Jaya", Phone: "0812-3333-4444", CreatedAt: now},
	)

	s.Customers = append(s.Customers,
		domain.Customer{ID: xid.New("cus"), Name: "Ibu Sari", Phone: "0812-5555-6666"},
		domain.Customer{ID: xid.New("cus"), Name: "Pak Budi", Phone: "0812-7777-8888"},
	)

	s.Roles = append(s.Roles,
		domain.Role{ID: xid.New("role"), Name: "admin", Permissions: []string{"*"}},
		domain.Role{ID: xid.New("role"), Name: "cashier", Permissions: []string{"sales", "register"}},
	)

	s.Users = seedUsers(now)

	return s
}

// seedUsers builds the initial user accounts for dev/demo mode. Credentials
// are read from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD environment
// variables; hardcoded dev defaults are used with a warning when unset.
func seedUsers(now time.Time) []domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[state] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	users := make([]domain.UserAccount, 0, 2)
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[state] failed to hash seed password for %s: %v", u.username, err)
		}
		users = append(users, domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		})
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
