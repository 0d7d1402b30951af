package service

import (
	"context"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/ledger"
)

// Queries return copies; callers never see the live aggregate slices.

func (s *Service) ListProducts(_ context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product(nil), s.state.Products...)
}

// LowStockProducts reports products at or below their minimum stock level.
func (s *Service) LowStockProducts(_ context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	low := make([]domain.Product, 0)
	for _, p := range s.state.Products {
		if p.MinStockLevel > 0 && p.StockQty <= p.MinStockLevel {
			low = append(low, p)
		}
	}
	return low
}

func (s *Service) ListCatalogItems(_ context.Context) []domain.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CatalogItem(nil), s.state.CatalogItems...)
}

func (s *Service) ListSuppliers(_ context.Context) []domain.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Supplier(nil), s.state.Suppliers...)
}

func (s *Service) ListCustomers(_ context.Context) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Customer(nil), s.state.Customers...)
}

func (s *Service) ListInvoices(_ context.Context) []domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Invoice(nil), s.state.Invoices...)
}

func (s *Service) ListPurchases(_ context.Context) []domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Purchase(nil), s.state.Purchases...)
}

func (s *Service) ListAdjustments(_ context.Context) []domain.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StockAdjustment(nil), s.state.StockAdjustments...)
}

func (s *Service) ListExpenses(_ context.Context) []domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Expense(nil), s.state.Expenses...)
}

// ListUserAccounts returns the raw credential records, password hashes
// included. HTTP handlers must sanitize before responding.
func (s *Service) ListUserAccounts(_ context.Context) []domain.UserAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UserAccount(nil), s.state.Users...)
}

func (s *Service) ListRoles(_ context.Context) []domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Role(nil), s.state.Roles...)
}

// ListLedger filters by category and account id; empty filters match all.
func (s *Service) ListLedger(_ context.Context, category string, accountID string) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.state.Ledger
	if category != "" {
		entries = ledger.ByCategory(entries, category)
	}
	if accountID != "" {
		entries = ledger.ByAccount(entries, accountID)
	}
	return append([]domain.LedgerEntry(nil), entries...)
}

// LedgerBalance nets an account: credits add, debits subtract.
func (s *Service) LedgerBalance(_ context.Context, accountID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Balance(s.state.Ledger, accountID)
}
