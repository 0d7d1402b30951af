// Package ledger builds and queries the append-only financial ledger.
// Entries are never mutated after creation; corrections happen through
// opposite-sign entries, not edits.
package ledger

import (
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/xid"
)

// Fixed account names used by the commerce commands.
const (
	AccountCashDrawer  = "Cash Drawer"
	AccountWalkInSales = "Walk-in Sales"
	AccountSalesReturn = "Sales Return"
)

func Credit(accountID, accountName, category, description, referenceID string, amountCents int64) domain.LedgerEntry {
	return newEntry(domain.EntryCredit, accountID, accountName, category, description, referenceID, amountCents)
}

func Debit(accountID, accountName, category, description, referenceID string, amountCents int64) domain.LedgerEntry {
	return newEntry(domain.EntryDebit, accountID, accountName, category, description, referenceID, amountCents)
}

func newEntry(entryType, accountID, accountName, category, description, referenceID string, amountCents int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:          xid.New("led"),
		Date:        time.Now().UTC(),
		Description: description,
		ReferenceID: referenceID,
		Type:        entryType,
		AmountCents: amountCents,
		AccountID:   accountID,
		AccountName: accountName,
		Category:    category,
	}
}

// Balance sums an account's entries, credits positive and debits negative.
func Balance(entries []domain.LedgerEntry, accountID string) int64 {
	var total int64
	for i := range entries {
		if entries[i].AccountID != accountID {
			continue
		}
		if entries[i].Type == domain.EntryCredit {
			total += entries[i].AmountCents
		} else {
			total -= entries[i].AmountCents
		}
	}
	return total
}

func ByCategory(entries []domain.LedgerEntry, category string) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, 0, len(entries))
	for i := range entries {
		if entries[i].Category == category {
			out = append(out, entries[i])
		}
	}
	return out
}

func ByAccount(entries []domain.LedgerEntry, accountID string) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, 0, len(entries))
	for i := range entries {
		if entries[i].AccountID == accountID {
			out = append(out, entries[i])
		}
	}
	return out
}
