// Package register tracks the single cash-drawer session: opening float,
// the expected balance accrued from cash tenders, and the close-time
// reconciliation against the counted drawer.
package register

import (
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/xid"
)

func Open(openedBy string, openingFloatCents int64) domain.RegisterSession {
	return domain.RegisterSession{
		ID:                xid.New("reg"),
		OpenedBy:          openedBy,
		OpeningFloatCents: openingFloatCents,
		ExpectedCents:     openingFloatCents,
		Status:            domain.RegisterStatusOpen,
		OpenedAt:          time.Now().UTC(),
	}
}

// ApplySale accrues one sale into an open session. Only the cash-method
// portion of the payment moves the expected drawer balance; non-cash tenders
// are reconciled through the ledger's category field instead.
func ApplySale(session *domain.RegisterSession, invoice domain.Invoice) {
	if session == nil || session.Status != domain.RegisterStatusOpen {
		return
	}
	session.SalesCount++
	session.TotalSalesCents += invoice.TotalCents
	session.ExpectedCents += CashPortion(invoice)
}

// CashPortion is the sum of cash splits, or the full total when the invoice
// is a plain cash payment without splits.
func CashPortion(invoice domain.Invoice) int64 {
	if len(invoice.PaymentSplits) == 0 {
		if invoice.PaymentMethod == domain.PaymentMethodCash {
			return invoice.TotalCents
		}
		return 0
	}

	var cash int64
	for _, split := range invoice.PaymentSplits {
		if split.Method == domain.PaymentMethodCash {
			cash += split.AmountCents
		}
	}
	return cash
}

// Close terminates the session, recording the counted drawer amount and the
// discrepancy (actual minus expected). Closing an already-closed session is
// a no-op.
func Close(session *domain.RegisterSession, actualCents int64) bool {
	if session == nil || session.Status != domain.RegisterStatusOpen {
		return false
	}
	now := time.Now().UTC()
	discrepancy := actualCents - session.ExpectedCents

	session.Status = domain.RegisterStatusClosed
	session.ClosedAt = &now
	session.ActualCents = &actualCents
	session.DiscrepancyCents = &discrepancy
	return true
}
