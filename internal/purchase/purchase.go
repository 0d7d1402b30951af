// Package purchase implements the purchase lifecycle: ordered vs received
// quantities per line, an append-only receipt history, and a status that is
// always derived from quantity totals, never set independently.
package purchase

import (
	"fmt"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/state"
	"lapakpos/backend/internal/xid"
)

// ApplyReceipt records one receiving event: it increments each matching
// line's received quantity, appends an immutable history record capturing
// exactly what arrived, and re-derives the purchase status. Receipts beyond
// a line's remaining quantity are applied as-is; callers may rely on this
// to represent over-deliveries.
func ApplyReceipt(p *domain.Purchase, lines []domain.ReceiptLine, receivedBy string) (domain.PurchaseReceipt, error) {
	if len(lines) == 0 {
		return domain.PurchaseReceipt{}, fmt.Errorf("%w: receipt needs at least one line", state.ErrInvalidArgument)
	}

	applied := make([]domain.ReceiptLine, 0, len(lines))
	for _, line := range lines {
		if line.Qty < 1 {
			return domain.PurchaseReceipt{}, fmt.Errorf("%w: receipt qty must be positive", state.ErrInvalidArgument)
		}
		target := lineByProduct(p, line.ProductID)
		if target == nil {
			return domain.PurchaseReceipt{}, fmt.Errorf("%w: purchase line for product %s", state.ErrNotFound, line.ProductID)
		}
		target.ReceivedQty += line.Qty
		applied = append(applied, line)
	}

	receipt := domain.PurchaseReceipt{
		ID:         xid.New("rcpt"),
		Lines:      applied,
		ReceivedBy: receivedBy,
		ReceivedAt: time.Now().UTC(),
	}
	p.ReceivedHistory = append(p.ReceivedHistory, receipt)
	p.Status = DeriveStatus(p)
	return receipt, nil
}

// MarkFullyReceived treats an INVOICE-type purchase as received in full at
// creation time: every line's received quantity is pre-set to its ordered
// quantity and a single history record is written.
func MarkFullyReceived(p *domain.Purchase, receivedBy string) domain.PurchaseReceipt {
	lines := make([]domain.ReceiptLine, 0, len(p.Items))
	for i := range p.Items {
		p.Items[i].ReceivedQty = p.Items[i].Qty
		lines = append(lines, domain.ReceiptLine{ProductID: p.Items[i].ProductID, Qty: p.Items[i].Qty})
	}

	receipt := domain.PurchaseReceipt{
		ID:         xid.New("rcpt"),
		Lines:      lines,
		ReceivedBy: receivedBy,
		ReceivedAt: time.Now().UTC(),
	}
	p.ReceivedHistory = append(p.ReceivedHistory, receipt)
	p.Status = domain.PurchaseStatusReceived
	return receipt
}

// DeriveStatus recomputes the status from aggregate quantities. Quantities
// only grow, so the derivation can never move a purchase backward.
func DeriveStatus(p *domain.Purchase) string {
	if p.Type == domain.PurchaseTypeInvoice {
		return domain.PurchaseStatusReceived
	}

	ordered, received := Totals(p)
	switch {
	case received == 0:
		return domain.PurchaseStatusPending
	case received >= ordered:
		return domain.PurchaseStatusCompleted
	default:
		return domain.PurchaseStatusPartial
	}
}

// Totals returns the ordered and received quantity sums across all lines.
func Totals(p *domain.Purchase) (ordered int, received int) {
	for i := range p.Items {
		ordered += p.Items[i].Qty
		received += p.Items[i].ReceivedQty
	}
	return ordered, received
}

func lineByProduct(p *domain.Purchase, productID string) *domain.PurchaseLine {
	for i := range p.Items {
		if p.Items[i].ProductID == productID {
			return &p.Items[i]
		}
	}
	return nil
}
