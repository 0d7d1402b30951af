// Package catalog keeps a catalog item's aggregate stock synchronized with
// the sum of its lots. Every lot mutation computes a quantity delta and
// applies that exact delta to the parent stock in the same step; the parent
// is never recomputed from scratch.
package catalog

import (
	"fmt"
	"time"

	"lapakpos/backend/internal/domain"
	"lapakpos/backend/internal/state"
	"lapakpos/backend/internal/xid"
)

func AddLot(item *domain.CatalogItem, lotNumber string, qty int, costCents int64, expiry *time.Time) (domain.Lot, error) {
	if lotNumber == "" || qty < 0 || costCents < 0 {
		return domain.Lot{}, fmt.Errorf("%w: lot number and non-negative qty/cost required", state.ErrInvalidArgument)
	}

	lot := domain.Lot{
		ID:         xid.New("lot"),
		LotNumber:  lotNumber,
		Qty:        qty,
		CostCents:  costCents,
		ExpiryDate: expiry,
		Status:     domain.LotStatusActive,
		ReceivedAt: time.Now().UTC(),
	}
	item.Lots = append(item.Lots, lot)
	item.StockQty += qty
	return lot, nil
}

// UpdateLot applies qty/cost/status changes to one lot. The stock delta is
// newQty-oldQty, never a recompute of the whole item. Status is descriptive
// only: a lot reaching zero is not auto-transitioned to Depleted.
func UpdateLot(item *domain.CatalogItem, lotID string, qty *int, costCents *int64, status *string) error {
	lot := lotByID(item, lotID)
	if lot == nil {
		return fmt.Errorf("%w: lot %s", state.ErrNotFound, lotID)
	}

	if qty != nil {
		if *qty < 0 {
			return fmt.Errorf("%w: lot qty must not be negative", state.ErrInvalidArgument)
		}
		item.StockQty += *qty - lot.Qty
		lot.Qty = *qty
	}
	if costCents != nil {
		if *costCents < 0 {
			return fmt.Errorf("%w: lot cost must not be negative", state.ErrInvalidArgument)
		}
		lot.CostCents = *costCents
	}
	if status != nil {
		switch *status {
		case domain.LotStatusActive, domain.LotStatusExpired, domain.LotStatusDepleted:
			lot.Status = *status
		default:
			return fmt.Errorf("%w: unknown lot status %q", state.ErrInvalidArgument, *status)
		}
	}
	return nil
}

func RemoveLot(item *domain.CatalogItem, lotID string) error {
	for i := range item.Lots {
		if item.Lots[i].ID == lotID {
			item.StockQty -= item.Lots[i].Qty
			item.Lots = append(item.Lots[:i], item.Lots[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: lot %s", state.ErrNotFound, lotID)
}

// LotSum returns the sum of lot quantities, the other side of the
// item.StockQty == sum(lots) invariant.
func LotSum(item *domain.CatalogItem) int {
	total := 0
	for i := range item.Lots {
		total += item.Lots[i].Qty
	}
	return total
}

func lotByID(item *domain.CatalogItem, lotID string) *domain.Lot {
	for i := range item.Lots {
		if item.Lots[i].ID == lotID {
			return &item.Lots[i]
		}
	}
	return nil
}

// VariantByID resolves a variant inside a product. Variant stock is an
// independent counter scoped to the product; the parent StockQty is not
// derived from it.
func VariantByID(product *domain.Product, variantID string) *domain.Variant {
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}
