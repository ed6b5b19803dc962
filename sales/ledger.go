/*
ledger.go - The sale transaction ledger

PURPOSE:
  The Ledger owns the atomic "execute sale" state transition: validate the
  request against current stock, freeze the unit price, append the sale
  and its line item, and decrement stock - all inside one transaction.
  Reports are always derived by reading the resulting records back; there
  is no separately maintained revenue counter that can drift.

CRITICAL INVARIANTS:
  1. Stock never goes negative; a short sale is rejected before mutation
  2. Sale.Total = sum(qty x snapshot price) x (1 - discount), computed once
  3. Sales and items are append-only: no update, no delete
  4. A failed ExecuteSale leaves no partial writes behind

CONCURRENCY:
  ExecuteSale and Restock each run as a single transaction via
  TxStore.WithTx. The stock decrement is additionally guarded at the SQL
  level (stock >= quantity in the UPDATE predicate), so the classic
  check-then-decrement lost update cannot happen even if a writer slips
  between the read and the write. Transient conflicts (SQLITE_BUSY) are
  retried a bounded number of times before surfacing pos.ErrConflict.

SEE ALSO:
  - store.go: The interfaces this builds on
  - report.go: Read-only aggregation over the records written here
*/
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/pos"
)

// maxRetries bounds the internal retry loop on transient conflicts.
const maxRetries = 3

// =============================================================================
// LEDGER
// =============================================================================

// Ledger executes sales and restocks against a transactional store.
type Ledger struct {
	store TxStore
	cfg   pos.Config
	now   func() time.Time
}

// NewLedger creates a ledger with the given store and configuration.
// The discount rate comes from cfg; there is no global discount state.
func NewLedger(store TxStore, cfg pos.Config) *Ledger {
	return &Ledger{
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// WithClock overrides the ledger clock. Tests use this to pin timestamps.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Config returns the ledger configuration (used by receipt rendering).
func (l *Ledger) Config() pos.Config {
	return l.cfg
}

// ExecuteSale performs one sale as an atomic unit: stock check, sale row,
// item row with snapshot price, stock decrement. On any failure nothing is
// written and stock is unchanged.
func (l *Ledger) ExecuteSale(ctx context.Context, productID pos.ProductID, quantity int, customerID pos.CustomerID, employeeID pos.EmployeeID) (pos.SaleID, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive, got %d", pos.ErrInvalidQuantity, quantity)
	}

	var saleID pos.SaleID
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = l.store.WithTx(ctx, func(tx Store) error {
			// Resolve references inside the transaction so the stock
			// snapshot and the ledger writes see the same state.
			if _, err := tx.GetCustomer(ctx, customerID); err != nil {
				return err
			}
			if _, err := tx.GetEmployee(ctx, employeeID); err != nil {
				return err
			}
			product, err := tx.GetProduct(ctx, productID)
			if err != nil {
				return err
			}

			if product.Stock < quantity {
				return &pos.InsufficientStockError{
					ProductID: productID,
					Requested: quantity,
					Available: product.Stock,
				}
			}

			total := product.Price.
				Mul(decimal.NewFromInt(int64(quantity))).
				Mul(decimal.NewFromInt(1).Sub(l.cfg.DiscountRate))

			sale := pos.Sale{
				Timestamp:  l.now(),
				CustomerID: customerID,
				EmployeeID: employeeID,
				Total:      total,
			}
			item := pos.SaleItem{
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: product.Price, // snapshot, frozen from here on
			}

			saleID, err = tx.AppendSale(ctx, sale, []pos.SaleItem{item})
			if err != nil {
				return err
			}
			return tx.AdjustStock(ctx, productID, -quantity)
		})

		if pos.IsRetryable(lastErr) {
			continue
		}
		if lastErr != nil {
			return 0, lastErr
		}
		return saleID, nil
	}

	return 0, fmt.Errorf("sale aborted after %d attempts: %w", maxRetries, lastErr)
}

// Restock increases a product's stock by quantity. No ledger records are
// written; the mutation is atomic with respect to concurrent stock reads.
func (l *Ledger) Restock(ctx context.Context, productID pos.ProductID, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: restock quantity must be non-negative, got %d", pos.ErrInvalidQuantity, quantity)
	}
	if quantity == 0 {
		// Still validate the reference so callers learn about bad ids.
		_, err := l.store.GetProduct(ctx, productID)
		return err
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = l.store.WithTx(ctx, func(tx Store) error {
			if _, err := tx.GetProduct(ctx, productID); err != nil {
				return err
			}
			return tx.AdjustStock(ctx, productID, quantity)
		})
		if pos.IsRetryable(lastErr) {
			continue
		}
		return lastErr
	}
	return fmt.Errorf("restock aborted after %d attempts: %w", maxRetries, lastErr)
}

// GetSale reads one completed sale and its items.
func (l *Ledger) GetSale(ctx context.Context, id pos.SaleID) (pos.Sale, []pos.SaleItem, error) {
	return l.store.GetSale(ctx, id)
}
