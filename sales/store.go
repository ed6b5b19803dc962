/*
store.go - Persistence interfaces consumed by the sale ledger

PURPOSE:
  Defines the interface between the domain logic and the database.
  The ledger only ever talks to these interfaces; the concrete SQLite
  implementation lives in store/sqlite.

KEY INTERFACES:
  Store:       Catalog/registry lookups plus the ledger write primitives
  TxStore:     Store with transaction support (atomic multi-table writes)
  ReportStore: Denormalized read queries for the reporting engine

APPEND-ONLY CONTRACT:
  Sales and sale items are written exactly once via AppendSale. There are
  no update or delete methods for ledger records. Stock is the only
  mutable field, changed through AdjustStock.

ATOMICITY:
  ExecuteSale runs its check-and-decrement inside WithTx: the stock read,
  the sale/item insert and the stock decrement either all commit or all
  roll back. AdjustStock additionally guards against driving stock
  negative at the SQL level, so a concurrent writer interleaving between
  check and decrement cannot produce a lost update.

SEE ALSO:
  - ledger.go: The operations built on these interfaces
  - report.go: The reporting engine built on ReportStore
  - store/sqlite/sqlite.go: Concrete implementation
*/
package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/pos"
)

// =============================================================================
// STORE - Lookups and ledger writes
// =============================================================================

// Store is the persistence surface the ledger operates on. Lookup methods
// fail with the pos.Err*NotFound sentinels when the id does not exist.
type Store interface {
	// GetProduct returns a product with its current stock count.
	GetProduct(ctx context.Context, id pos.ProductID) (pos.Product, error)

	// GetCustomer and GetEmployee resolve party references.
	GetCustomer(ctx context.Context, id pos.CustomerID) (pos.Customer, error)
	GetEmployee(ctx context.Context, id pos.EmployeeID) (pos.Employee, error)

	// AdjustStock changes a product's stock by delta (negative for sales).
	// Fails with InsufficientStockError if the result would be negative,
	// without mutating anything.
	AdjustStock(ctx context.Context, id pos.ProductID, delta int) error

	// AppendSale writes one sale and its items, returning the assigned id.
	// This is the ONLY ledger write; sales are never updated or deleted.
	AppendSale(ctx context.Context, sale pos.Sale, items []pos.SaleItem) (pos.SaleID, error)

	// GetSale reads one sale and its items in insertion order.
	GetSale(ctx context.Context, id pos.SaleID) (pos.Sale, []pos.SaleItem, error)
}

// TxStore wraps Store with transaction support.
// ExecuteSale and Restock require this.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// REPORT STORE - Denormalized reads for the reporting engine
// =============================================================================

// SaleRecord is a denormalized ledger row: one sale joined with its party
// names and line items. This is what every report is derived from.
type SaleRecord struct {
	Sale         pos.Sale
	CustomerName string
	EmployeeName string
	Items        []ItemRecord // insertion order
}

// ItemRecord is a sale line joined with its product name. UnitPrice is the
// snapshot recorded at sale time, not the current catalog price.
type ItemRecord struct {
	ProductID   pos.ProductID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal returns quantity x snapshot unit price.
func (i ItemRecord) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ReportStore serves the reporting engine. Implementations must read each
// call from a single consistent snapshot so a report never observes a
// half-applied sale.
type ReportStore interface {
	// SaleRecords returns denormalized sales ordered by timestamp
	// descending. A nil period means all time.
	SaleRecords(ctx context.Context, period *pos.Period) ([]SaleRecord, error)
}
