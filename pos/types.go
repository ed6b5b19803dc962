/*
Package pos provides the core domain types for the back office.

PURPOSE:
  This package contains the entities shared by the sale ledger, the
  reporting engine and the persistence layer: products, customers,
  employees, sales and sale items, plus the period type used to filter
  reports.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers: ProductID, CustomerID, EmployeeID, SaleID
  - Product/Customer/Employee: reference data owned by catalog/registry
  - Sale/SaleItem: the append-only ledger records

DESIGN PRINCIPLES:
  1. Immutability: Sales and sale items are never modified once written
  2. Precision: Uses decimal.Decimal for all money, never float64
  3. Type Safety: Strong typing for IDs prevents mixing product/sale IDs
  4. Snapshots: SaleItem.UnitPrice is frozen at the moment of sale

SEE ALSO:
  - errors.go: Error taxonomy for the domain
  - period.go: Calendar-month reporting windows
  - sales/ledger.go: The operations that create these records
*/
package pos

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// Identifiers are integers assigned by the store (monotonic for sales).
// They are never derived by parsing display strings.
type (
	ProductID  int64
	CategoryID int64
	CustomerID int64
	EmployeeID int64
	SaleID     int64
	SaleItemID int64
)

// =============================================================================
// CATALOG - Products and categories (owned by the catalog store)
// =============================================================================

type Category struct {
	ID   CategoryID
	Name string
}

// Product is a catalog entry. Stock is the only contended field: it is
// mutated exclusively by ExecuteSale (decrement) and Restock (increment).
type Product struct {
	ID         ProductID
	Name       string
	Price      decimal.Decimal
	Stock      int
	CategoryID CategoryID
}

// =============================================================================
// PARTIES - Customers and employees (owned by the party registry)
// =============================================================================

// Customer has a unique phone number. Immutable after creation.
type Customer struct {
	ID    CustomerID
	Name  string
	Phone string
}

type Employee struct {
	ID   EmployeeID
	Name string
	Role string
}

// =============================================================================
// LEDGER RECORDS - Sales and their line items (append-only)
// =============================================================================

// Sale is one completed checkout. Total has the discount already applied
// and is computed exactly once at creation; it is never recomputed from
// current catalog prices.
type Sale struct {
	ID         SaleID
	Timestamp  time.Time
	CustomerID CustomerID
	EmployeeID EmployeeID
	Total      decimal.Decimal
}

// SaleItem is one line of a sale. UnitPrice is a snapshot of the product
// price at the time of sale; later catalog price changes do not affect it.
type SaleItem struct {
	ID        SaleItemID
	SaleID    SaleID
	ProductID ProductID
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal returns quantity x snapshot unit price, before discount.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
