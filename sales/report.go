/*
report.go - Read-only aggregation over the sale ledger

PURPOSE:
  Derives period totals, employee leaderboards and itemized breakdowns
  from ledger records. Every report is a pure function of the records
  returned by one ReportStore snapshot: no caches, no incremental
  counters, so two calls with no intervening writes give identical
  results and every report reconciles with the ledger by construction.

NUMERIC SEMANTICS:
  All aggregation is decimal. Rounding to 2 decimal places happens only
  on presentation fields (AverageSale); intermediate sums are never
  rounded before further aggregation.

ORDERING:
  - EmployeePerformance: revenue desc, ties by employee id asc
  - TopSellers/TopCustomers: revenue desc, ties by id asc, truncated
  - PeriodDetail/History: timestamp desc (store order)
  All orderings are deterministic for reproducible reports.

SEE ALSO:
  - store.go: SaleRecord, the denormalized input row
  - ledger.go: Where the records come from
*/
package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/pos"
)

// DefaultTopLimit is the leaderboard size when the caller passes limit <= 0.
const DefaultTopLimit = 5

// =============================================================================
// REPORT ROWS
// =============================================================================

// EmployeePerformanceRow is one employee's activity in a period. The first
// row of EmployeePerformance is the premium candidate.
type EmployeePerformanceRow struct {
	EmployeeID   pos.EmployeeID
	EmployeeName string
	SaleCount    int
	Revenue      decimal.Decimal
	AverageSale  decimal.Decimal // rounded to 2 decimal places
}

// SellerRow is an all-time revenue leaderboard entry.
type SellerRow struct {
	EmployeeID   pos.EmployeeID
	EmployeeName string
	Revenue      decimal.Decimal
}

// CustomerRow is an all-time spending leaderboard entry.
type CustomerRow struct {
	CustomerID   pos.CustomerID
	CustomerName string
	AmountSpent  decimal.Decimal
}

// DetailRow is one sale in the period detail report. ItemSummary is a
// comma-joined "name x<qty>" rendering of the line items in insertion order.
type DetailRow struct {
	SaleID       pos.SaleID
	Timestamp    time.Time
	EmployeeName string
	CustomerName string
	Total        decimal.Decimal
	ItemSummary  string
}

// =============================================================================
// REPORTING ENGINE
// =============================================================================

// Reports computes aggregates over the sale ledger. All methods are
// read-only and safe to call concurrently with sales.
type Reports struct {
	store ReportStore
}

// NewReports creates a reporting engine over the given store.
func NewReports(store ReportStore) *Reports {
	return &Reports{store: store}
}

// PeriodTotal returns the sum of sale totals in the calendar month.
// A period with no sales yields zero, not an error.
func (r *Reports) PeriodTotal(ctx context.Context, period pos.Period) (decimal.Decimal, error) {
	records, err := r.store.SaleRecords(ctx, &period)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Sale.Total)
	}
	return total, nil
}

// EmployeePerformance returns one row per employee with at least one sale
// in the period, ordered by revenue descending (ties by employee id).
func (r *Reports) EmployeePerformance(ctx context.Context, period pos.Period) ([]EmployeePerformanceRow, error) {
	records, err := r.store.SaleRecords(ctx, &period)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[pos.EmployeeID]*EmployeePerformanceRow)
	for _, rec := range records {
		row, ok := byEmployee[rec.Sale.EmployeeID]
		if !ok {
			row = &EmployeePerformanceRow{
				EmployeeID:   rec.Sale.EmployeeID,
				EmployeeName: rec.EmployeeName,
				Revenue:      decimal.Zero,
			}
			byEmployee[rec.Sale.EmployeeID] = row
		}
		row.SaleCount++
		row.Revenue = row.Revenue.Add(rec.Sale.Total)
	}

	rows := make([]EmployeePerformanceRow, 0, len(byEmployee))
	for _, row := range byEmployee {
		row.AverageSale = row.Revenue.Div(decimal.NewFromInt(int64(row.SaleCount))).Round(2)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Revenue.Equal(rows[j].Revenue) {
			return rows[i].Revenue.GreaterThan(rows[j].Revenue)
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows, nil
}

// BestEmployee returns the top performer for the period, if any. This is
// the headline of the premium report.
func (r *Reports) BestEmployee(ctx context.Context, period pos.Period) (EmployeePerformanceRow, bool, error) {
	rows, err := r.EmployeePerformance(ctx, period)
	if err != nil || len(rows) == 0 {
		return EmployeePerformanceRow{}, false, err
	}
	return rows[0], true, nil
}

// TopSellers returns employees ranked by all-time revenue, truncated to
// limit (DefaultTopLimit when limit <= 0).
func (r *Reports) TopSellers(ctx context.Context, limit int) ([]SellerRow, error) {
	records, err := r.store.SaleRecords(ctx, nil)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[pos.EmployeeID]*SellerRow)
	for _, rec := range records {
		row, ok := byEmployee[rec.Sale.EmployeeID]
		if !ok {
			row = &SellerRow{
				EmployeeID:   rec.Sale.EmployeeID,
				EmployeeName: rec.EmployeeName,
				Revenue:      decimal.Zero,
			}
			byEmployee[rec.Sale.EmployeeID] = row
		}
		row.Revenue = row.Revenue.Add(rec.Sale.Total)
	}

	rows := make([]SellerRow, 0, len(byEmployee))
	for _, row := range byEmployee {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Revenue.Equal(rows[j].Revenue) {
			return rows[i].Revenue.GreaterThan(rows[j].Revenue)
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// TopCustomers returns customers ranked by all-time spending, truncated to
// limit (DefaultTopLimit when limit <= 0).
func (r *Reports) TopCustomers(ctx context.Context, limit int) ([]CustomerRow, error) {
	records, err := r.store.SaleRecords(ctx, nil)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[pos.CustomerID]*CustomerRow)
	for _, rec := range records {
		row, ok := byCustomer[rec.Sale.CustomerID]
		if !ok {
			row = &CustomerRow{
				CustomerID:   rec.Sale.CustomerID,
				CustomerName: rec.CustomerName,
				AmountSpent:  decimal.Zero,
			}
			byCustomer[rec.Sale.CustomerID] = row
		}
		row.AmountSpent = row.AmountSpent.Add(rec.Sale.Total)
	}

	rows := make([]CustomerRow, 0, len(byCustomer))
	for _, row := range byCustomer {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].AmountSpent.Equal(rows[j].AmountSpent) {
			return rows[i].AmountSpent.GreaterThan(rows[j].AmountSpent)
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// PeriodDetail returns one row per sale in the period, newest first, with
// an itemized summary of the line items.
func (r *Reports) PeriodDetail(ctx context.Context, period pos.Period) ([]DetailRow, error) {
	records, err := r.store.SaleRecords(ctx, &period)
	if err != nil {
		return nil, err
	}

	rows := make([]DetailRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, DetailRow{
			SaleID:       rec.Sale.ID,
			Timestamp:    rec.Sale.Timestamp,
			EmployeeName: rec.EmployeeName,
			CustomerName: rec.CustomerName,
			Total:        rec.Sale.Total,
			ItemSummary:  itemSummary(rec.Items),
		})
	}
	return rows, nil
}

// History returns every sale on record, newest first. This backs the
// sales-history view.
func (r *Reports) History(ctx context.Context) ([]DetailRow, error) {
	records, err := r.store.SaleRecords(ctx, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]DetailRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, DetailRow{
			SaleID:       rec.Sale.ID,
			Timestamp:    rec.Sale.Timestamp,
			EmployeeName: rec.EmployeeName,
			CustomerName: rec.CustomerName,
			Total:        rec.Sale.Total,
			ItemSummary:  itemSummary(rec.Items),
		})
	}
	return rows, nil
}

// SaleYears returns the distinct years that have sales, newest first.
// Report pickers use this to offer only meaningful periods.
func (r *Reports) SaleYears(ctx context.Context) ([]int, error) {
	records, err := r.store.SaleRecords(ctx, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var years []int
	for _, rec := range records {
		y := rec.Sale.Timestamp.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func itemSummary(items []ItemRecord) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
	}
	return strings.Join(parts, ", ")
}
