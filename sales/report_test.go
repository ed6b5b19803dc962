package sales_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/backoffice/pos"
	"github.com/warp/backoffice/sales"
	"github.com/warp/backoffice/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// reportFixture drives real sales through the ledger with a pinned clock
// and zero discount, so a sale's total equals its product price exactly.
type reportFixture struct {
	t       *testing.T
	store   *sqlite.Store
	ledger  *sales.Ledger
	reports *sales.Reports
	nextID  int64
}

func newReportFixture(t *testing.T) *reportFixture {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCategory(ctx, &pos.Category{ID: 1, Name: "General"}))
	for i := int64(1); i <= 6; i++ {
		require.NoError(t, store.SaveCustomer(ctx, &pos.Customer{
			ID: pos.CustomerID(i), Name: fmt.Sprintf("Customer %d", i), Phone: fmt.Sprintf("555-01%02d", i),
		}))
		require.NoError(t, store.SaveEmployee(ctx, &pos.Employee{
			ID: pos.EmployeeID(i), Name: fmt.Sprintf("Employee %d", i), Role: "cashier",
		}))
	}

	return &reportFixture{
		t:       t,
		store:   store,
		ledger:  sales.NewLedger(store, pos.Config{DiscountRate: decimal.Zero}),
		reports: sales.NewReports(store),
		nextID:  100,
	}
}

// sell records one sale of the given amount at the given instant.
func (f *reportFixture) sell(at time.Time, amount string, customerID pos.CustomerID, employeeID pos.EmployeeID) {
	ctx := context.Background()
	f.nextID++
	id := pos.ProductID(f.nextID)
	require.NoError(f.t, f.store.SaveProduct(ctx, &pos.Product{
		ID: id, Name: fmt.Sprintf("Item %d", f.nextID), Price: d(amount), Stock: 1, CategoryID: 1,
	}))
	f.ledger.WithClock(func() time.Time { return at })
	_, err := f.ledger.ExecuteSale(ctx, id, 1, customerID, employeeID)
	require.NoError(f.t, err)
}

func march(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func march2024() pos.Period {
	p, _ := pos.NewPeriod(2024, 3)
	return p
}

// =============================================================================
// PERIOD TOTAL TESTS
// =============================================================================

func TestPeriodTotal_EmptyPeriod_Zero(t *testing.T) {
	// GIVEN: No sales at all
	// THEN: The period total is zero, not an error

	f := newReportFixture(t)

	total, err := f.reports.PeriodTotal(context.Background(), march2024())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestPeriodTotal_SumsOnlyThatMonth(t *testing.T) {
	// GIVEN: Two sales in March and one in April
	// THEN: The March total covers only the March sales

	f := newReportFixture(t)
	f.sell(march(10, 9), "50.00", 1, 1)
	f.sell(march(20, 15), "150.00", 1, 1)
	f.sell(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "999.00", 1, 1)

	total, err := f.reports.PeriodTotal(context.Background(), march2024())
	require.NoError(t, err)
	assert.True(t, total.Equal(d("200.00")), "got %s", total)
}

func TestPeriodTotal_BoundaryInstants(t *testing.T) {
	// GIVEN: Sales at the first instant of March and the first instant of April
	// THEN: March includes the former and excludes the latter

	f := newReportFixture(t)
	f.sell(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "10.00", 1, 1)
	f.sell(time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), "20.00", 1, 1)
	f.sell(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "40.00", 1, 1)

	total, err := f.reports.PeriodTotal(context.Background(), march2024())
	require.NoError(t, err)
	assert.True(t, total.Equal(d("30.00")), "got %s", total)
}

// =============================================================================
// EMPLOYEE PERFORMANCE TESTS
// =============================================================================

func TestEmployeePerformance_GroupsAndAverages(t *testing.T) {
	// GIVEN: Employee 1 sells 50.00 and 150.00 in March 2024
	// THEN: One row with saleCount 2, revenue 200.00, average 100.00

	f := newReportFixture(t)
	f.sell(march(5, 10), "50.00", 1, 1)
	f.sell(march(15, 11), "150.00", 2, 1)

	rows, err := f.reports.EmployeePerformance(context.Background(), march2024())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, pos.EmployeeID(1), row.EmployeeID)
	assert.Equal(t, "Employee 1", row.EmployeeName)
	assert.Equal(t, 2, row.SaleCount)
	assert.True(t, row.Revenue.Equal(d("200.00")), "revenue %s", row.Revenue)
	assert.True(t, row.AverageSale.Equal(d("100.00")), "average %s", row.AverageSale)
}

func TestEmployeePerformance_OrderedByRevenue_TiesById(t *testing.T) {
	// GIVEN: Employee 2 and 3 tied at 300.00, employee 1 at 100.00
	// THEN: Rows come back as 2, 3, 1

	f := newReportFixture(t)
	f.sell(march(1, 9), "100.00", 1, 1)
	f.sell(march(2, 9), "300.00", 1, 3)
	f.sell(march(3, 9), "300.00", 1, 2)

	rows, err := f.reports.EmployeePerformance(context.Background(), march2024())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, pos.EmployeeID(2), rows[0].EmployeeID)
	assert.Equal(t, pos.EmployeeID(3), rows[1].EmployeeID)
	assert.Equal(t, pos.EmployeeID(1), rows[2].EmployeeID)
}

func TestEmployeePerformance_AverageRoundedToCents(t *testing.T) {
	// GIVEN: Sales of 10.00 and 10.01 (sum 20.01, half is 10.005)
	// THEN: The average is rounded to 10.01, the revenue stays exact

	f := newReportFixture(t)
	f.sell(march(1, 9), "10.00", 1, 1)
	f.sell(march(2, 9), "10.01", 1, 1)

	rows, err := f.reports.EmployeePerformance(context.Background(), march2024())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Revenue.Equal(d("20.01")))
	assert.True(t, rows[0].AverageSale.Equal(d("10.01")), "average %s", rows[0].AverageSale)
}

func TestBestEmployee_PicksTopRow(t *testing.T) {
	f := newReportFixture(t)
	f.sell(march(1, 9), "100.00", 1, 1)
	f.sell(march(2, 9), "300.00", 1, 2)

	best, ok, err := f.reports.BestEmployee(context.Background(), march2024())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pos.EmployeeID(2), best.EmployeeID)
	assert.True(t, best.Revenue.Equal(d("300.00")))
}

func TestBestEmployee_EmptyPeriod_NotFound(t *testing.T) {
	f := newReportFixture(t)

	_, ok, err := f.reports.BestEmployee(context.Background(), march2024())
	require.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// LEADERBOARD TESTS
// =============================================================================

func TestTopSellers_RanksAllTimeRevenue(t *testing.T) {
	// GIVEN: Sales across two different months
	// THEN: TopSellers aggregates across all time

	f := newReportFixture(t)
	f.sell(march(1, 9), "100.00", 1, 1)
	f.sell(time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC), "250.00", 1, 2)
	f.sell(march(2, 9), "50.00", 1, 3)

	rows, err := f.reports.TopSellers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, pos.EmployeeID(2), rows[0].EmployeeID)
	assert.Equal(t, pos.EmployeeID(1), rows[1].EmployeeID)
	assert.Equal(t, pos.EmployeeID(3), rows[2].EmployeeID)
}

func TestTopSellers_Truncated(t *testing.T) {
	f := newReportFixture(t)
	f.sell(march(1, 9), "300.00", 1, 1)
	f.sell(march(2, 9), "200.00", 1, 2)
	f.sell(march(3, 9), "100.00", 1, 3)

	rows, err := f.reports.TopSellers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, pos.EmployeeID(1), rows[0].EmployeeID)
	assert.Equal(t, pos.EmployeeID(2), rows[1].EmployeeID)
}

func TestTopCustomers_DefaultLimitIsFive(t *testing.T) {
	// GIVEN: Six customers with distinct spending
	// WHEN: Asking with limit 0
	// THEN: Five rows, the smallest spender dropped

	f := newReportFixture(t)
	for i := int64(1); i <= 6; i++ {
		f.sell(march(int(i), 9), fmt.Sprintf("%d.00", i*10), pos.CustomerID(i), 1)
	}

	rows, err := f.reports.TopCustomers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, sales.DefaultTopLimit)
	assert.Equal(t, pos.CustomerID(6), rows[0].CustomerID)
	for _, row := range rows {
		assert.NotEqual(t, pos.CustomerID(1), row.CustomerID, "smallest spender should be truncated")
	}
}

func TestTopCustomers_TiesBrokenById(t *testing.T) {
	f := newReportFixture(t)
	f.sell(march(1, 9), "100.00", 2, 1)
	f.sell(march(2, 9), "100.00", 1, 1)

	rows, err := f.reports.TopCustomers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, pos.CustomerID(1), rows[0].CustomerID)
	assert.Equal(t, pos.CustomerID(2), rows[1].CustomerID)
}

// =============================================================================
// DETAIL AND HISTORY TESTS
// =============================================================================

func TestPeriodDetail_NewestFirstWithItemSummary(t *testing.T) {
	f := newReportFixture(t)
	f.sell(march(5, 9), "50.00", 1, 1)
	f.sell(march(20, 9), "150.00", 2, 2)

	rows, err := f.reports.PeriodDetail(context.Background(), march2024())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Customer 2", rows[0].CustomerName)
	assert.Equal(t, "Employee 2", rows[0].EmployeeName)
	assert.True(t, rows[0].Timestamp.After(rows[1].Timestamp), "newest first")
	assert.Contains(t, rows[0].ItemSummary, "x1")
	assert.Contains(t, rows[1].ItemSummary, "Item")
}

func TestHistory_CoversAllPeriods(t *testing.T) {
	f := newReportFixture(t)
	f.sell(time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC), "10.00", 1, 1)
	f.sell(march(1, 9), "20.00", 1, 1)

	rows, err := f.reports.History(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Total.Equal(d("20.00")), "newest first")
}

func TestSaleYears_DistinctNewestFirst(t *testing.T) {
	f := newReportFixture(t)
	f.sell(time.Date(2023, time.June, 1, 9, 0, 0, 0, time.UTC), "10.00", 1, 1)
	f.sell(time.Date(2023, time.July, 1, 9, 0, 0, 0, time.UTC), "10.00", 1, 1)
	f.sell(march(1, 9), "10.00", 1, 1)

	years, err := f.reports.SaleYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023}, years)
}

func TestSaleYears_Empty(t *testing.T) {
	f := newReportFixture(t)

	years, err := f.reports.SaleYears(context.Background())
	require.NoError(t, err)
	assert.Empty(t, years)
}

// =============================================================================
// RECONCILIATION TESTS
// =============================================================================

func TestReports_ReconcileWithLedger(t *testing.T) {
	// GIVEN: A handful of sales in one period
	// THEN: PeriodTotal == sum of performance revenues == sum of detail totals

	f := newReportFixture(t)
	f.sell(march(1, 9), "19.99", 1, 1)
	f.sell(march(2, 9), "35.50", 2, 2)
	f.sell(march(3, 9), "7.25", 3, 1)
	ctx := context.Background()

	total, err := f.reports.PeriodTotal(ctx, march2024())
	require.NoError(t, err)

	perf, err := f.reports.EmployeePerformance(ctx, march2024())
	require.NoError(t, err)
	perfSum := decimal.Zero
	for _, row := range perf {
		perfSum = perfSum.Add(row.Revenue)
	}

	detail, err := f.reports.PeriodDetail(ctx, march2024())
	require.NoError(t, err)
	detailSum := decimal.Zero
	for _, row := range detail {
		detailSum = detailSum.Add(row.Total)
	}

	assert.True(t, total.Equal(perfSum), "total %s vs performance %s", total, perfSum)
	assert.True(t, total.Equal(detailSum), "total %s vs detail %s", total, detailSum)
	assert.True(t, total.Equal(d("62.74")))
}

func TestReports_RepeatedReadsIdentical(t *testing.T) {
	// GIVEN: No writes between two report calls
	// THEN: Both calls return identical rows

	f := newReportFixture(t)
	f.sell(march(1, 9), "100.00", 1, 1)
	f.sell(march(2, 9), "100.00", 2, 2)
	ctx := context.Background()

	first, err := f.reports.EmployeePerformance(ctx, march2024())
	require.NoError(t, err)
	second, err := f.reports.EmployeePerformance(ctx, march2024())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
