package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/backoffice/importer"
	"github.com/warp/backoffice/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// =============================================================================
// IMPORT TESTS
// =============================================================================

func TestLoadDir_FullCatalog(t *testing.T) {
	// GIVEN: A directory with all four CSV files
	// WHEN: Importing
	// THEN: Every row lands in the store with its explicit id

	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "categories.csv", "id,name\n1,Beverages\n2,Hardware\n")
	writeFile(t, dir, "products.csv", "id,name,price,stock,category_id\n1,Espresso Machine,100.00,10,2\n2,Coffee Beans,12.50,40,1\n")
	writeFile(t, dir, "customers.csv", "id,name,phone\n1,Alice,555-0001\n")
	writeFile(t, dir, "employees.csv", "id,name,role\n1,Bob,cashier\n2,Carol,manager\n")

	sum, err := importer.NewLoader(store).LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{Categories: 2, Products: 2, Customers: 1, Employees: 2}, sum)

	ctx := context.Background()
	product, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Espresso Machine", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 10, product.Stock)

	customer, err := store.GetCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "555-0001", customer.Phone)

	employee, err := store.GetEmployee(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "manager", employee.Role)
}

func TestLoadDir_MissingFilesSkipped(t *testing.T) {
	// GIVEN: A directory with only employees.csv
	// THEN: The other files are skipped silently

	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "employees.csv", "id,name,role\n1,Bob,cashier\n")

	sum, err := importer.NewLoader(store).LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{Employees: 1}, sum)
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	store := newStore(t)

	sum, err := importer.NewLoader(store).LoadDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{}, sum)
}

func TestLoadDir_DuplicatePhoneRowsSkipped(t *testing.T) {
	// GIVEN: Two customer rows sharing a phone number
	// THEN: The first wins, the second is counted as skipped

	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", "id,name,phone\n1,Alice,555-0001\n2,Mallory,555-0001\n")

	sum, err := importer.NewLoader(store).LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Customers)
	assert.Equal(t, 1, sum.Skipped)

	customers, err := store.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Alice", customers[0].Name)
}

func TestLoadDir_MalformedRowAborts(t *testing.T) {
	// GIVEN: A product row with an unparseable price
	// THEN: The import fails and names the file and line

	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "products.csv", "id,name,price,stock,category_id\n1,Widget,not-a-price,10,1\n")

	_, err := importer.NewLoader(store).LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "products.csv line 2")
	assert.Contains(t, err.Error(), "bad price")
}

func TestLoadDir_NegativeStockRejected(t *testing.T) {
	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "products.csv", "id,name,price,stock,category_id\n1,Widget,5.00,-3,1\n")

	_, err := importer.NewLoader(store).LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative stock")
}

func TestLoadDir_ReimportUpserts(t *testing.T) {
	// GIVEN: The same product file imported twice with a price change
	// THEN: The second import updates in place, no duplicates

	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "categories.csv", "id,name\n1,General\n")
	writeFile(t, dir, "products.csv", "id,name,price,stock,category_id\n1,Widget,5.00,10,1\n")

	loader := importer.NewLoader(store)
	_, err := loader.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	writeFile(t, dir, "products.csv", "id,name,price,stock,category_id\n1,Widget,6.00,12,1\n")
	_, err = loader.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("6.00")))
	assert.Equal(t, 12, products[0].Stock)
}
