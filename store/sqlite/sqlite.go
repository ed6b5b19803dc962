/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements all persistence interfaces (sales.TxStore, sales.ReportStore)
  plus the catalog and party registry operations using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

APPEND-ONLY ENFORCEMENT:
  The Store enforces append-only semantics on the ledger:
  - No UPDATE statements on sales or sale_items
  - No DELETE statements on sales or sale_items
  The only mutable field anywhere is products.stock, changed exclusively
  through AdjustStock.

KEY TABLES:
  products:   Catalog with current stock (stock CHECK >= 0)
  customers:  Party registry, phone UNIQUE
  employees:  Party registry
  sales:      Immutable ledger of completed sales
  sale_items: Immutable line items with snapshot unit prices
  admins:     Credentials gating the restock operation

TIMESTAMPS:
  sales.datetime is stored as "2006-01-02 15:04:05", which sorts
  lexicographically, so period filters are plain string range scans.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; WithTx holds the write lock for
  the whole check-and-decrement, and AdjustStock additionally guards the
  decrement in the UPDATE predicate. SQLite is opened with WAL mode so
  readers don't block behind the single writer.

USAGE:
  store, err := sqlite.New("./data/backoffice.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := sales.NewLedger(store, pos.DefaultConfig())

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - sales/store.go: Interface definitions
  - sales/ledger.go: Higher-level ledger using this store
*/
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/pos"
	"github.com/warp/backoffice/sales"
)

// timeFormat is sortable: lexicographic order equals chronological order.
const timeFormat = "2006-01-02 15:04:05"

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pool connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.seedAdmin(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		category_id INTEGER,
		FOREIGN KEY(category_id) REFERENCES categories(id)
	);

	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT ''
	);

	-- Sales (append-only ledger)
	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		datetime TEXT NOT NULL,
		customer_id INTEGER NOT NULL,
		employee_id INTEGER NOT NULL,
		total_amount TEXT NOT NULL,
		FOREIGN KEY(customer_id) REFERENCES customers(id),
		FOREIGN KEY(employee_id) REFERENCES employees(id)
	);

	CREATE INDEX IF NOT EXISTS idx_sales_datetime ON sales(datetime);
	CREATE INDEX IF NOT EXISTS idx_sales_employee ON sales(employee_id);
	CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_id);

	CREATE TABLE IF NOT EXISTS sale_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price TEXT NOT NULL,
		FOREIGN KEY(sale_id) REFERENCES sales(id),
		FOREIGN KEY(product_id) REFERENCES products(id)
	);

	CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);

	CREATE TABLE IF NOT EXISTS admins (
		id INTEGER PRIMARY KEY,
		login TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// seedAdmin creates the default admin account on first open.
func (s *Store) seedAdmin(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (login, password_hash) VALUES (?, ?)",
		"admin", hashPassword("admin123"),
	)
	return err
}

// =============================================================================
// CATALOG STORE
// =============================================================================

// SaveCategory inserts or updates a category. With a zero ID the store
// assigns one and writes it back.
func (s *Store) SaveCategory(ctx context.Context, c *pos.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		res, err := s.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", c.Name)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = pos.CategoryID(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, c.ID, c.Name)
	return err
}

// ListCategories returns all categories ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]pos.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []pos.Category
	for rows.Next() {
		var c pos.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SaveProduct inserts or updates a product. With a zero ID the store
// assigns one and writes it back.
func (s *Store) SaveProduct(ctx context.Context, p *pos.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var categoryID any
	if p.CategoryID != 0 {
		categoryID = int64(p.CategoryID)
	}

	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO products (name, price, stock, category_id) VALUES (?, ?, ?, ?)",
			p.Name, p.Price.String(), p.Stock, categoryID)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = pos.ProductID(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, stock, category_id) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			stock = excluded.stock,
			category_id = excluded.category_id
	`, p.ID, p.Name, p.Price.String(), p.Stock, categoryID)
	return err
}

// GetProduct returns a product by id.
func (s *Store) GetProduct(ctx context.Context, id pos.ProductID) (pos.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getProduct(ctx, s.db, id)
}

func getProduct(ctx context.Context, db dbtx, id pos.ProductID) (pos.Product, error) {
	var (
		p          pos.Product
		price      string
		categoryID sql.NullInt64
	)
	err := db.QueryRowContext(ctx,
		"SELECT id, name, price, stock, category_id FROM products WHERE id = ?", id,
	).Scan(&p.ID, &p.Name, &price, &p.Stock, &categoryID)
	if err == sql.ErrNoRows {
		return pos.Product{}, pos.ErrProductNotFound
	}
	if err != nil {
		return pos.Product{}, err
	}
	p.Price = parseDecimal(price)
	p.CategoryID = pos.CategoryID(categoryID.Int64)
	return p, nil
}

// ListProducts returns all products ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]pos.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryProducts(ctx, s.db, "SELECT id, name, price, stock, category_id FROM products ORDER BY id")
}

// LowStock returns products whose stock is below the threshold, lowest
// first. The restock screen uses this to flag what needs ordering.
func (s *Store) LowStock(ctx context.Context, threshold int) ([]pos.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryProducts(ctx, s.db,
		"SELECT id, name, price, stock, category_id FROM products WHERE stock < ? ORDER BY stock, id",
		threshold)
}

func queryProducts(ctx context.Context, db dbtx, query string, args ...any) ([]pos.Product, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []pos.Product
	for rows.Next() {
		var (
			p          pos.Product
			price      string
			categoryID sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Stock, &categoryID); err != nil {
			return nil, err
		}
		p.Price = parseDecimal(price)
		p.CategoryID = pos.CategoryID(categoryID.Int64)
		products = append(products, p)
	}
	return products, rows.Err()
}

// AdjustStock changes a product's stock by delta. The predicate keeps the
// result non-negative so a concurrent writer cannot cause a lost update
// that drives stock below zero.
func (s *Store) AdjustStock(ctx context.Context, id pos.ProductID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return adjustStock(ctx, s.db, id, delta)
}

func adjustStock(ctx context.Context, db dbtx, id pos.ProductID, delta int) error {
	res, err := db.ExecContext(ctx,
		"UPDATE products SET stock = stock + ? WHERE id = ? AND stock + ? >= 0",
		delta, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// Distinguish a missing product from a short stock.
	p, err := getProduct(ctx, db, id)
	if err != nil {
		return err
	}
	return &pos.InsufficientStockError{
		ProductID: id,
		Requested: -delta,
		Available: p.Stock,
	}
}

// =============================================================================
// PARTY REGISTRY
// =============================================================================

// AddCustomer inserts a new customer, assigning the id. A duplicate phone
// number fails with pos.ErrDuplicatePhone.
func (s *Store) AddCustomer(ctx context.Context, c *pos.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO customers (name, phone) VALUES (?, ?)", c.Name, c.Phone)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", pos.ErrDuplicatePhone, c.Phone)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = pos.CustomerID(id)
	return nil
}

// SaveCustomer inserts or updates a customer with an explicit id (bulk
// import path). A duplicate phone number fails with pos.ErrDuplicatePhone.
func (s *Store) SaveCustomer(ctx context.Context, c *pos.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone
	`, c.ID, c.Name, c.Phone)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", pos.ErrDuplicatePhone, c.Phone)
	}
	return err
}

// GetCustomer returns a customer by id.
func (s *Store) GetCustomer(ctx context.Context, id pos.CustomerID) (pos.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getCustomer(ctx, s.db, id)
}

func getCustomer(ctx context.Context, db dbtx, id pos.CustomerID) (pos.Customer, error) {
	var c pos.Customer
	err := db.QueryRowContext(ctx,
		"SELECT id, name, phone FROM customers WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Phone)
	if err == sql.ErrNoRows {
		return pos.Customer{}, pos.ErrCustomerNotFound
	}
	if err != nil {
		return pos.Customer{}, err
	}
	return c, nil
}

// ListCustomers returns all customers ordered by id.
func (s *Store) ListCustomers(ctx context.Context) ([]pos.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, phone FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []pos.Customer
	for rows.Next() {
		var c pos.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// SaveEmployee inserts or updates an employee. With a zero ID the store
// assigns one and writes it back.
func (s *Store) SaveEmployee(ctx context.Context, e *pos.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO employees (name, role) VALUES (?, ?)", e.Name, e.Role)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		e.ID = pos.EmployeeID(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, role) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role
	`, e.ID, e.Name, e.Role)
	return err
}

// GetEmployee returns an employee by id.
func (s *Store) GetEmployee(ctx context.Context, id pos.EmployeeID) (pos.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEmployee(ctx, s.db, id)
}

func getEmployee(ctx context.Context, db dbtx, id pos.EmployeeID) (pos.Employee, error) {
	var e pos.Employee
	err := db.QueryRowContext(ctx,
		"SELECT id, name, role FROM employees WHERE id = ?", id,
	).Scan(&e.ID, &e.Name, &e.Role)
	if err == sql.ErrNoRows {
		return pos.Employee{}, pos.ErrEmployeeNotFound
	}
	if err != nil {
		return pos.Employee{}, err
	}
	return e, nil
}

// ListEmployees returns all employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]pos.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, role FROM employees ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []pos.Employee
	for rows.Next() {
		var e pos.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// SALE LEDGER (append-only)
// =============================================================================

// AppendSale writes one sale and its items, returning the assigned sale
// id. This is the only ledger write; there is no update or delete.
func (s *Store) AppendSale(ctx context.Context, sale pos.Sale, items []pos.SaleItem) (pos.SaleID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendSale(ctx, s.db, sale, items)
}

func appendSale(ctx context.Context, db dbtx, sale pos.Sale, items []pos.SaleItem) (pos.SaleID, error) {
	res, err := db.ExecContext(ctx,
		"INSERT INTO sales (datetime, customer_id, employee_id, total_amount) VALUES (?, ?, ?, ?)",
		sale.Timestamp.UTC().Format(timeFormat),
		sale.CustomerID, sale.EmployeeID,
		sale.Total.String())
	if err != nil {
		return 0, fmt.Errorf("failed to append sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	saleID := pos.SaleID(id)

	for _, item := range items {
		_, err := db.ExecContext(ctx,
			"INSERT INTO sale_items (sale_id, product_id, quantity, price) VALUES (?, ?, ?, ?)",
			saleID, item.ProductID, item.Quantity, item.UnitPrice.String())
		if err != nil {
			return 0, fmt.Errorf("failed to append sale item: %w", err)
		}
	}
	return saleID, nil
}

// GetSale reads one sale and its items in insertion order.
func (s *Store) GetSale(ctx context.Context, id pos.SaleID) (pos.Sale, []pos.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSale(ctx, s.db, id)
}

func getSale(ctx context.Context, db dbtx, id pos.SaleID) (pos.Sale, []pos.SaleItem, error) {
	var (
		sale     pos.Sale
		datetime string
		total    string
	)
	err := db.QueryRowContext(ctx,
		"SELECT id, datetime, customer_id, employee_id, total_amount FROM sales WHERE id = ?", id,
	).Scan(&sale.ID, &datetime, &sale.CustomerID, &sale.EmployeeID, &total)
	if err == sql.ErrNoRows {
		return pos.Sale{}, nil, pos.ErrSaleNotFound
	}
	if err != nil {
		return pos.Sale{}, nil, err
	}
	sale.Timestamp, _ = time.ParseInLocation(timeFormat, datetime, time.UTC)
	sale.Total = parseDecimal(total)

	rows, err := db.QueryContext(ctx,
		"SELECT id, sale_id, product_id, quantity, price FROM sale_items WHERE sale_id = ? ORDER BY id", id)
	if err != nil {
		return pos.Sale{}, nil, err
	}
	defer rows.Close()

	var items []pos.SaleItem
	for rows.Next() {
		var (
			item  pos.SaleItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &price); err != nil {
			return pos.Sale{}, nil, err
		}
		item.UnitPrice = parseDecimal(price)
		items = append(items, item)
	}
	return sale, items, rows.Err()
}

// =============================================================================
// REPORT QUERIES (sales.ReportStore)
// =============================================================================

// SaleRecords returns denormalized sales ordered by timestamp descending.
// A nil period means all time. Both queries run inside one read
// transaction so the result is a consistent snapshot of the ledger.
func (s *Store) SaleRecords(ctx context.Context, period *pos.Period) ([]sales.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin report transaction: %w", err)
	}
	defer tx.Rollback()

	saleQuery := `
		SELECT s.id, s.datetime, s.customer_id, c.name, s.employee_id, e.name, s.total_amount
		FROM sales s
		JOIN customers c ON s.customer_id = c.id
		JOIN employees e ON s.employee_id = e.id
	`
	itemQuery := `
		SELECT si.sale_id, si.product_id, p.name, si.quantity, si.price
		FROM sale_items si
		JOIN products p ON si.product_id = p.id
	`
	var saleArgs, itemArgs []any
	if period != nil {
		from := period.Start().Format(timeFormat)
		to := period.End().Format(timeFormat)
		saleQuery += " WHERE s.datetime >= ? AND s.datetime < ?"
		itemQuery += " JOIN sales s ON si.sale_id = s.id WHERE s.datetime >= ? AND s.datetime < ?"
		saleArgs = []any{from, to}
		itemArgs = []any{from, to}
	}
	saleQuery += " ORDER BY s.datetime DESC, s.id DESC"
	itemQuery += " ORDER BY si.sale_id, si.id"

	rows, err := tx.QueryContext(ctx, saleQuery, saleArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []sales.SaleRecord
	index := make(map[pos.SaleID]int)
	for rows.Next() {
		var (
			rec      sales.SaleRecord
			datetime string
			total    string
		)
		if err := rows.Scan(&rec.Sale.ID, &datetime,
			&rec.Sale.CustomerID, &rec.CustomerName,
			&rec.Sale.EmployeeID, &rec.EmployeeName, &total); err != nil {
			return nil, err
		}
		rec.Sale.Timestamp, _ = time.ParseInLocation(timeFormat, datetime, time.UTC)
		rec.Sale.Total = parseDecimal(total)
		index[rec.Sale.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := tx.QueryContext(ctx, itemQuery, itemArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			saleID pos.SaleID
			item   sales.ItemRecord
			price  string
		)
		if err := itemRows.Scan(&saleID, &item.ProductID, &item.ProductName, &item.Quantity, &price); err != nil {
			return nil, err
		}
		item.UnitPrice = parseDecimal(price)
		if i, ok := index[saleID]; ok {
			records[i].Items = append(records[i].Items, item)
		}
	}
	return records, itemRows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE (sales.TxStore)
// =============================================================================

// WithTx executes a function within a database transaction. The write
// lock is held for the duration, serializing check-and-decrement against
// concurrent writers.
func (s *Store) WithTx(ctx context.Context, fn func(sales.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		if isBusyError(err) {
			return pos.ErrConflict
		}
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		if isBusyError(err) {
			return pos.ErrConflict
		}
		return err
	}
	return nil
}

type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) GetProduct(ctx context.Context, id pos.ProductID) (pos.Product, error) {
	return getProduct(ctx, ts.tx, id)
}

func (ts *txStore) GetCustomer(ctx context.Context, id pos.CustomerID) (pos.Customer, error) {
	return getCustomer(ctx, ts.tx, id)
}

func (ts *txStore) GetEmployee(ctx context.Context, id pos.EmployeeID) (pos.Employee, error) {
	return getEmployee(ctx, ts.tx, id)
}

func (ts *txStore) AdjustStock(ctx context.Context, id pos.ProductID, delta int) error {
	return adjustStock(ctx, ts.tx, id, delta)
}

func (ts *txStore) AppendSale(ctx context.Context, sale pos.Sale, items []pos.SaleItem) (pos.SaleID, error) {
	return appendSale(ctx, ts.tx, sale, items)
}

func (ts *txStore) GetSale(ctx context.Context, id pos.SaleID) (pos.Sale, []pos.SaleItem, error) {
	return getSale(ctx, ts.tx, id)
}

// =============================================================================
// ADMIN CREDENTIALS
// =============================================================================

// VerifyAdmin checks a login/password pair against the admins table.
// Fails with pos.ErrUnauthorized on any mismatch.
func (s *Store) VerifyAdmin(ctx context.Context, login, password string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var storedHash string
	err := s.db.QueryRowContext(ctx,
		"SELECT password_hash FROM admins WHERE login = ?", login,
	).Scan(&storedHash)
	if err == sql.ErrNoRows {
		return pos.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if hashPassword(password) != storedHash {
		return pos.ErrUnauthorized
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data and reseeds the default admin (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"sale_items", "sales", "products", "categories", "customers", "employees", "admins"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return s.seedAdmin(ctx)
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

func isBusyError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "database table is locked"))
}
