/*
Package importer loads catalog and party reference data from CSV files.

PURPOSE:
  Bulk-loads categories, products, customers and employees from a
  directory of CSV files at startup. This is reference data only: the
  sale ledger is never imported, it is built exclusively through
  ExecuteSale.

FILE LAYOUT:
  categories.csv  id,name
  products.csv    id,name,price,stock,category_id
  customers.csv   id,name,phone
  employees.csv   id,name,role

  Every file is optional; missing files are skipped. Each file has a
  header row. Rows with a duplicate customer phone are skipped (the
  existing record wins); any other malformed row aborts the import.
*/
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/pos"
)

// Store is the subset of the persistence layer the importer writes to.
type Store interface {
	SaveCategory(ctx context.Context, c *pos.Category) error
	SaveProduct(ctx context.Context, p *pos.Product) error
	SaveCustomer(ctx context.Context, c *pos.Customer) error
	SaveEmployee(ctx context.Context, e *pos.Employee) error
}

// Summary counts what an import loaded.
type Summary struct {
	Categories int
	Products   int
	Customers  int
	Employees  int
	Skipped    int // customer rows skipped for duplicate phones
}

// Loader reads CSV files into the store.
type Loader struct {
	store Store
}

// NewLoader creates a loader over the given store.
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// LoadDir imports all known CSV files found in dir.
func (l *Loader) LoadDir(ctx context.Context, dir string) (Summary, error) {
	var sum Summary

	if err := l.loadFile(dir, "categories.csv", func(rec []string) error {
		c, err := parseCategory(rec)
		if err != nil {
			return err
		}
		if err := l.store.SaveCategory(ctx, &c); err != nil {
			return err
		}
		sum.Categories++
		return nil
	}); err != nil {
		return sum, err
	}

	if err := l.loadFile(dir, "products.csv", func(rec []string) error {
		p, err := parseProduct(rec)
		if err != nil {
			return err
		}
		if err := l.store.SaveProduct(ctx, &p); err != nil {
			return err
		}
		sum.Products++
		return nil
	}); err != nil {
		return sum, err
	}

	if err := l.loadFile(dir, "customers.csv", func(rec []string) error {
		c, err := parseCustomer(rec)
		if err != nil {
			return err
		}
		if err := l.store.SaveCustomer(ctx, &c); err != nil {
			if errors.Is(err, pos.ErrDuplicatePhone) {
				sum.Skipped++
				return nil
			}
			return err
		}
		sum.Customers++
		return nil
	}); err != nil {
		return sum, err
	}

	if err := l.loadFile(dir, "employees.csv", func(rec []string) error {
		e, err := parseEmployee(rec)
		if err != nil {
			return err
		}
		if err := l.store.SaveEmployee(ctx, &e); err != nil {
			return err
		}
		sum.Employees++
		return nil
	}); err != nil {
		return sum, err
	}

	return sum, nil
}

// loadFile streams one CSV file through fn, skipping the header row.
// A missing file is not an error.
func (l *Loader) loadFile(dir, name string, fn func(rec []string) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		line++
		if line == 1 {
			continue // header
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
}

// =============================================================================
// ROW PARSERS
// =============================================================================

func parseCategory(rec []string) (pos.Category, error) {
	if len(rec) < 2 {
		return pos.Category{}, fmt.Errorf("want 2 columns, got %d", len(rec))
	}
	id, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return pos.Category{}, fmt.Errorf("bad id %q: %w", rec[0], err)
	}
	return pos.Category{ID: pos.CategoryID(id), Name: rec[1]}, nil
}

func parseProduct(rec []string) (pos.Product, error) {
	if len(rec) < 5 {
		return pos.Product{}, fmt.Errorf("want 5 columns, got %d", len(rec))
	}
	id, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return pos.Product{}, fmt.Errorf("bad id %q: %w", rec[0], err)
	}
	price, err := decimal.NewFromString(rec[2])
	if err != nil {
		return pos.Product{}, fmt.Errorf("bad price %q: %w", rec[2], err)
	}
	if price.IsNegative() {
		return pos.Product{}, fmt.Errorf("negative price %q", rec[2])
	}
	stock, err := strconv.Atoi(rec[3])
	if err != nil {
		return pos.Product{}, fmt.Errorf("bad stock %q: %w", rec[3], err)
	}
	if stock < 0 {
		return pos.Product{}, fmt.Errorf("negative stock %q", rec[3])
	}
	categoryID, err := strconv.ParseInt(rec[4], 10, 64)
	if err != nil {
		return pos.Product{}, fmt.Errorf("bad category id %q: %w", rec[4], err)
	}
	return pos.Product{
		ID:         pos.ProductID(id),
		Name:       rec[1],
		Price:      price,
		Stock:      stock,
		CategoryID: pos.CategoryID(categoryID),
	}, nil
}

func parseCustomer(rec []string) (pos.Customer, error) {
	if len(rec) < 3 {
		return pos.Customer{}, fmt.Errorf("want 3 columns, got %d", len(rec))
	}
	id, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return pos.Customer{}, fmt.Errorf("bad id %q: %w", rec[0], err)
	}
	return pos.Customer{ID: pos.CustomerID(id), Name: rec[1], Phone: rec[2]}, nil
}

func parseEmployee(rec []string) (pos.Employee, error) {
	if len(rec) < 3 {
		return pos.Employee{}, fmt.Errorf("want 3 columns, got %d", len(rec))
	}
	id, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return pos.Employee{}, fmt.Errorf("bad id %q: %w", rec[0], err)
	}
	return pos.Employee{ID: pos.EmployeeID(id), Name: rec[1], Role: rec[2]}, nil
}
