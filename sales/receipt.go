package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/pos"
)

// =============================================================================
// RECEIPT - Human-readable rendering of one completed sale
// =============================================================================

// Receipt is everything needed to render one completed sale as text.
type Receipt struct {
	Sale         pos.Sale
	Customer     pos.Customer
	Employee     pos.Employee
	Items        []ItemRecord
	DiscountRate decimal.Decimal
}

// Receipt resolves a completed sale with its party and product names for
// rendering. Fails with pos.ErrSaleNotFound for unknown ids.
func (l *Ledger) Receipt(ctx context.Context, id pos.SaleID) (Receipt, error) {
	sale, items, err := l.store.GetSale(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	customer, err := l.store.GetCustomer(ctx, sale.CustomerID)
	if err != nil {
		return Receipt{}, err
	}
	employee, err := l.store.GetEmployee(ctx, sale.EmployeeID)
	if err != nil {
		return Receipt{}, err
	}

	records := make([]ItemRecord, len(items))
	for i, item := range items {
		product, err := l.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			return Receipt{}, err
		}
		records[i] = ItemRecord{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return Receipt{
		Sale:         sale,
		Customer:     customer,
		Employee:     employee,
		Items:        records,
		DiscountRate: l.cfg.DiscountRate,
	}, nil
}

// Format renders the receipt as a text block: header, one line per item
// as "name x<qty> @<unitPrice> = <lineTotal>", and a footer with the
// discounted total and the discount percentage.
func (r Receipt) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Receipt #%d\n", r.Sale.ID)
	fmt.Fprintf(&b, "Date: %s\n", r.Sale.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Customer: %s\n", r.Customer.Name)
	fmt.Fprintf(&b, "Employee: %s\n", r.Employee.Name)
	b.WriteString("-------------------------------\n")
	b.WriteString("Items:\n")

	for _, item := range r.Items {
		fmt.Fprintf(&b, "%s x%d @%s = %s\n",
			item.ProductName, item.Quantity,
			item.UnitPrice.StringFixed(2), item.LineTotal().StringFixed(2))
	}

	b.WriteString("-------------------------------\n")
	fmt.Fprintf(&b, "Total: %s\n", r.Sale.Total.StringFixed(2))
	fmt.Fprintf(&b, "Discount: %s%%\n", r.DiscountRate.Mul(decimal.NewFromInt(100)).String())

	return b.String()
}

// FileName returns a filesystem-safe name for a saved receipt, e.g.
// "receipt_12_2024-03-10_14-23-01.txt".
func (r Receipt) FileName() string {
	ts := r.Sale.Timestamp.Format("2006-01-02_15-04-05")
	return fmt.Sprintf("receipt_%d_%s.txt", r.Sale.ID, ts)
}
