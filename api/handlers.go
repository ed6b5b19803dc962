/*
handlers.go - HTTP API handlers for the back office

PURPOSE:
  Exposes the sale ledger and reporting engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic.

ENDPOINTS:
  Catalog:
    GET    /api/categories               List categories
    POST   /api/categories               Create/update category
    GET    /api/products                 List products
    POST   /api/products                 Create/update product
    GET    /api/products/{id}            Get product
    POST   /api/products/{id}/restock    Add stock (admin credentials)
    GET    /api/products/low-stock       Products at or below a threshold

  Parties:
    GET    /api/customers                List customers
    POST   /api/customers                Register customer
    GET    /api/customers/{id}           Get customer
    GET    /api/employees                List employees
    POST   /api/employees                Create/update employee
    GET    /api/employees/{id}           Get employee

  Sales:
    POST   /api/sales                    Execute a sale
    GET    /api/sales                    Full sale history, newest first
    GET    /api/sales/{id}               Get one sale with items
    GET    /api/sales/{id}/receipt       Plain-text receipt

  Reports:
    GET    /api/reports/period/{period}/total       Monthly revenue
    GET    /api/reports/period/{period}/employees   Performance rows
    GET    /api/reports/period/{period}/best        Best employee
    GET    /api/reports/period/{period}/detail      Itemized sales
    GET    /api/reports/top-sellers                 All-time seller ranks
    GET    /api/reports/top-customers               All-time customer ranks
    GET    /api/reports/years                       Years that have sales

  Admin:
    POST   /api/admin/login              Verify credentials
    POST   /api/reset                    Wipe the database (dev only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, insufficient stock
  - 401: Bad admin credentials
  - 404: Resource not found
  - 409: Duplicate customer phone, unresolved write conflict
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/backoffice/pos"
	"github.com/warp/backoffice/sales"
	"github.com/warp/backoffice/store/sqlite"
)

const timeFormat = "2006-01-02 15:04:05"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Ledger  *sales.Ledger
	Reports *sales.Reports
}

// NewHandler creates a new handler over the given store and ledger.
func NewHandler(store *sqlite.Store, ledger *sales.Ledger) *Handler {
	return &Handler{
		Store:   store,
		Ledger:  ledger,
		Reports: sales.NewReports(store),
	}
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListCategories returns all categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}

	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = CategoryDTO{ID: int64(c.ID), Name: c.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveCategory creates or updates a category.
func (h *Handler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	var req SaveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Category name is required", nil)
		return
	}

	c := pos.Category{ID: pos.CategoryID(req.ID), Name: req.Name}
	if err := h.Store.SaveCategory(r.Context(), &c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save category", err)
		return
	}
	writeJSON(w, http.StatusCreated, CategoryDTO{ID: int64(c.ID), Name: c.Name})
}

// ListProducts returns all products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	product, err := h.Store.GetProduct(r.Context(), pos.ProductID(id))
	if err != nil {
		writeDomainError(w, "Failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

// SaveProduct creates or updates a product.
func (h *Handler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Product name is required", nil)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "Invalid price (use a non-negative decimal string)", err)
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "Stock cannot be negative", nil)
		return
	}

	p := pos.Product{
		ID:         pos.ProductID(req.ID),
		Name:       req.Name,
		Price:      price,
		Stock:      req.Stock,
		CategoryID: pos.CategoryID(req.CategoryID),
	}
	if err := h.Store.SaveProduct(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save product", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(p))
}

// Restock adds stock to a product. Requires admin credentials in the body.
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Store.VerifyAdmin(r.Context(), req.Login, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if err := h.Ledger.Restock(r.Context(), pos.ProductID(id), req.Quantity); err != nil {
		writeDomainError(w, "Failed to restock", err)
		return
	}

	product, err := h.Store.GetProduct(r.Context(), pos.ProductID(id))
	if err != nil {
		writeDomainError(w, "Failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

// LowStock returns products with stock below the threshold (default 5).
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 5
	if s := r.URL.Query().Get("threshold"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "Invalid threshold", err)
			return
		}
		threshold = v
	}

	products, err := h.Store.LowStock(r.Context(), threshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list low stock", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// =============================================================================
// PARTY HANDLERS
// =============================================================================

// ListCustomers returns all customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = CustomerDTO{ID: int64(c.ID), Name: c.Name, Phone: c.Phone}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCustomer returns a single customer.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id", err)
		return
	}

	customer, err := h.Store.GetCustomer(r.Context(), pos.CustomerID(id))
	if err != nil {
		writeDomainError(w, "Failed to get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, CustomerDTO{ID: int64(customer.ID), Name: customer.Name, Phone: customer.Phone})
}

// CreateCustomer registers a new customer. A duplicate phone number
// yields 409.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "Name and phone are required", nil)
		return
	}

	c := pos.Customer{Name: req.Name, Phone: req.Phone}
	if err := h.Store.AddCustomer(r.Context(), &c); err != nil {
		if errors.Is(err, pos.ErrDuplicatePhone) {
			writeError(w, http.StatusConflict, "Phone number already registered", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, CustomerDTO{ID: int64(c.ID), Name: c.Name, Phone: c.Phone})
}

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{ID: int64(e.ID), Name: e.Name, Role: e.Role}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}

	employee, err := h.Store.GetEmployee(r.Context(), pos.EmployeeID(id))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, EmployeeDTO{ID: int64(employee.ID), Name: employee.Name, Role: employee.Role})
}

// SaveEmployee creates or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Employee name is required", nil)
		return
	}

	e := pos.Employee{ID: pos.EmployeeID(req.ID), Name: req.Name, Role: req.Role}
	if err := h.Store.SaveEmployee(r.Context(), &e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, EmployeeDTO{ID: int64(e.ID), Name: e.Name, Role: e.Role})
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

// ExecuteSale records a sale: validates parties, applies the discount,
// decrements stock and appends to the ledger, all atomically.
func (h *Handler) ExecuteSale(w http.ResponseWriter, r *http.Request) {
	var req ExecuteSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	saleID, err := h.Ledger.ExecuteSale(r.Context(),
		pos.ProductID(req.ProductID), req.Quantity,
		pos.CustomerID(req.CustomerID), pos.EmployeeID(req.EmployeeID))
	if err != nil {
		writeDomainError(w, "Failed to execute sale", err)
		return
	}

	sale, items, err := h.Ledger.GetSale(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, "Failed to load sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(sale, items))
}

// GetSale returns one sale with its line items.
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale id", err)
		return
	}

	sale, items, err := h.Ledger.GetSale(r.Context(), pos.SaleID(id))
	if err != nil {
		writeDomainError(w, "Failed to get sale", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(sale, items))
}

// GetReceipt returns the plain-text receipt for a sale.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale id", err)
		return
	}

	receipt, err := h.Ledger.Receipt(r.Context(), pos.SaleID(id))
	if err != nil {
		writeDomainError(w, "Failed to build receipt", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(receipt.Format()))
}

// SalesHistory returns every sale on record, newest first.
func (h *Handler) SalesHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDetailDTOs(rows))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// PeriodTotal returns the revenue total for a calendar month.
func (h *Handler) PeriodTotal(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	total, err := h.Reports.PeriodTotal(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute total", err)
		return
	}
	writeJSON(w, http.StatusOK, PeriodTotalDTO{Period: period.String(), Total: total.StringFixed(2)})
}

// EmployeePerformance returns per-employee rows for a period, ordered by
// revenue descending.
func (h *Handler) EmployeePerformance(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	rows, err := h.Reports.EmployeePerformance(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute performance", err)
		return
	}

	dtos := make([]EmployeePerformanceDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toPerformanceDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// BestEmployee returns the period's top performer, or a null best when
// the period has no sales.
func (h *Handler) BestEmployee(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	row, found, err := h.Reports.BestEmployee(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute best employee", err)
		return
	}

	resp := BestEmployeeDTO{Period: period.String()}
	if found {
		dto := toPerformanceDTO(row)
		resp.Best = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// PeriodDetail returns one itemized row per sale in the period.
func (h *Handler) PeriodDetail(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	rows, err := h.Reports.PeriodDetail(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute detail", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDetailDTOs(rows))
}

// TopSellers returns employees ranked by all-time revenue.
func (h *Handler) TopSellers(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	rows, err := h.Reports.TopSellers(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute top sellers", err)
		return
	}

	dtos := make([]SellerDTO, len(rows))
	for i, row := range rows {
		dtos[i] = SellerDTO{
			EmployeeID:   int64(row.EmployeeID),
			EmployeeName: row.EmployeeName,
			Revenue:      row.Revenue.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TopCustomers returns customers ranked by all-time spending.
func (h *Handler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	rows, err := h.Reports.TopCustomers(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute top customers", err)
		return
	}

	dtos := make([]TopCustomerDTO, len(rows))
	for i, row := range rows {
		dtos[i] = TopCustomerDTO{
			CustomerID:   int64(row.CustomerID),
			CustomerName: row.CustomerName,
			AmountSpent:  row.AmountSpent.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaleYears returns the distinct years that have sales, newest first.
func (h *Handler) SaleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.Reports.SaleYears(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list years", err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Login verifies admin credentials.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Store.VerifyAdmin(r.Context(), req.Login, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Login: req.Login, OK: true})
}

// ResetDatabase wipes all data and reseeds the default admin. Dev only.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

// parsePeriod reads the {period} URL param as "YYYY-MM". Writes a 400 and
// returns ok=false on failure.
func (h *Handler) parsePeriod(w http.ResponseWriter, r *http.Request) (pos.Period, bool) {
	period, err := pos.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use YYYY-MM)", err)
		return pos.Period{}, false
	}
	return period, true
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, true // engine applies its default
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "Invalid limit", err)
		return 0, false
	}
	return limit, true
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func toProductDTO(p pos.Product) ProductDTO {
	return ProductDTO{
		ID:         int64(p.ID),
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		Stock:      p.Stock,
		CategoryID: int64(p.CategoryID),
	}
}

func toProductDTOs(products []pos.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}

func toSaleDTO(sale pos.Sale, items []pos.SaleItem) SaleDTO {
	itemDTOs := make([]SaleItemDTO, len(items))
	for i, item := range items {
		itemDTOs[i] = SaleItemDTO{
			ProductID: int64(item.ProductID),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: item.LineTotal().StringFixed(2),
		}
	}
	return SaleDTO{
		ID:         int64(sale.ID),
		Timestamp:  sale.Timestamp.Format(timeFormat),
		CustomerID: int64(sale.CustomerID),
		EmployeeID: int64(sale.EmployeeID),
		Total:      sale.Total.StringFixed(2),
		Items:      itemDTOs,
	}
}

func toSaleDetailDTOs(rows []sales.DetailRow) []SaleDetailDTO {
	dtos := make([]SaleDetailDTO, len(rows))
	for i, row := range rows {
		dtos[i] = SaleDetailDTO{
			SaleID:       int64(row.SaleID),
			Timestamp:    row.Timestamp.Format(timeFormat),
			EmployeeName: row.EmployeeName,
			CustomerName: row.CustomerName,
			Total:        row.Total.StringFixed(2),
			Items:        row.ItemSummary,
		}
	}
	return dtos
}

func toPerformanceDTO(row sales.EmployeePerformanceRow) EmployeePerformanceDTO {
	return EmployeePerformanceDTO{
		EmployeeID:   int64(row.EmployeeID),
		EmployeeName: row.EmployeeName,
		SaleCount:    row.SaleCount,
		Revenue:      row.Revenue.StringFixed(2),
		AverageSale:  row.AverageSale.StringFixed(2),
	}
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case pos.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case pos.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case pos.IsRetryable(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
