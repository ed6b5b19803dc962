/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY FIELDS:
  All money amounts travel as fixed-point decimal strings ("270.00"),
  never as floats. Clients parse them with their own decimal type.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - server.go: Route wiring
*/
package api

// =============================================================================
// CATALOG TYPES
// =============================================================================

// CategoryDTO represents a product category in API responses.
type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SaveCategoryRequest is the request to create or update a category.
type SaveCategoryRequest struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// ProductDTO represents a product in API responses.
type ProductDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Stock      int    `json:"stock"`
	CategoryID int64  `json:"category_id"`
}

// SaveProductRequest is the request to create or update a product.
type SaveProductRequest struct {
	ID         int64  `json:"id,omitempty"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Stock      int    `json:"stock"`
	CategoryID int64  `json:"category_id"`
}

// RestockRequest adds stock to a product. Restocking is an admin
// operation and carries credentials in the body.
type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// =============================================================================
// PARTY TYPES
// =============================================================================

// CustomerDTO represents a customer in API responses.
type CustomerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateCustomerRequest is the request to register a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// SaveEmployeeRequest is the request to create or update an employee.
type SaveEmployeeRequest struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// =============================================================================
// SALE TYPES
// =============================================================================

// ExecuteSaleRequest is the request to record a sale.
type ExecuteSaleRequest struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	CustomerID int64 `json:"customer_id"`
	EmployeeID int64 `json:"employee_id"`
}

// SaleDTO represents a completed sale in API responses.
type SaleDTO struct {
	ID         int64         `json:"id"`
	Timestamp  string        `json:"timestamp"`
	CustomerID int64         `json:"customer_id"`
	EmployeeID int64         `json:"employee_id"`
	Total      string        `json:"total"`
	Items      []SaleItemDTO `json:"items"`
}

// SaleItemDTO represents one line item of a sale.
type SaleItemDTO struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// PeriodTotalDTO is the revenue summary for a calendar month.
type PeriodTotalDTO struct {
	Period string `json:"period"`
	Total  string `json:"total"`
}

// EmployeePerformanceDTO is one employee's activity in a period.
type EmployeePerformanceDTO struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	SaleCount    int    `json:"sale_count"`
	Revenue      string `json:"revenue"`
	AverageSale  string `json:"average_sale"`
}

// BestEmployeeDTO is the premium-report headline for a period.
type BestEmployeeDTO struct {
	Period string                  `json:"period"`
	Best   *EmployeePerformanceDTO `json:"best,omitempty"`
}

// SellerDTO is an all-time revenue leaderboard entry.
type SellerDTO struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Revenue      string `json:"revenue"`
}

// TopCustomerDTO is an all-time spending leaderboard entry.
type TopCustomerDTO struct {
	CustomerID   int64  `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	AmountSpent  string `json:"amount_spent"`
}

// SaleDetailDTO is one row of a period detail or history listing.
type SaleDetailDTO struct {
	SaleID       int64  `json:"sale_id"`
	Timestamp    string `json:"timestamp"`
	EmployeeName string `json:"employee_name"`
	CustomerName string `json:"customer_name"`
	Total        string `json:"total"`
	Items        string `json:"items"`
}

// =============================================================================
// ADMIN TYPES
// =============================================================================

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse acknowledges a successful login.
type LoginResponse struct {
	Login string `json:"login"`
	OK    bool   `json:"ok"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
