package catalog

import "time"

// DiscountType distinguishes how a promotion or coupon is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Company is a restaurant registered on the platform.
type Company struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	Slogan    string  `json:"slogan,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	OpenHours string  `json:"openHours,omitempty"`
	IsActive  bool    `json:"isActive"`
}

// Category groups menu items.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// MenuItem is a sellable dish.
type MenuItem struct {
	ID          string   `json:"id"`
	CategoryID  string   `json:"categoryId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	IsAvailable bool     `json:"isAvailable"`
	Tags        []string `json:"tags,omitempty"`
}

// Tag labels a cuisine or dietary trait.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Promotion is a time-bounded discount advertised to customers.
type Promotion struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     DiscountType `json:"type"`
	Value    float64      `json:"value"`
	EndsAt   time.Time    `json:"endsAt"`
	IsActive bool         `json:"isActive"`
}

// Coupon is a redeemable discount code.
type Coupon struct {
	ID       string       `json:"id"`
	Code     string       `json:"code"`
	Type     DiscountType `json:"type"`
	Value    float64      `json:"value"`
	EndsAt   time.Time    `json:"endsAt"`
	IsActive bool         `json:"isActive"`
}

// Order is a customer purchase, read-only from the bot's perspective.
type Order struct {
	ID            string    `json:"id"`
	CustomerPhone string    `json:"customerPhone"`
	Status        string    `json:"status"` // Pending, Confirmed, Delivering, Delivered, Cancelled
	PaymentMethod string    `json:"paymentMethod"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Page wraps one page of query results with enough metadata for
// "take the first N" truncation by callers.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
}

// Take returns up to n leading items of the page.
func (p Page[T]) Take(n int) []T {
	if n >= len(p.Items) {
		return p.Items
	}
	return p.Items[:n]
}

// ListFilter carries the shared pagination and sorting knobs.
type ListFilter struct {
	IsActive  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// MenuItemFilter narrows menu item queries.
type MenuItemFilter struct {
	ListFilter
	CategoryIDs []string
	Tag         string
	IsAvailable *bool
}

// TagFilter narrows tag queries.
type TagFilter struct {
	ListFilter
	Name string
}

// OrderFilter narrows order queries to one customer.
type OrderFilter struct {
	ListFilter
	CustomerPhone string
	Status        string
}

// BoolPtr is a small helper for filter literals.
func BoolPtr(b bool) *bool { return &b }
