// Package api defines the JSON wire contract shared by the catalog service,
// its REST transport and the catalog client.
package api

import (
	"net/url"
	"strconv"
	"strings"
)

// PlaceholderImageURL replaces empty or syntactically invalid product image URLs.
const PlaceholderImageURL = "https://via.placeholder.com/400x300?text=No+Image"

// Product is a single catalog entry. IDs are opaque strings assigned by the row store.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	QRCode      string  `json:"qrCode"`
	Inventory   int     `json:"inventory"`
	Category    string  `json:"category"`
	Hidden      bool    `json:"hidden"`
}

// CompanyProfile holds the storefront branding row. It is never absent: any
// missing field falls back to the matching DefaultCompanyProfile value.
type CompanyProfile struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	ShowPrices  bool   `json:"showPrices"`
}

// DefaultCompanyProfile returns the fixed fallback profile.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:        "E-Catalogue Inc.",
		Tagline:     "Search Your Products Here!",
		Description: "Your one-stop showcase for curated inventory. Maintain your catalog via the admin dashboard linked to Google Sheets.",
		Email:       "hello@rupamarketing.app",
		Phone:       "0000000000",
		Website:     "https://rupamarketing.vercel.app/",
		Address:     "123 Market Street, Suite 400, City,Hyderabad, India",
		ShowPrices:  false,
	}
}

// Query describes one catalog page request.
type Query struct {
	Page          int
	Limit         int
	Search        string
	Category      string
	IncludeHidden bool
}

// CategoryFilterActive reports whether the query narrows by category.
// An empty category or the literal "all" means unfiltered.
func (q Query) CategoryFilterActive() bool {
	return q.Category != "" && !strings.EqualFold(q.Category, "all")
}

// Values renders the query as URL parameters in the fixed field order
// page, limit, search, category, includeHidden. Optional fields are omitted
// when unset.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryFilterActive() {
		v.Set("category", q.Category)
	}
	if q.IncludeHidden {
		v.Set("includeHidden", "true")
	}
	return v
}

// Key serializes the query for cache lookups. Two queries are equivalent iff
// their keys are equal. Field order is fixed, so the key is deterministic.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(q.Limit))
	if q.Search != "" {
		b.WriteString("&search=")
		b.WriteString(url.QueryEscape(q.Search))
	}
	if q.CategoryFilterActive() {
		b.WriteString("&category=")
		b.WriteString(url.QueryEscape(q.Category))
	}
	if q.IncludeHidden {
		b.WriteString("&includeHidden=true")
	}
	return b.String()
}

// ProductListResponse is the envelope returned by GET /api/v1/products.
type ProductListResponse struct {
	Products   []Product      `json:"products"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	Categories []string       `json:"categories"`
	Company    CompanyProfile `json:"company"`
	Error      string         `json:"error,omitempty"`
	Details    string         `json:"details,omitempty"`
}

// ProductDetail is a single product merged with the company snapshot,
// returned by GET /api/v1/products?id=X.
type ProductDetail struct {
	Product
	Company CompanyProfile `json:"company"`
}

// CompanyResponse is the envelope returned by GET /api/v1/company.
type CompanyResponse struct {
	Company CompanyProfile `json:"company"`
}

// MutationResponse is the envelope returned by product and company mutations.
type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
