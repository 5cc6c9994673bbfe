// Package catalog provides the implementation of catalog query and mutation logic.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	catalogerrors "github.com/rupamlabs/ecatalog/internal/errors"
	"github.com/rupamlabs/ecatalog/internal/store"
	"github.com/rupamlabs/ecatalog/pkg/api"
)

// CatalogService defines the methods for querying and maintaining the catalog.
// It abstracts the underlying business logic and row-store access.
type CatalogService interface {
	// ListProducts translates a query into a filtered, paginated view of the
	// product set plus the category vocabulary and company profile.
	ListProducts(ctx context.Context, q api.Query) (*api.ProductListResponse, error)

	// FindByID retrieves a single product (hidden included) with the company
	// snapshot. Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*api.ProductDetail, error)

	// CreateProduct appends a new product and returns its assigned ID.
	CreateProduct(ctx context.Context, product ProductCreateDto) (string, error)

	// UpdateProduct rewrites an existing product's row.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdateProduct(ctx context.Context, product ProductDto) error

	// CompanyProfile returns the current company profile.
	CompanyProfile(ctx context.Context) (api.CompanyProfile, error)

	// UpdateCompanyProfile replaces the company profile, filling blank fields
	// from the defaults.
	UpdateCompanyProfile(ctx context.Context, profile api.CompanyProfile) error
}

// Service implements CatalogService on top of a RowStore.
type Service struct {
	store  store.RowStore
	logger *slog.Logger
}

// NewService creates a new instance of CatalogService with the provided row store.
func NewService(rs store.RowStore, logger *slog.Logger) *Service {
	return &Service{
		store:  rs,
		logger: logger.With("component", "catalog"),
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
	QRCode      string  `json:"qrCode"`
	Inventory   int     `json:"inventory"   validate:"gte=0"`
	Category    string  `json:"category"    validate:"max=100"`
	Hidden      bool    `json:"hidden"`
}

// ProductDto represents the data transfer object for updating a product.
type ProductDto struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
	QRCode      string  `json:"qrCode"`
	Inventory   int     `json:"inventory"   validate:"gte=0"`
	Category    string  `json:"category"    validate:"max=100"`
	Hidden      bool    `json:"hidden"`
}

// ListProducts implements the catalog query pipeline: visibility filter,
// category vocabulary, category filter, search filter, pagination.
// A failing product fetch aborts the whole call; a failing settings fetch
// degrades to the default company profile.
func (s *Service) ListProducts(ctx context.Context, q api.Query) (*api.ProductListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 1
	}

	products, company, err := s.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	included := products
	if !q.IncludeHidden {
		included = make([]api.Product, 0, len(products))
		for _, p := range products {
			if !p.Hidden {
				included = append(included, p)
			}
		}
	}

	// Vocabulary is computed over the included set, before category/search
	// filtering: deduplicated, trimmed, first-occurrence order.
	categories := categoryVocabulary(included)

	filtered := included
	if q.CategoryFilterActive() {
		filtered = filterByCategory(filtered, q.Category)
	}
	if q.Search != "" {
		filtered = filterBySearch(filtered, q.Search)
	}

	total := len(filtered)
	totalPages := (total + q.Limit - 1) / q.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	pageItems := []api.Product{}
	if start < total {
		if end > total {
			end = total
		}
		pageItems = filtered[start:end]
	}

	return &api.ProductListResponse{
		Products:   pageItems,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
		Categories: categories,
		Company:    company,
	}, nil
}

// FindByID retrieves a single product by ID, hidden products included.
// No filtering or pagination applies.
func (s *Service) FindByID(ctx context.Context, id string) (*api.ProductDetail, error) {
	products, company, err := s.fetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return &api.ProductDetail{Product: p, Company: company}, nil
		}
	}
	return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, catalogerrors.ErrProductNotFound)
}

// CreateProduct appends a new product row and returns the assigned ID.
func (s *Service) CreateProduct(ctx context.Context, product ProductCreateDto) (string, error) {
	row := productRow(product.Name, product.Description, product.Price,
		product.ImageURL, product.QRCode, product.Inventory, product.Category, product.Hidden)
	id, err := s.store.AppendProductRow(ctx, row)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

// UpdateProduct rewrites an existing product's row.
func (s *Service) UpdateProduct(ctx context.Context, product ProductDto) error {
	row := productRow(product.Name, product.Description, product.Price,
		product.ImageURL, product.QRCode, product.Inventory, product.Category, product.Hidden)
	if err := s.store.UpdateProductRow(ctx, product.ID, row); err != nil {
		return fmt.Errorf("failed to update product with ID %s: %w", product.ID, err)
	}
	return nil
}

// CompanyProfile returns the current company profile.
func (s *Service) CompanyProfile(ctx context.Context) (api.CompanyProfile, error) {
	row, err := s.store.SettingsRow(ctx)
	if err != nil {
		return api.CompanyProfile{}, fmt.Errorf("failed to fetch company profile: %w", err)
	}
	return parseCompanyRow(row), nil
}

// UpdateCompanyProfile replaces the company profile row.
func (s *Service) UpdateCompanyProfile(ctx context.Context, profile api.CompanyProfile) error {
	if err := s.store.WriteSettingsRow(ctx, companyRow(profile)); err != nil {
		return fmt.Errorf("failed to update company profile: %w", err)
	}
	return nil
}

// fetchCatalog reads product rows and the settings row concurrently.
// The settings fetch never fails the call: the profile degrades to defaults.
func (s *Service) fetchCatalog(ctx context.Context) ([]api.Product, api.CompanyProfile, error) {
	var rows [][]string
	var settings []string

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.ProductRows(gCtx)
		if err != nil {
			return err
		}
		rows = r
		return nil
	})
	g.Go(func() error {
		row, err := s.store.SettingsRow(gCtx)
		if err != nil {
			s.logger.WarnContext(gCtx, "Company settings missing or unreadable, using defaults", "error", err)
			return nil
		}
		settings = row
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, api.CompanyProfile{}, fmt.Errorf("failed to fetch products: %w", err)
	}

	products := make([]api.Product, len(rows))
	for i, row := range rows {
		products[i] = parseProductRow(row)
	}
	return products, parseCompanyRow(settings), nil
}

// categoryVocabulary collects the distinct, trimmed, non-empty categories in
// first-occurrence order.
func categoryVocabulary(products []api.Product) []string {
	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	return categories
}

func filterByCategory(products []api.Product, category string) []api.Product {
	out := []api.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

func filterBySearch(products []api.Product, search string) []api.Product {
	q := strings.ToLower(search)
	out := []api.Product{}
	for _, p := range products {
		for _, field := range []string{p.Name, p.Description, p.ID, p.Category} {
			if field != "" && strings.Contains(strings.ToLower(field), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
