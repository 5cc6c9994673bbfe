// Package rest provides HTTP handlers for the catalog API.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rupamlabs/ecatalog/internal/catalog"
	catalogerrors "github.com/rupamlabs/ecatalog/internal/errors"
	"github.com/rupamlabs/ecatalog/pkg/api"
	"github.com/rupamlabs/ecatalog/pkg/web"
)

type Handler struct {
	service  catalog.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided service.
func NewHandler(service catalog.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service. Mutation
// routes are wrapped in authMW when it is non-nil.
func (h *Handler) RegisterRoutes(r *chi.Mux, authMW func(http.Handler) http.Handler) {
	guarded := func(r chi.Router) chi.Router {
		if authMW != nil {
			return r.With(authMW)
		}
		return r
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.List)
		guarded(r).Post("/", h.Create)
		guarded(r).Put("/{id}", h.Update)
	})

	r.Route("/api/v1/company", func(r chi.Router) {
		r.Get("/", h.Company)
		guarded(r).Put("/", h.UpdateCompany)
	})

	r.Get("/healthz", h.HealthCheck)
}

// List serves catalog pages. With an id parameter it serves the single-product
// lookup instead: the product merged with the company snapshot, or a 404 envelope.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	if id := r.URL.Query().Get("id"); id != "" {
		h.findByID(w, r, mLogger, id)
		return
	}

	page, ok := web.ParseOptionalGte(r, w, mLogger, "page", 1, 1)
	if !ok {
		return
	}
	limit, ok := web.ParseOptionalGte(r, w, mLogger, "limit", 1, 10)
	if !ok {
		return
	}
	q := api.Query{
		Page:          page,
		Limit:         limit,
		Search:        r.URL.Query().Get("search"),
		Category:      r.URL.Query().Get("category"),
		IncludeHidden: r.URL.Query().Get("includeHidden") == "true",
	}

	mLogger.DebugContext(r.Context(), "Received request to list products",
		"page", q.Page, "limit", q.Limit, "search", q.Search, "category", q.Category, "includeHidden", q.IncludeHidden)
	resp, err := h.service.ListProducts(r.Context(), q)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error fetching products", "error", err)
		web.RespondFetchError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products", err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully listed products", "count", len(resp.Products), "total", resp.Total)
	web.RespondJSON(w, mLogger, http.StatusOK, resp)
}

func (h *Handler) findByID(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, id string) {
	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	detail, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondFetchError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id), err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", detail.ID, "Name", detail.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, detail)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto catalog.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	if !h.validateBody(w, r, mLogger, productCreateDto) {
		return
	}

	id, err := h.service.CreateProduct(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondFetchError(w, mLogger, http.StatusInternalServerError, "Failed to add product", err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", id, "Name", productCreateDto.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, api.MutationResponse{
		Success: true,
		Message: "Product added successfully",
		ID:      id,
	})
}

// Update rewrites an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productDTO catalog.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&productDTO); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateBody(w, r, mLogger, productDTO) {
		return
	}

	productDTO.ID = id

	if err := h.service.UpdateProduct(r.Context(), productDTO); err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondFetchError(w, mLogger, http.StatusInternalServerError, "Failed to update product", err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, api.MutationResponse{
		Success: true,
		Message: "Product updated successfully",
	})
}

// Company serves the company profile.
func (h *Handler) Company(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	profile, err := h.service.CompanyProfile(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error fetching company profile", "error", err)
		web.RespondFetchError(w, mLogger, http.StatusInternalServerError, "Failed to fetch company profile", err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, api.CompanyResponse{Company: profile})
}

// UpdateCompany replaces the company profile.
func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var profile api.CompanyProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateCompanyProfile(r.Context(), profile); err != nil {
		mLogger.ErrorContext(r.Context(), "Error updating company profile", "error", err)
		web.RespondFetchError(w, mLogger, http.StatusInternalServerError, "Failed to update company profile", err)
		return
	}
	mLogger.InfoContext(r.Context(), "Company profile updated successfully")
	web.RespondJSON(w, mLogger, http.StatusOK, api.MutationResponse{
		Success: true,
		Message: "Company profile updated successfully",
	})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateBody runs struct validation and renders field-specific errors.
func (h *Handler) validateBody(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, body any) bool {
	if err := h.validate.Struct(body); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "max", etc.
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
