package catalogclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupamlabs/ecatalog/pkg/api"
)

func TestClient_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - decodes the list envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/products", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			assert.Equal(t, "hammer", r.URL.Query().Get("search"))
			assert.Equal(t, "Tools", r.URL.Query().Get("category"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(api.ProductListResponse{
				Products:   []api.Product{{ID: "1", Name: "Hammer"}},
				Total:      1,
				Page:       2,
				Limit:      5,
				TotalPages: 1,
				Categories: []string{"Tools"},
				Company:    api.CompanyProfile{Name: "Acme"},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		resp, err := c.ListProducts(ctx, api.Query{Page: 2, Limit: 5, Search: "hammer", Category: "Tools"})

		require.NoError(t, err)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "Hammer", resp.Products[0].Name)
		assert.Equal(t, "Acme", resp.Company.Name)
	})

	t.Run("Fail - surfaces the server error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "Failed to fetch products",
				"details": "spreadsheet unreachable",
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		resp, err := c.ListProducts(ctx, api.Query{Page: 1, Limit: 10})

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "Failed to fetch products")
		assert.Contains(t, err.Error(), "spreadsheet unreachable")
	})

	t.Run("Fail - non-JSON error body still yields an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		_, err := c.ListProducts(ctx, api.Query{Page: 1, Limit: 10})

		assert.Error(t, err)
	})
}

func TestClient_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - decodes the detail payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "7", r.URL.Query().Get("id"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(api.ProductDetail{
				Product: api.Product{ID: "7", Name: "Trowel", Hidden: true},
				Company: api.CompanyProfile{Name: "Acme"},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		detail, err := c.FindByID(ctx, "7")

		require.NoError(t, err)
		assert.Equal(t, "Trowel", detail.Name)
		assert.True(t, detail.Hidden)
		assert.Equal(t, "Acme", detail.Company.Name)
	})

	t.Run("Fail - 404 maps to ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		detail, err := c.FindByID(ctx, "999")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, detail)
	})
}

func TestQuery_Key(t *testing.T) {
	testCases := []struct {
		name     string
		query    api.Query
		expected string
	}{
		{
			name:     "minimal query",
			query:    api.Query{Page: 1, Limit: 10},
			expected: "page=1&limit=10",
		},
		{
			name:     "all fields in fixed order",
			query:    api.Query{Page: 2, Limit: 24, Search: "ham mer", Category: "Tools", IncludeHidden: true},
			expected: "page=2&limit=24&search=ham+mer&category=Tools&includeHidden=true",
		},
		{
			name:     "category 'all' is treated as unfiltered",
			query:    api.Query{Page: 1, Limit: 10, Category: "all"},
			expected: "page=1&limit=10",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.query.Key())
		})
	}
}
