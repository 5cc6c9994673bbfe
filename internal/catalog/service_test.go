package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogerrors "github.com/rupamlabs/ecatalog/internal/errors"
	"github.com/rupamlabs/ecatalog/internal/store"
	"github.com/rupamlabs/ecatalog/pkg/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func row(id, name, description, price, imageURL, qrCode, inventory, category, hidden string) []string {
	return []string{id, name, description, price, imageURL, qrCode, inventory, category, hidden}
}

// fixtureStore holds two visible tool products, one visible garden product and
// one hidden product whose category appears nowhere else.
func fixtureStore() store.RowStore {
	return store.NewMemoryStoreWithSettings(
		[]string{"Acme", "Tools for all", "", "sales@acme.test", "", "", "", "TRUE"},
		row("1", "Hammer", "A solid claw hammer", "19.99", "https://img.acme.test/hammer.png", "", "12", "Tools", "false"),
		row("2", "Wrench", "Adjustable wrench", "14.50", "https://img.acme.test/wrench.png", "", "3", "Tools", "false"),
		row("3", "Trowel", "Garden trowel", "7.25", "https://img.acme.test/trowel.png", "", "8", "Garden", "false"),
		row("4", "Prototype", "Unreleased gadget", "99.00", "https://img.acme.test/proto.png", "", "1", "Lab", "true"),
	)
}

// errorStore fails product reads but serves settings, to exercise degradation
// in each direction.
type errorStore struct {
	store.RowStore
	productErr  error
	settingsErr error
}

func (s *errorStore) ProductRows(ctx context.Context) ([][]string, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	return s.RowStore.ProductRows(ctx)
}

func (s *errorStore) SettingsRow(ctx context.Context) ([]string, error) {
	if s.settingsErr != nil {
		return nil, s.settingsErr
	}
	return s.RowStore.SettingsRow(ctx)
}

func TestService_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - hidden products excluded, vocabulary over visible set", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
		assert.Len(t, resp.Products, 3)
		for _, p := range resp.Products {
			assert.False(t, p.Hidden)
		}
		// "Lab" belongs only to a hidden product and must not leak.
		assert.Equal(t, []string{"Tools", "Garden"}, resp.Categories)
		assert.Equal(t, "Acme", resp.Company.Name)
		assert.True(t, resp.Company.ShowPrices)
	})

	t.Run("Success - includeHidden widens both products and vocabulary", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10, IncludeHidden: true})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Total)
		assert.Equal(t, []string{"Tools", "Garden", "Lab"}, resp.Categories)
	})

	t.Run("Success - category filter is case-insensitive", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10, Category: "tools"})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		// Vocabulary reflects the pre-filter set.
		assert.Equal(t, []string{"Tools", "Garden"}, resp.Categories)
	})

	t.Run("Success - category 'all' disables the filter", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10, Category: "all"})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
	})

	t.Run("Success - search matches name, description, id and category", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		testCases := []struct {
			search string
			ids    []string
		}{
			{search: "WRENCH", ids: []string{"2"}},
			{search: "garden", ids: []string{"3"}},
			{search: "3", ids: []string{"3"}},
			{search: "tools", ids: []string{"1", "2"}},
			{search: "no-such-thing", ids: []string{}},
		}
		for _, tc := range testCases {
			resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10, Search: tc.search})
			require.NoError(t, err)
			got := []string{}
			for _, p := range resp.Products {
				got = append(got, p.ID)
			}
			assert.Equal(t, tc.ids, got, "search %q", tc.search)
		}
	})

	t.Run("Success - pagination slices and reports page math", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 2, Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, 2, resp.TotalPages)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "3", resp.Products[0].ID)
	})

	t.Run("Success - page beyond range yields empty slice, not nil", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 99, Limit: 10})

		require.NoError(t, err)
		assert.NotNil(t, resp.Products)
		assert.Empty(t, resp.Products)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, 99, resp.Page)
	})

	t.Run("Success - empty result keeps totalPages at 1", func(t *testing.T) {
		svc := NewService(store.NewMemoryStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Total)
		assert.Equal(t, 1, resp.TotalPages)
		assert.NotNil(t, resp.Products)
	})

	t.Run("Success - out-of-range page and limit are clamped", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 0, Limit: -5})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 1, resp.Limit)
	})

	t.Run("Success - repeated identical queries are deterministic", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())
		q := api.Query{Page: 1, Limit: 2, Category: "Tools", Search: "a"}

		first, err := svc.ListProducts(ctx, q)
		require.NoError(t, err)
		second, err := svc.ListProducts(ctx, q)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("Success - settings failure degrades to the default profile", func(t *testing.T) {
		svc := NewService(&errorStore{RowStore: fixtureStore(), settingsErr: errors.New("settings unavailable")}, discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, api.DefaultCompanyProfile(), resp.Company)
	})

	t.Run("Fail - product fetch failure aborts the whole call", func(t *testing.T) {
		storeErr := errors.New("spreadsheet unreachable")
		svc := NewService(&errorStore{RowStore: fixtureStore(), productErr: storeErr}, discardLogger())

		resp, err := svc.ListProducts(ctx, api.Query{Page: 1, Limit: 10})

		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, resp)
	})
}

func TestService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - finds a visible product with company snapshot", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		detail, err := svc.FindByID(ctx, "2")

		require.NoError(t, err)
		assert.Equal(t, "Wrench", detail.Product.Name)
		assert.Equal(t, "Acme", detail.Company.Name)
	})

	t.Run("Success - hidden products are reachable by ID", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		detail, err := svc.FindByID(ctx, "4")

		require.NoError(t, err)
		assert.True(t, detail.Product.Hidden)
	})

	t.Run("Fail - unknown ID returns ErrProductNotFound", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		detail, err := svc.FindByID(ctx, "999")

		require.Error(t, err)
		assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
		assert.Nil(t, detail)
	})
}

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore(), discardLogger())

	id, err := svc.CreateProduct(ctx, ProductCreateDto{
		Name:     "Chisel",
		Price:    9.99,
		ImageURL: "https://img.acme.test/chisel.png",
		Category: "Tools",
	})

	require.NoError(t, err)
	assert.Equal(t, "1", id)

	detail, err := svc.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chisel", detail.Product.Name)
	assert.Equal(t, 9.99, detail.Product.Price)
}

func TestService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - rewrites an existing row", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		err := svc.UpdateProduct(ctx, ProductDto{
			ID:       "1",
			Name:     "Sledgehammer",
			Price:    29.99,
			ImageURL: "https://img.acme.test/sledge.png",
			Category: "Tools",
		})

		require.NoError(t, err)
		detail, err := svc.FindByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Sledgehammer", detail.Product.Name)
		assert.Equal(t, 29.99, detail.Product.Price)
	})

	t.Run("Fail - unknown ID returns ErrProductNotFound", func(t *testing.T) {
		svc := NewService(fixtureStore(), discardLogger())

		err := svc.UpdateProduct(ctx, ProductDto{ID: "999", Name: "Ghost"})

		assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
	})
}

func TestService_CompanyProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - missing settings yields the default profile", func(t *testing.T) {
		svc := NewService(store.NewMemoryStore(), discardLogger())

		profile, err := svc.CompanyProfile(ctx)

		require.NoError(t, err)
		assert.Equal(t, api.DefaultCompanyProfile(), profile)
	})

	t.Run("Success - update round-trips through the store", func(t *testing.T) {
		svc := NewService(store.NewMemoryStore(), discardLogger())
		want := api.CompanyProfile{
			Name: "Acme", Tagline: "We sell", Description: "Everything",
			Email: "a@acme.test", Phone: "1", Website: "https://acme.test",
			Address: "1 Road", ShowPrices: true,
		}

		require.NoError(t, svc.UpdateCompanyProfile(ctx, want))

		got, err := svc.CompanyProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
