// Package store provides an interface for spreadsheet-backed row storage.
package store

import "context"

// RowStore is an interface for row storage operations against the backing
// spreadsheet. It abstracts the sheet layout: row addressing, ranges and ID
// assignment are implementation concerns.
type RowStore interface {
	// ProductRows returns all product data rows, header row excluded.
	// Cells are returned as raw strings; the caller owns coercion.
	ProductRows(ctx context.Context) ([][]string, error)

	// SettingsRow returns the single company settings row, or nil when the
	// settings range is empty.
	SettingsRow(ctx context.Context) ([]string, error)

	// AppendProductRow appends a product row (without ID) and returns the
	// assigned opaque ID.
	AppendProductRow(ctx context.Context, row []string) (string, error)

	// UpdateProductRow rewrites the row whose ID column matches id.
	// Returns ErrProductNotFound if no row matches.
	UpdateProductRow(ctx context.Context, id string, row []string) error

	// WriteSettingsRow replaces the company settings row, creating the header
	// row when missing.
	WriteSettingsRow(ctx context.Context, row []string) error
}
