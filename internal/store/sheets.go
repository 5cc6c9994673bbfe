package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rupamlabs/ecatalog/internal/errors"
	"github.com/rupamlabs/ecatalog/pkg/config"
)

// Sheet layout: row 1 is headers, data rows follow.
// Product columns: id, name, description, price, imageUrl, qrCode, inventory, category, hidden.
const (
	productDataRange    = "Sheet1!A2:I"
	productFullRange    = "Sheet1!A:I"
	settingsDataRange   = "Settings!A2:H2"
	settingsHeaderRange = "Settings!A1:H1"
)

var settingsHeaders = []string{"name", "tagline", "description", "email", "phone", "website", "address", "showPrices"}

// SheetsStore implements RowStore against a Google Sheets spreadsheet using a
// service account. The API client is built lazily so that a misconfigured
// deployment still starts and surfaces the configuration error per request.
type SheetsStore struct {
	cfg config.SheetsConfig

	mu  sync.Mutex
	svc *sheets.Service
}

// NewSheetsStore creates a new instance of RowStore backed by Google Sheets.
func NewSheetsStore(cfg config.SheetsConfig) *SheetsStore {
	return &SheetsStore{cfg: cfg}
}

// service returns the cached Sheets API client, building it on first use.
// Returns ErrStoreNotConfigured when the credentials are placeholders.
func (s *SheetsStore) service(ctx context.Context) (*sheets.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.svc != nil {
		return s.svc, nil
	}

	email := s.cfg.ClientEmail
	// Env vars carry the key with literal "\n" sequences.
	key := strings.ReplaceAll(s.cfg.PrivateKey, `\n`, "\n")

	if email == "" || strings.Contains(email, "your-service-account") ||
		key == "" || strings.Contains(key, "YOUR_PRIVATE_KEY") {
		return nil, errors.ErrStoreNotConfigured
	}

	jwtCfg := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(key),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(context.Background())))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	s.svc = svc
	return s.svc, nil
}

// ProductRows returns all product data rows, header row excluded.
func (s *SheetsStore) ProductRows(ctx context.Context) ([][]string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, productDataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return toStringRows(resp.Values), nil
}

// SettingsRow returns the company settings row, or nil when the range is empty.
func (s *SheetsStore) SettingsRow(ctx context.Context) ([]string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, settingsDataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings row: %w", err)
	}
	rows := toStringRows(resp.Values)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// AppendProductRow appends a product row and returns the assigned ID.
// IDs follow the original sheet convention: the current row count, header included.
func (s *SheetsStore) AppendProductRow(ctx context.Context, row []string) (string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}
	resp, err := svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, productFullRange).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read sheet for ID assignment: %w", err)
	}
	id := strconv.Itoa(len(resp.Values))

	values := &sheets.ValueRange{Values: [][]any{toAnyRow(append([]string{id}, row...))}}
	_, err = svc.Spreadsheets.Values.Append(s.cfg.SpreadsheetID, productFullRange, values).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to append product row: %w", err)
	}
	return id, nil
}

// UpdateProductRow rewrites the row whose ID column matches id.
func (s *SheetsStore) UpdateProductRow(ctx context.Context, id string, row []string) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	resp, err := svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, productFullRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet for update: %w", err)
	}

	rowIndex := -1
	for i, r := range resp.Values {
		if i == 0 {
			continue // header row
		}
		if len(r) > 0 && fmt.Sprint(r[0]) == id {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return errors.ErrProductNotFound
	}

	// Sheet rows are 1-indexed.
	updateRange := fmt.Sprintf("Sheet1!A%d:I%d", rowIndex+1, rowIndex+1)
	values := &sheets.ValueRange{Values: [][]any{toAnyRow(append([]string{id}, row...))}}
	_, err = svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, updateRange, values).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update product row: %w", err)
	}
	return nil
}

// WriteSettingsRow replaces the company settings row, writing the header row first.
func (s *SheetsStore) WriteSettingsRow(ctx context.Context, row []string) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}

	headerValues := &sheets.ValueRange{Values: [][]any{toAnyRow(settingsHeaders)}}
	_, err = svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, settingsHeaderRange, headerValues).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write settings headers: %w", err)
	}

	values := &sheets.ValueRange{Values: [][]any{toAnyRow(row)}}
	_, err = svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, settingsDataRange, values).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write settings row: %w", err)
	}
	return nil
}

func toStringRows(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		row := make([]string, len(v))
		for i, cell := range v {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func toAnyRow(row []string) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
