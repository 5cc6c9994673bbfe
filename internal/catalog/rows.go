package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rupamlabs/ecatalog/pkg/api"
)

// Product columns: id, name, description, price, imageUrl, qrCode, inventory, category, hidden.
const (
	colID = iota
	colName
	colDescription
	colPrice
	colImageURL
	colQRCode
	colInventory
	colCategory
	colHidden
)

// cell returns the i-th cell of a row, tolerating short rows.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// parseProductRow maps a raw sheet row to a Product. Malformed cells degrade
// to safe defaults rather than failing the batch: unparseable numbers become 0
// and an invalid image URL becomes the fixed placeholder.
func parseProductRow(row []string) api.Product {
	price, err := strconv.ParseFloat(cell(row, colPrice), 64)
	if err != nil || price < 0 {
		price = 0
	}
	inventory, err := strconv.Atoi(cell(row, colInventory))
	if err != nil || inventory < 0 {
		inventory = 0
	}

	imageURL := cell(row, colImageURL)
	if !isValidURL(imageURL) {
		imageURL = api.PlaceholderImageURL
	}

	hidden := cell(row, colHidden)

	return api.Product{
		ID:          cell(row, colID),
		Name:        cell(row, colName),
		Description: cell(row, colDescription),
		Price:       price,
		ImageURL:    imageURL,
		QRCode:      cell(row, colQRCode),
		Inventory:   inventory,
		Category:    cell(row, colCategory),
		Hidden:      strings.EqualFold(hidden, "true") || hidden == "1",
	}
}

// productRow renders the writable cells of a product in sheet column order,
// ID column excluded (the store owns ID assignment).
func productRow(name, description string, price float64, imageURL, qrCode string, inventory int, category string, hidden bool) []string {
	hiddenCell := "false"
	if hidden {
		hiddenCell = "true"
	}
	return []string{
		name,
		description,
		strconv.FormatFloat(price, 'f', -1, 64),
		imageURL,
		qrCode,
		strconv.Itoa(inventory),
		category,
		hiddenCell,
	}
}

// parseCompanyRow maps the settings row to a CompanyProfile. A nil or empty
// row yields the default profile; individual blank cells fall back field-wise.
func parseCompanyRow(row []string) api.CompanyProfile {
	def := api.DefaultCompanyProfile()
	if len(row) == 0 {
		return def
	}

	profile := api.CompanyProfile{
		Name:        fallback(cell(row, 0), def.Name),
		Tagline:     fallback(cell(row, 1), def.Tagline),
		Description: fallback(cell(row, 2), def.Description),
		Email:       fallback(cell(row, 3), def.Email),
		Phone:       fallback(cell(row, 4), def.Phone),
		Website:     fallback(cell(row, 5), def.Website),
		Address:     fallback(cell(row, 6), def.Address),
	}
	switch cell(row, 7) {
	case "TRUE":
		profile.ShowPrices = true
	case "FALSE":
		profile.ShowPrices = false
	default:
		profile.ShowPrices = def.ShowPrices
	}
	return profile
}

// companyRow renders a profile as the settings row, merging blank fields with
// the defaults so the sheet always holds a complete profile.
func companyRow(p api.CompanyProfile) []string {
	def := api.DefaultCompanyProfile()
	showPrices := "FALSE"
	if p.ShowPrices {
		showPrices = "TRUE"
	}
	return []string{
		fallback(strings.TrimSpace(p.Name), def.Name),
		fallback(strings.TrimSpace(p.Tagline), def.Tagline),
		fallback(strings.TrimSpace(p.Description), def.Description),
		fallback(strings.TrimSpace(p.Email), def.Email),
		fallback(strings.TrimSpace(p.Phone), def.Phone),
		fallback(strings.TrimSpace(p.Website), def.Website),
		fallback(strings.TrimSpace(p.Address), def.Address),
		showPrices,
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

// isValidURL matches the storefront's notion of a usable image URL:
// absolute, with scheme and host.
func isValidURL(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
