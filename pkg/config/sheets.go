package config

import (
	"fmt"
	"strings"
	"time"
)

// SheetsConfig holds the Google Sheets backing store settings. The private key
// is supplied with literal "\n" sequences when it comes from an env var; the
// store normalizes them back to newlines.
type SheetsConfig struct {
	SpreadsheetID string        `koanf:"spreadsheetId"`
	ClientEmail   string        `koanf:"clientEmail"`
	PrivateKey    string        `koanf:"privateKey"`
	Timeout       time.Duration `koanf:"timeout"`
}

// String returns a string representation with the private key masked.
func (c *SheetsConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Sheets ---\n")
	b.WriteString(fmt.Sprintf("  spreadsheetId: %s\n", c.SpreadsheetID))
	b.WriteString(fmt.Sprintf("  clientEmail: %s\n", c.ClientEmail))
	b.WriteString(fmt.Sprintf("  privateKey: %s\n", maskSecret(c.PrivateKey)))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *SheetsConfig) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("sheets spreadsheet ID is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("sheets request timeout is not configured")
	}
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}
