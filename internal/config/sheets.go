package config

import (
	"fmt"
	"os"

	"github.com/Veraticus/spendcraft/internal/sheets"
	"github.com/spf13/viper"
)

// DefaultTokenFile stores the OAuth2 token obtained by "sheets auth".
const DefaultTokenFile = "$HOME/.config/spendcraft/sheets-token.json"

// LoadSheetsConfig resolves the Google Sheets settings. Precedence:
// viper (config file or SPENDCRAFT_SHEETS_* variables), then the
// GOOGLE_SHEETS_* variables, then a saved OAuth2 token, then defaults.
func LoadSheetsConfig(vp *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := vp.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := vp.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := vp.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := vp.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := vp.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := vp.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}
	if v := vp.GetString("sheets.timezone"); v != "" {
		config.TimeZone = v
	}
	if v := vp.GetString("display.currency"); v != "" {
		config.Currency = v
	}

	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == sheets.DefaultSpreadsheetName {
		if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
			config.SpreadsheetName = v
		}
	}

	if config.RefreshToken == "" && config.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(SheetsTokenFile(vp)); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets configuration: %w", err)
	}

	return &config, nil
}

// SheetsTokenFile returns the path of the saved OAuth2 token.
func SheetsTokenFile(vp *viper.Viper) string {
	if v := vp.GetString("sheets.token_file"); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath(DefaultTokenFile)
}
