package source

import (
	"fmt"
	"strings"

	"expensedash/internal/config"
)

// placeholderMarker appears in the unconfigured export URL template.
const placeholderMarker = "YOUR_SHEET_ID"

// IsPlaceholder reports whether url is unset or still the template value.
func IsPlaceholder(url string) bool {
	url = strings.TrimSpace(url)
	return url == "" || strings.Contains(url, placeholderMarker)
}

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(strings.ToLower(appConfig.DataSource))
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid source type in config: %s", appConfig.DataSource)
	}

	return Config{
		Type:         t,
		URL:          appConfig.SourceURL,
		FetchTimeout: appConfig.FetchTimeout,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Resolved returns the type that will actually be built: a CSV source
// without a real URL degrades to the sample set.
func (c Config) Resolved() Type {
	if c.Type == CSV && IsPlaceholder(c.URL) {
		return Sample
	}
	return c.Type
}
