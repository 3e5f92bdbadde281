// Package appdata resolves the OS specific directory where the relay keeps
// its profile (configuration and event store).
package appdata

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Dir returns the data directory for the given application name, under the
// XDG config home (~/.config on linux). The roaming flag is accepted for
// windows callers and otherwise ignored.
func Dir(appName string, roaming bool) string {
	appName = strings.TrimPrefix(appName, ".")
	if appName == "" || appName == "." {
		return "."
	}
	return filepath.Join(xdg.ConfigHome, strings.ToLower(appName))
}
