package promptdeck

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/mwiater/promptdeck/internal/settings"
)

// Collaborators that tests swap out.
var (
	newFetcher = func() catalog.Fetcher {
		return catalog.NewClient(nil, GetConfig().RequestTimeout())
	}
	copyToClipboard = clipboard.WriteAll
)

// openStore loads the settings document named by the configuration and returns
// a store that writes every change back to it.
func openStore() (*settings.Store, *settings.FileStore, error) {
	path, err := GetConfig().SettingsFilePath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve settings path: %w", err)
	}
	file, err := settings.NewFileStore(path)
	if err != nil {
		return nil, nil, err
	}
	loaded, err := file.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings from %s: %w", file.Path(), err)
	}
	return settings.NewStore(loaded, file), file, nil
}
