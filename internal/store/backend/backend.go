package backend

import (
	"fmt"

	"taskforce/internal/config"
	"taskforce/internal/store"
	"taskforce/internal/store/boltstore"
	"taskforce/internal/store/memory"
	"taskforce/internal/store/sqlite"
)

// Open returns the store selected by cfg.Store.
func Open(cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreSQLite:
		return sqlite.Open(cfg.DBPath)
	case config.StoreBolt:
		return boltstore.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
