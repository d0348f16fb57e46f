package providers

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/cerebero/cerebero-server/internal/config"
	"github.com/cerebero/cerebero-server/internal/search"
	"github.com/cerebero/cerebero-server/internal/store"
	"github.com/cerebero/cerebero-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the persistence backend selected by configuration
// and wires it to the search index so writes stay indexed.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	var st store.Store
	var err error

	switch cfg.Storage.Backend {
	case config.BackendBadger:
		st, err = store.New(filepath.Join(cfg.Storage.DataPath, "db"), log)
	case config.BackendSQLite:
		st, err = sqlite.Open(filepath.Join(cfg.Storage.DataPath, "cerebero.db"), log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	st.SetSearchIndexer(search.StoreIndexer{Index: indexHandle.SearchIndex})

	log.Info("Database initialized", "backend", cfg.Storage.Backend, "path", cfg.Storage.DataPath)

	return &StoreHandle{Store: st}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}
