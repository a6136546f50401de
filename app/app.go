package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/meghashyamc/notesapp/config"
	"github.com/meghashyamc/notesapp/db/kvdb"
	"github.com/meghashyamc/notesapp/db/searchdb"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/services/importer"
	"github.com/meghashyamc/notesapp/services/index"
	"github.com/meghashyamc/notesapp/services/journal"
	"github.com/meghashyamc/notesapp/services/search"
	"github.com/meghashyamc/notesapp/services/session"
)

// App holds the long lived dependencies shared by the HTTP server and the
// command line.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	KVDB     *kvdb.BoltDB
	SearchDB *searchdb.BleveDB
	Journal  *journal.Store
	Search   *search.Service
	Sessions *session.Manager
	Index    *index.Service
	Importer *importer.Importer

	cancel context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config, logger logger.Logger) (*App, error) {
	kvDB, err := kvdb.New(logger, cfg)
	if err != nil {
		logger.Error("error creating kvDB", "err", err.Error())
		return nil, err
	}
	searchDB, err := searchdb.New(logger, cfg)
	if err != nil {
		logger.Error("error creating searchDB", "err", err.Error())
		kvDB.Close()
		return nil, err
	}

	store := journal.New(logger, kvDB, searchDB)
	if err := store.Load(); err != nil {
		kvDB.Close()
		searchDB.Close()
		return nil, fmt.Errorf("could not load notes: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	engine := search.NewEngine()
	sessions := session.NewManager(session.ManagerConfig{
		Logger:       logger,
		Source:       store,
		HistoryStore: kvDB,
		IdleTTL:      cfg.GetSessionTTL(),
		SessionOptions: []session.Option{
			session.WithDelay(cfg.GetSearchDebounce()),
			session.WithHistorySize(cfg.GetHistorySize()),
			session.WithCacheSize(cfg.GetQueryCacheSize()),
			session.WithCacheTTL(cfg.GetQueryCacheTTL()),
			session.WithEngine(engine),
			session.WithLogger(logger),
		},
	})
	store.Subscribe(sessions.NotesChanged)
	go sessions.Run(ctx)

	return &App{
		Config:   cfg,
		Logger:   logger,
		KVDB:     kvDB,
		SearchDB: searchDB,
		Journal:  store,
		Search:   search.New(logger, store, engine, searchDB),
		Sessions: sessions,
		Index:    index.New(ctx, logger, searchDB, store, kvDB),
		Importer: importer.New(logger, store),
		cancel:   cancel,
	}, nil
}

// Close stops background work and closes both databases.
func (a *App) Close() error {
	a.cancel()
	a.Sessions.CloseAll()
	return errors.Join(a.SearchDB.Close(), a.KVDB.Close())
}
