package main

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/config"
	"github.com/xavierca1/leadsync/internal/infra/database"
	"github.com/xavierca1/leadsync/internal/infra/http/handlers"
	"github.com/xavierca1/leadsync/internal/infra/memory"
	"github.com/xavierca1/leadsync/internal/infra/postgrest"
	"github.com/xavierca1/leadsync/internal/usecase"
)

// storeBackend bundles the collaborators one store driver provides.
type storeBackend struct {
	leads        usecase.LeadStore
	interactions usecase.InteractionStore
	pinger       handlers.Pinger
	close        func() error
}

func openStore(ctx context.Context, sc config.StoreConfig, log *zap.Logger) (*storeBackend, error) {
	switch sc.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewDBConnection(ctx, sc.SQLDriver, sc.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if sc.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info("database schema applied")
		}
		leads := database.NewLeadRepository(db)
		return &storeBackend{
			leads:        leads,
			interactions: database.NewInteractionRepository(db),
			pinger:       leads,
			close:        db.Close,
		}, nil

	case config.StoreDriverPostgREST:
		client := postgrest.NewClient(sc.PostgRESTURL, sc.APIKey, sc.Timeout, log.Named("postgrest"))
		return &storeBackend{
			leads:        client,
			interactions: client,
			pinger:       client,
			close:        func() error { return nil },
		}, nil

	case config.StoreDriverMemory:
		log.Warn("using in-memory store, leads are lost on restart")
		store := memory.NewStore()
		return &storeBackend{
			leads:        store,
			interactions: store,
			pinger:       store,
			close:        func() error { return nil },
		}, nil
	}

	return nil, eris.Errorf("unknown store driver %q", sc.Driver)
}

func openSQL(ctx context.Context, sc config.StoreConfig) (*sql.DB, error) {
	if sc.Driver != config.StoreDriverPostgres {
		return nil, eris.Errorf("store driver %q has no SQL schema to manage", sc.Driver)
	}
	return database.NewDBConnection(ctx, sc.SQLDriver, sc.DatabaseURL)
}
