package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/config"
	"github.com/xavierca1/leadsync/internal/entity"
)

func TestOpenStoreMemory(t *testing.T) {
	store, err := openStore(context.Background(), config.StoreConfig{Driver: config.StoreDriverMemory}, zap.NewNop())
	require.NoError(t, err)
	defer store.close()

	saved, err := store.leads.Insert(context.Background(), &entity.Lead{Name: "A", Status: entity.StatusNew})
	require.NoError(t, err)
	require.NoError(t, store.interactions.Append(context.Background(), entity.NewSyncInteraction(saved.ID, 0)))
	assert.NoError(t, store.pinger.Ping(context.Background()))
}

func TestOpenStorePostgRESTIsLazy(t *testing.T) {
	sc := config.StoreConfig{
		Driver:       config.StoreDriverPostgREST,
		PostgRESTURL: "http://127.0.0.1:1",
		APIKey:       "k",
		Timeout:      time.Second,
	}
	store, err := openStore(context.Background(), sc, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, store.leads)
	assert.NoError(t, store.close())
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), config.StoreConfig{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenSQLRequiresPostgres(t *testing.T) {
	_, err := openSQL(context.Background(), config.StoreConfig{Driver: config.StoreDriverMemory})
	assert.Error(t, err)
}

func TestServeRejectsInvalidConfigBeforeListening(t *testing.T) {
	cfg = &config.Config{
		Server:     config.ServerConfig{Port: 8000},
		Store:      config.StoreConfig{Driver: "mongo", Timeout: time.Second},
		Enrichment: config.EnrichmentConfig{Driver: config.EnrichmentDriverMemory, Workers: 1, QueueSize: 1},
	}
	logger = zap.NewNop()
	t.Cleanup(func() { cfg, logger = nil, nil })

	err := serveCmd.RunE(serveCmd, nil)
	assert.ErrorContains(t, err, "store.driver")
}
