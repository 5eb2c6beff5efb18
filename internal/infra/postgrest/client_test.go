package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadsync/internal/entity"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret", time.Second, nil)
}

func TestInsertSendsHeadersAndReturnsStoredRow(t *testing.T) {
	var got leadRow
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, leadsPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		got.ID = "3f0c2f7e-5d2a-4c4b-9a57-0a8d8f1f2a11"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]leadRow{got})
	})

	lead := &entity.Lead{
		Name:     "Asha",
		Email:    "asha@example.com",
		Status:   entity.StatusNew,
		Metadata: entity.Metadata{entity.MetaLocation: "Mumbai"},
	}
	saved, err := c.Insert(context.Background(), lead)

	require.NoError(t, err)
	assert.Equal(t, "3f0c2f7e-5d2a-4c4b-9a57-0a8d8f1f2a11", saved.ID)
	assert.Equal(t, "asha@example.com", saved.Email)
	assert.Equal(t, "Mumbai", saved.Metadata.Location())
	assert.Nil(t, got.Phone)
	assert.Empty(t, got.ID)
}

func TestInsertStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"conflict is duplicate", http.StatusConflict, `{"code":"23505"}`, entity.ErrDuplicateLead},
		{"bad request is rejected", http.StatusBadRequest, `{"code":"22P02"}`, entity.ErrStoreRejected},
		{"forbidden is rejected", http.StatusForbidden, `{}`, entity.ErrStoreRejected},
		{"server error is rejected", http.StatusInternalServerError, ``, entity.ErrStoreRejected},
		{"empty representation is an echo", http.StatusCreated, `[]`, entity.ErrEmptyEcho},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			saved, err := c.Insert(context.Background(), &entity.Lead{Name: "x", Status: entity.StatusNew})
			assert.Nil(t, saved)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInsertTransportFailureIsUnclassified(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "k", 200*time.Millisecond, nil)

	_, err := c.Insert(context.Background(), &entity.Lead{Name: "x", Status: entity.StatusNew})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrStoreRejected)
	assert.NotErrorIs(t, err, entity.ErrDuplicateLead)
	assert.NotErrorIs(t, err, entity.ErrEmptyEcho)
}

func TestPromoteStatusFiltersOnCurrentStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.lead-1", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.New", r.URL.Query().Get("status"))

		var patch statusPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, "Qualified", patch.Status)

		_, _ = io.WriteString(w, `[{"id":"lead-1","name":"x","status":"Qualified","meta_data":{}}]`)
	})

	ok, err := c.PromoteStatus(context.Background(), "lead-1", entity.StatusNew, entity.StatusQualified)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPromoteStatusNoMatchingRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	ok, err := c.PromoteStatus(context.Background(), "lead-1", entity.StatusNew, entity.StatusQualified)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppendInteraction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, interactionsPath, r.URL.Path)

		var row interactionRow
		require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
		assert.Equal(t, "lead-1", row.LeadID)
		assert.Equal(t, entity.InteractionTypeSync, row.Type)
		require.NotNil(t, row.Summary)
		assert.Equal(t, "Lead initially captured with score: 50", *row.Summary)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"int-1","lead_id":"lead-1","type":"Sync"}]`)
	})

	in := entity.NewSyncInteraction("lead-1", 50)
	require.NoError(t, c.Append(context.Background(), in))
	assert.Equal(t, "int-1", in.ID)
}

func TestAppendInteractionRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	err := c.Append(context.Background(), entity.NewSyncInteraction("lead-1", 0))
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[]`)
	})
	assert.NoError(t, c.Ping(context.Background()))

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, down.Ping(context.Background()))
}
