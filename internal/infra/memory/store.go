// Package memory is an in-process lead store for local runs and tests. It
// enforces the same uniqueness rules as the leads table (primary key and
// email) under a single mutex, so the insert itself is the arbiter.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/xavierca1/leadsync/internal/entity"
)

type Store struct {
	mu           sync.Mutex
	leads        map[string]*entity.Lead
	byEmail      map[string]string
	order        []string
	interactions []entity.Interaction
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		leads:   make(map[string]*entity.Lead),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "memory: insert lead")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if lead.ID != "" {
		if _, exists := s.leads[lead.ID]; exists {
			return nil, eris.Wrapf(entity.ErrDuplicateLead, "memory: id %s", lead.ID)
		}
	}
	if lead.Email != "" {
		if _, exists := s.byEmail[lead.Email]; exists {
			return nil, eris.Wrapf(entity.ErrDuplicateLead, "memory: email %s", lead.Email)
		}
	}
	if !lead.Status.Valid() {
		return nil, eris.Wrapf(entity.ErrStoreRejected, "memory: invalid status %q", lead.Status)
	}

	stored := cloneLead(*lead)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.leads[stored.ID] = &stored
	if stored.Email != "" {
		s.byEmail[stored.Email] = stored.ID
	}
	s.order = append(s.order, stored.ID)

	out := cloneLead(stored)
	return &out, nil
}

func (s *Store) PromoteStatus(ctx context.Context, id string, from, to entity.LeadStatus) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, eris.Wrap(err, "memory: promote status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = to
	l.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) Append(ctx context.Context, in *entity.Interaction) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "memory: append interaction")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[in.LeadID]; !ok {
		return eris.Wrapf(entity.ErrStoreRejected, "memory: unknown lead %s", in.LeadID)
	}

	rec := *in
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = s.now()
	s.interactions = append(s.interactions, rec)

	in.ID = rec.ID
	in.CreatedAt = rec.CreatedAt
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Lead(id string) (entity.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return entity.Lead{}, false
	}
	return cloneLead(*l), true
}

// Leads returns every stored lead in insertion order.
func (s *Store) Leads() []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Lead, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneLead(*s.leads[id]))
	}
	return out
}

func (s *Store) Interactions(leadID string) []entity.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Interaction
	for _, in := range s.interactions {
		if leadID == "" || in.LeadID == leadID {
			out = append(out, in)
		}
	}
	return out
}

func cloneLead(l entity.Lead) entity.Lead {
	l.Metadata = maps.Clone(l.Metadata)
	return l
}
