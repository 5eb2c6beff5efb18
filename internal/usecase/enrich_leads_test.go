package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/scoring"
	"github.com/xavierca1/leadsync/internal/usecase"
)

func interactionFor(leadID, summary string) interface{} {
	return mock.MatchedBy(func(in *entity.Interaction) bool {
		return in.LeadID == leadID && in.Type == entity.InteractionTypeSync && in.Summary == summary
	})
}

func TestEnrichPromotesQualifiedLead(t *testing.T) {
	leads := new(MockLeadStore)
	interactions := new(MockInteractionStore)
	recorder := newCountingRecorder()

	leads.On("PromoteStatus", mock.Anything, "hot", entity.StatusNew, entity.StatusQualified).Return(true, nil)
	interactions.On("Append", mock.Anything, interactionFor("hot", "Lead initially captured with score: 50")).Return(nil)

	uc := usecase.NewEnrichLeadsUseCase(leads, interactions, scoring.NewDefault(), recorder, nil, time.Second)
	results := uc.Execute(context.Background(), usecase.EnrichmentBatch{Leads: []entity.Lead{
		{ID: "hot", Name: "Hot", Email: "h@x.com", Phone: "1", Notes: "HNI client", Status: entity.StatusNew},
	}})

	require.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Score)
	assert.True(t, results[0].Promoted)
	assert.True(t, results[0].InteractionRecorded)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 1, recorder.promotions)
	assert.Equal(t, 1, recorder.enrichment[usecase.EnrichmentOK])
	leads.AssertExpectations(t)
	interactions.AssertExpectations(t)
}

func TestEnrichDoesNotPromoteBelowThreshold(t *testing.T) {
	leads := new(MockLeadStore)
	interactions := new(MockInteractionStore)
	interactions.On("Append", mock.Anything, interactionFor("cold", "Lead initially captured with score: 10")).Return(nil)

	uc := usecase.NewEnrichLeadsUseCase(leads, interactions, scoring.NewDefault(), nil, nil, time.Second)
	results := uc.Execute(context.Background(), usecase.EnrichmentBatch{Leads: []entity.Lead{
		{ID: "cold", Name: "Cold", Email: "c@x.com", Status: entity.StatusNew},
	}})

	assert.Equal(t, 10, results[0].Score)
	assert.False(t, results[0].Promoted)
	leads.AssertNotCalled(t, "PromoteStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichOnlyPromotesFromNew(t *testing.T) {
	leads := new(MockLeadStore)
	interactions := new(MockInteractionStore)
	interactions.On("Append", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewEnrichLeadsUseCase(leads, interactions, scoring.NewDefault(), nil, nil, time.Second)
	results := uc.Execute(context.Background(), usecase.EnrichmentBatch{Leads: []entity.Lead{
		{ID: "won", Name: "Won", Email: "w@x.com", Phone: "1", Notes: "investment", Status: entity.StatusWon},
	}})

	assert.Equal(t, 50, results[0].Score)
	assert.False(t, results[0].Promoted)
	leads.AssertNotCalled(t, "PromoteStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichIsolatesFailuresPerLead(t *testing.T) {
	leads := new(MockLeadStore)
	interactions := new(MockInteractionStore)
	recorder := newCountingRecorder()

	leads.On("PromoteStatus", mock.Anything, "a", entity.StatusNew, entity.StatusQualified).Return(false, errors.New("timeout"))
	interactions.On("Append", mock.Anything, interactionFor("a", "Lead initially captured with score: 50")).Return(nil)
	interactions.On("Append", mock.Anything, interactionFor("b", "Lead initially captured with score: 0")).Return(errors.New("connection reset"))
	interactions.On("Append", mock.Anything, interactionFor("c", "Lead initially captured with score: 20")).Return(nil)

	uc := usecase.NewEnrichLeadsUseCase(leads, interactions, scoring.NewDefault(), recorder, nil, time.Second)
	results := uc.Execute(context.Background(), usecase.EnrichmentBatch{Leads: []entity.Lead{
		{ID: "a", Name: "A", Email: "a@x.com", Phone: "1", Notes: "immediate", Status: entity.StatusNew},
		{ID: "b", Name: "B", Status: entity.StatusNew},
		{ID: "c", Name: "C", Email: "c@x.com", Phone: "3", Status: entity.StatusNew},
	}})

	require.Len(t, results, 3)

	// promotion failed but the audit record was still written
	assert.Error(t, results[0].Err)
	assert.False(t, results[0].Promoted)
	assert.True(t, results[0].InteractionRecorded)

	assert.Error(t, results[1].Err)
	assert.False(t, results[1].InteractionRecorded)

	assert.NoError(t, results[2].Err)
	assert.True(t, results[2].InteractionRecorded)

	assert.Equal(t, 2, recorder.enrichment[usecase.EnrichmentFailed])
	assert.Equal(t, 1, recorder.enrichment[usecase.EnrichmentOK])
	interactions.AssertNumberOfCalls(t, "Append", 3)
}

func TestEnrichRecoversFromPanic(t *testing.T) {
	leads := new(MockLeadStore)
	interactions := new(MockInteractionStore)
	interactions.On("Append", mock.Anything, interactionFor("a", "Lead initially captured with score: 10")).
		Panic("boom")
	interactions.On("Append", mock.Anything, interactionFor("b", "Lead initially captured with score: 10")).Return(nil)

	uc := usecase.NewEnrichLeadsUseCase(leads, interactions, scoring.NewDefault(), nil, nil, time.Second)

	var results []usecase.EnrichmentResult
	assert.NotPanics(t, func() {
		results = uc.Execute(context.Background(), usecase.EnrichmentBatch{Leads: []entity.Lead{
			{ID: "a", Email: "a@x.com", Status: entity.StatusNew},
			{ID: "b", Email: "b@x.com", Status: entity.StatusNew},
		}})
	})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Equal(t, "Unknown", results[0].Name)
	assert.NoError(t, results[1].Err)
}
