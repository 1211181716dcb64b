package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	failOn string
}

func (e *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embedding failed")
	}
	return []float32{float32(len(text))}, nil
}

type fakeQdrant struct {
	upserted []string
	deleted  []string
	results  []SearchResult
	docType  string
}

func (q *fakeQdrant) InitCollection(ctx context.Context) error { return nil }

func (q *fakeQdrant) UpsertDocument(ctx context.Context, docID, docType, text string, embedding []float32) error {
	q.upserted = append(q.upserted, docID+":"+text)
	return nil
}

func (q *fakeQdrant) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	q.docType = docType
	if len(q.results) > limit {
		return q.results[:limit], nil
	}
	return q.results, nil
}

func (q *fakeQdrant) DeleteDocument(ctx context.Context, docID string) error {
	q.deleted = append(q.deleted, docID)
	return nil
}

func TestGuidelineIndex_IngestDocument(t *testing.T) {
	qdrant := &fakeQdrant{}
	index := NewGuidelineIndex(&fakeEmbedder{failOn: "skip me"}, qdrant, 3, zap.NewNop()).(*guidelineIndex)
	index.chunkSize = 30
	index.overlap = 0

	text := "Ask about testing strategy.\n\nskip me please, thanks.\n\nDig into error handling."
	stored, err := index.IngestDocument(context.Background(), "rubric.pdf", text)
	require.NoError(t, err)

	assert.Equal(t, 2, stored)
	assert.Equal(t, []string{"rubric.pdf"}, qdrant.deleted)
	assert.Equal(t, []string{
		"rubric.pdf:Ask about testing strategy.",
		"rubric.pdf:Dig into error handling.",
	}, qdrant.upserted)
}

func TestGuidelineIndex_IngestDocumentErrors(t *testing.T) {
	index := NewGuidelineIndex(&fakeEmbedder{failOn: "all"}, &fakeQdrant{}, 3, zap.NewNop())

	_, err := index.IngestDocument(context.Background(), "empty.pdf", "  ")
	assert.ErrorContains(t, err, "no text to index")

	_, err = index.IngestDocument(context.Background(), "bad.pdf", "all fails")
	assert.ErrorContains(t, err, "no chunks of bad.pdf could be stored")
}

func TestGuidelineIndex_RetrieveGuidelines(t *testing.T) {
	qdrant := &fakeQdrant{results: []SearchResult{
		{Text: "one", Score: 0.9},
		{Text: "two", Score: 0.8},
		{Text: "three", Score: 0.7},
	}}
	index := NewGuidelineIndex(&fakeEmbedder{}, qdrant, 2, zap.NewNop())

	got, err := index.RetrieveGuidelines(context.Background(), "Go interview")
	require.NoError(t, err)

	assert.Equal(t, GuidelineDocType, qdrant.docType)
	assert.Contains(t, got, "one")
	assert.Contains(t, got, "two")
	assert.NotContains(t, got, "three")

	failing := NewGuidelineIndex(&fakeEmbedder{failOn: "Go"}, qdrant, 2, zap.NewNop())
	_, err = failing.RetrieveGuidelines(context.Background(), "Go interview")
	assert.ErrorContains(t, err, "failed to generate query embedding")
}
