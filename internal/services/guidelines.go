package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const GuidelineDocType = "interview_guideline"

// GuidelineRetriever supplies reference material for the interviewer prompt.
type GuidelineRetriever interface {
	RetrieveGuidelines(ctx context.Context, query string) (string, error)
}

type GuidelineIndex interface {
	GuidelineRetriever
	IngestDocument(ctx context.Context, name, text string) (int, error)
}

type guidelineIndex struct {
	embedder  EmbeddingService
	qdrant    QdrantService
	chunker   TextChunker
	topK      int
	chunkSize int
	overlap   int
	log       *zap.Logger
}

func NewGuidelineIndex(embedder EmbeddingService, qdrant QdrantService, topK int, log *zap.Logger) GuidelineIndex {
	if topK < 1 {
		topK = 3
	}
	return &guidelineIndex{
		embedder:  embedder,
		qdrant:    qdrant,
		chunker:   NewTextChunker(),
		topK:      topK,
		chunkSize: 1000,
		overlap:   200,
		log:       log,
	}
}

// RetrieveGuidelines implements GuidelineRetriever.
func (g *guidelineIndex) RetrieveGuidelines(ctx context.Context, query string) (string, error) {
	embedding, err := g.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := g.qdrant.SearchSimilar(ctx, embedding, GuidelineDocType, g.topK)
	if err != nil {
		return "", fmt.Errorf("failed to search guidelines: %w", err)
	}

	return FormatRAGContext(results), nil
}

// IngestDocument chunks, embeds and stores a guideline document. It returns
// the number of chunks stored; chunks that fail are logged and skipped.
func (g *guidelineIndex) IngestDocument(ctx context.Context, name, text string) (int, error) {
	chunks := g.chunker.ChunkText(text, g.chunkSize, g.overlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s has no text to index", name)
	}

	// Re-ingesting a document replaces its previous chunks.
	if err := g.qdrant.DeleteDocument(ctx, name); err != nil {
		g.log.Warn("Failed to clear previous chunks", zap.String("document", name), zap.Error(err))
	}

	stored := 0
	for i, chunk := range chunks {
		embedding, err := g.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			g.log.Warn("Failed to embed chunk", zap.String("document", name), zap.Int("chunk", i+1), zap.Error(err))
			continue
		}

		if err := g.qdrant.UpsertDocument(ctx, name, GuidelineDocType, chunk, embedding); err != nil {
			g.log.Warn("Failed to store chunk", zap.String("document", name), zap.Int("chunk", i+1), zap.Error(err))
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("no chunks of %s could be stored", name)
	}
	return stored, nil
}
