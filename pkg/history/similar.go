package history

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// Match is a similarity search result over past goals.
type Match struct {
	ID         string  `json:"id"`
	Goal       string  `json:"goal"`
	Similarity float32 `json:"similarity"`
}

// SimilarityIndex maintains an in-memory vector index over past goals so
// related plans can be surfaced. Embeddings come from a local Ollama
// instance; when it is unreachable the index degrades to empty results.
type SimilarityIndex struct {
	collection *chromem.Collection
}

// NewSimilarityIndex creates an index using Ollama embeddings.
func NewSimilarityIndex(ollamaURL, embedModel string) (*SimilarityIndex, error) {
	db := chromem.NewDB()

	embed := chromem.NewEmbeddingFuncOllama(embedModel, ollamaURL+"/api")
	collection, err := db.CreateCollection("plan-goals", nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &SimilarityIndex{collection: collection}, nil
}

// Add indexes a history item's goal. Embedding failures propagate so the
// caller can log and move on.
func (idx *SimilarityIndex) Add(ctx context.Context, item Item) error {
	if idx == nil {
		return nil
	}

	return idx.collection.AddDocument(ctx, chromem.Document{
		ID:      item.ID,
		Content: item.Goal,
		Metadata: map[string]string{
			"goal": item.Goal,
		},
	})
}

// Query returns the most similar past goals, best first.
func (idx *SimilarityIndex) Query(ctx context.Context, goal string, limit int) ([]Match, error) {
	if idx == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	// Never request more results than documents held
	count := idx.collection.Count()
	if limit > count {
		limit = count
	}
	if limit < 1 {
		return nil, nil
	}

	docs, err := idx.collection.Query(ctx, goal, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	matches := make([]Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, Match{
			ID:         doc.ID,
			Goal:       doc.Metadata["goal"],
			Similarity: doc.Similarity,
		})
	}
	return matches, nil
}
