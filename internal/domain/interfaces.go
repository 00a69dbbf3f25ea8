package domain

import "io"

// Item is a single catalog entry loaded from the uploaded file.
type Item struct {
	ID          int
	Name        string
	Description string
	Genres      string
	Developer   string
	Price       string
	Rating      string
	// ComposedText is the weighted text used for vectorization.
	ComposedText string
}

// Vector is a sparse numeric vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero component.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// SearchResult represents a matching item with a similarity score.
type SearchResult struct {
	Item  Item
	Score float64
}

// Composer builds the weighted text representation of an item.
type Composer interface {
	Compose(item Item) string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) (Vector, error)
}

// VectorStore holds item vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(items []Item, vectors []Vector) error
	Vector(id int) (Vector, bool)
	Search(vector Vector, topK int) ([]SearchResult, error)
	Clear() error
}

// Summarizer produces a brief description of a loaded catalog.
type Summarizer interface {
	Summarize(items []Item, maxEntries int) (string, error)
}

// CatalogService defines the operations exposed by the application core.
type CatalogService interface {
	Load(r io.Reader, source string) (summary string, err error)
	LoadFile(path string) (summary string, err error)
	Items() []Item
	Search(query string, topN int) ([]SearchResult, error)
	Recommend(name string, n int) ([]SearchResult, error)
	RecommendByID(id int, n int) ([]SearchResult, error)
}
