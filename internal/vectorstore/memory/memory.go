package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"gamerec/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   []domain.Vector
	norms     []float64
	items     []domain.Item
	byID      map[int]int
}

func NewStorage() *Storage { return &Storage{byID: make(map[int]int)} }

// Init resets the store for vectors of the given dimension. Zero is allowed
// for a corpus whose vocabulary is empty.
func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.reset()
	return nil
}

func (s *Storage) Upsert(items []domain.Item, vectors []domain.Vector) error {
	if len(items) != len(vectors) {
		return errors.New("items and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v.Indices) != len(v.Values) {
			return errors.New("malformed sparse vector")
		}
		for _, idx := range v.Indices {
			if idx < 0 || idx >= s.dimension {
				return errors.New("vector dimension mismatch")
			}
		}
	}
	for i, it := range items {
		if pos, ok := s.byID[it.ID]; ok {
			s.items[pos] = it
			s.vectors[pos] = vectors[i]
			s.norms[pos] = l2(vectors[i])
			continue
		}
		s.byID[it.ID] = len(s.items)
		s.items = append(s.items, it)
		s.vectors = append(s.vectors, vectors[i])
		s.norms = append(s.norms, l2(vectors[i]))
	}
	return nil
}

// Vector returns the stored vector of the item with the given ID.
func (s *Storage) Vector(id int) (domain.Vector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.byID[id]
	if !ok {
		return domain.Vector{}, false
	}
	return s.vectors[pos], true
}

// Search scores every stored item against vector and returns the topK best,
// highest first. Equal scores keep insertion order.
func (s *Storage) Search(vector domain.Vector, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	qn := l2(vector)
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = cosine(vector, qn, s.vectors[i], s.norms[i])
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Item: s.items[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Storage) reset() {
	s.vectors = nil
	s.norms = nil
	s.items = nil
	s.byID = make(map[int]int)
}

// cosine is clamped to [0, 1]; a zero vector scores 0 against anything.
func cosine(a domain.Vector, an float64, b domain.Vector, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	c := dot(a, b) / (an * bn)
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func dot(a, b domain.Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func l2(v domain.Vector) float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return vals[idxs[i]] > vals[idxs[j]] })
	return idxs
}
