package service

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"gamerec/internal/domain"
)

// ErrNoCatalog is returned when searching before a catalog has been loaded.
var ErrNoCatalog = errors.New("no catalog loaded")

// Loader reads catalog items from a file or stream.
type Loader interface {
	Load(r io.Reader, source string) ([]domain.Item, error)
	LoadFile(path string) ([]domain.Item, error)
}

// Options holds result-size defaults and cache sizing.
type Options struct {
	TopN               int
	NumRecommendations int
	SummaryMaxEntries  int
	FitCacheSize       int
	Logger             *zerolog.Logger
}

var _ domain.CatalogService = (*CatalogServiceImpl)(nil)

// fitted is a vector space built for one corpus.
type fitted struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

// CatalogServiceImpl is one user session: it owns the loaded corpus and its
// fitted vector space. Sessions share no state.
type CatalogServiceImpl struct {
	loader      Loader
	composer    domain.Composer
	newEmbedder func() (domain.Embedder, error)
	newStore    func() domain.VectorStore
	summarizer  domain.Summarizer
	opts        Options
	log         zerolog.Logger

	fits *lru.Cache[string, *fitted]

	mu      sync.RWMutex
	items   []domain.Item
	byName  map[string]int
	current *fitted
}

func NewCatalogService(loader Loader, composer domain.Composer, newEmbedder func() (domain.Embedder, error), newStore func() domain.VectorStore, summarizer domain.Summarizer, opts Options) (*CatalogServiceImpl, error) {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.NumRecommendations <= 0 {
		opts.NumRecommendations = 5
	}
	if opts.FitCacheSize <= 0 {
		opts.FitCacheSize = 4
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	fits, err := lru.New[string, *fitted](opts.FitCacheSize)
	if err != nil {
		return nil, fmt.Errorf("fit cache: %w", err)
	}
	return &CatalogServiceImpl{
		loader:      loader,
		composer:    composer,
		newEmbedder: newEmbedder,
		newStore:    newStore,
		summarizer:  summarizer,
		opts:        opts,
		log:         logger.With().Str("component", "catalog").Logger(),
		fits:        fits,
	}, nil
}

// LoadFile loads the catalog at path and returns its summary.
func (s *CatalogServiceImpl) LoadFile(path string) (string, error) {
	items, err := s.loader.LoadFile(path)
	if err != nil {
		s.log.Warn().Err(err).Str("source", path).Msg("catalog load failed")
		return "", err
	}
	return s.ingest(items, path)
}

// Load reads a catalog from r and returns its summary. On failure the
// previously loaded catalog stays active.
func (s *CatalogServiceImpl) Load(r io.Reader, source string) (string, error) {
	items, err := s.loader.Load(r, source)
	if err != nil {
		s.log.Warn().Err(err).Str("source", source).Msg("catalog load failed")
		return "", err
	}
	return s.ingest(items, source)
}

func (s *CatalogServiceImpl) ingest(items []domain.Item, source string) (string, error) {
	for i := range items {
		items[i].ComposedText = s.composer.Compose(items[i])
	}
	key := corpusKey(items)
	fit, ok := s.fits.Get(key)
	if ok {
		s.log.Debug().Str("source", source).Str("corpus", key).Msg("reusing fitted index")
	} else {
		var err error
		fit, err = s.fit(items)
		if err != nil {
			return "", err
		}
		s.fits.Add(key, fit)
		s.log.Info().Str("source", source).Int("items", len(items)).Int("dimension", fit.embedder.Dimension()).Msg("index fitted")
	}
	summary, err := s.summarizer.Summarize(items, s.opts.SummaryMaxEntries)
	if err != nil {
		return "", err
	}

	byName := make(map[string]int, len(items))
	for i, it := range items {
		// duplicate names resolve to the first occurrence
		if _, dup := byName[it.Name]; !dup {
			byName[it.Name] = i
		}
	}
	s.mu.Lock()
	s.items = items
	s.byName = byName
	s.current = fit
	s.mu.Unlock()
	return summary, nil
}

func (s *CatalogServiceImpl) fit(items []domain.Item) (*fitted, error) {
	emb, err := s.newEmbedder()
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].ComposedText
	}
	if err := emb.Prepare(texts); err != nil {
		return nil, fmt.Errorf("fit index: %w", err)
	}
	store := s.newStore()
	if err := store.Init(emb.Dimension()); err != nil {
		return nil, err
	}
	vectors := make([]domain.Vector, len(items))
	for i := range items {
		vec, err := emb.Embed(texts[i])
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	if err := store.Upsert(items, vectors); err != nil {
		return nil, err
	}
	return &fitted{embedder: emb, store: store}, nil
}

// Items returns a copy of the loaded catalog in file order.
func (s *CatalogServiceImpl) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Lookup returns the first item with exactly the given name.
func (s *CatalogServiceImpl) Lookup(name string) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.byName[name]
	if !ok {
		return domain.Item{}, false
	}
	return s.items[pos], true
}

// Search ranks the catalog against free text. topN <= 0 uses the default.
// A query sharing no term with the catalog scores every item 0.
func (s *CatalogServiceImpl) Search(query string, topN int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoCatalog
	}
	if topN <= 0 {
		topN = s.opts.TopN
	}
	vec, err := s.current.embedder.Embed(query)
	if err != nil {
		return nil, err
	}
	if vec.IsZero() {
		s.log.Debug().Str("query", query).Msg("query has no vocabulary overlap")
	}
	return s.current.store.Search(vec, topN)
}

// Recommend returns the items most similar to the first item named name.
// An unknown name yields an empty result. Rows sharing the name are excluded,
// so the result can be shorter than n when names repeat.
func (s *CatalogServiceImpl) Recommend(name string, n int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoCatalog
	}
	pos, ok := s.byName[name]
	if !ok {
		s.log.Debug().Str("name", name).Msg("recommend: unknown item")
		return []domain.SearchResult{}, nil
	}
	return s.similar(s.items[pos], n, true)
}

// RecommendByID is Recommend keyed by row ID, which is unambiguous when names repeat.
func (s *CatalogServiceImpl) RecommendByID(id int, n int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoCatalog
	}
	if id < 0 || id >= len(s.items) {
		return []domain.SearchResult{}, nil
	}
	return s.similar(s.items[id], n, false)
}

func (s *CatalogServiceImpl) similar(item domain.Item, n int, excludeSameName bool) ([]domain.SearchResult, error) {
	if n <= 0 {
		n = s.opts.NumRecommendations
	}
	vec, ok := s.current.store.Vector(item.ID)
	if !ok {
		return []domain.SearchResult{}, nil
	}
	ranked, err := s.current.store.Search(vec, len(s.items))
	if err != nil {
		return nil, err
	}
	out := make([]domain.SearchResult, 0, n)
	for _, r := range ranked {
		if len(out) == n {
			break
		}
		if r.Item.ID == item.ID || (excludeSameName && r.Item.Name == item.Name) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// corpusKey identifies a corpus by the digest of every item field.
func corpusKey(items []domain.Item) string {
	h := sha1.New()
	for _, it := range items {
		for _, f := range []string{it.Name, it.Description, it.Genres, it.Developer, it.Price, it.Rating, it.ComposedText} {
			_, _ = io.WriteString(h, f)
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
