package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gamerec/internal/domain"
)

// Config configures tokenization and the n-gram range of the embedder.
type Config struct {
	NgramMin  int
	NgramMax  int
	StopWords string
}

// Embedder implements a TF-IDF vectorizer over unigrams and word n-grams.
// It builds a vocabulary from the corpus and computes IDF values.
type Embedder struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	prepared     bool
	ngramMin     int
	ngramMax     int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.NgramMin <= 0 {
		cfg.NgramMin = 1
	}
	if cfg.NgramMax <= 0 {
		cfg.NgramMax = 2
	}
	if cfg.NgramMax < cfg.NgramMin {
		return nil, fmt.Errorf("invalid ngram range %d..%d", cfg.NgramMin, cfg.NgramMax)
	}
	stop, err := StopWords(cfg.StopWords)
	if err != nil {
		return nil, err
	}
	return &Embedder{
		vocabulary:   make(map[string]int),
		ngramMin:     cfg.NgramMin,
		ngramMax:     cfg.NgramMax,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    stop,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
// A corpus without any token yields an empty vocabulary.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range e.analyze(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed projects text into the fitted space. Terms outside the vocabulary
// are ignored; text with no known term yields the zero vector.
func (e *Embedder) Embed(text string) (domain.Vector, error) {
	if !e.prepared {
		return domain.Vector{}, errors.New("tfidf embedder not prepared")
	}
	tf := make(map[int]int)
	for _, term := range e.analyze(text) {
		if idx, ok := e.vocabulary[term]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return domain.Vector{}, nil
	}
	vec := domain.Vector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	norm := 0.0
	for _, idx := range vec.Indices {
		w := float64(tf[idx]) * e.idf[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	// L2 normalize
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec, nil
}

// analyze turns text into the list of terms (n-grams) counted by the model.
// Stop words are removed before n-grams are formed.
func (e *Embedder) analyze(text string) []string {
	tokens := e.tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	var terms []string
	for n := e.ngramMin; n <= e.ngramMax; n++ {
		if n == 1 {
			terms = append(terms, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func (e *Embedder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
