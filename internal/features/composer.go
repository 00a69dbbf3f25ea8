package features

import (
	"strings"

	"gamerec/internal/domain"
)

// Weights sets how many times each field is repeated in the composed text.
type Weights struct {
	Name        int
	Genres      int
	Description int
	Developer   int
}

// DefaultWeights favours name and genre matches over description and developer.
func DefaultWeights() Weights {
	return Weights{Name: 3, Genres: 2, Description: 1, Developer: 1}
}

// WeightedComposer concatenates repeated item fields into one text blob.
// Repetition inflates term frequency, biasing similarity toward heavier fields.
type WeightedComposer struct {
	weights Weights
}

func NewWeightedComposer(w Weights) *WeightedComposer {
	d := DefaultWeights()
	if w.Name <= 0 {
		w.Name = d.Name
	}
	if w.Genres <= 0 {
		w.Genres = d.Genres
	}
	if w.Description <= 0 {
		w.Description = d.Description
	}
	if w.Developer <= 0 {
		w.Developer = d.Developer
	}
	return &WeightedComposer{weights: w}
}

// Compose returns the weighted text for a single item. Empty fields are skipped.
func (c *WeightedComposer) Compose(item domain.Item) string {
	var parts []string
	parts = appendRepeated(parts, item.Name, c.weights.Name)
	parts = appendRepeated(parts, item.Genres, c.weights.Genres)
	parts = appendRepeated(parts, item.Description, c.weights.Description)
	parts = appendRepeated(parts, item.Developer, c.weights.Developer)
	return strings.Join(parts, " ")
}

func appendRepeated(parts []string, field string, times int) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return parts
	}
	for i := 0; i < times; i++ {
		parts = append(parts, field)
	}
	return parts
}
