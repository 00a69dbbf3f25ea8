package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gamerec/internal/domain"
)

// Columns maps item fields to CSV header names.
type Columns struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Genres      string `yaml:"genres"`
	Price       string `yaml:"price"`
	Developer   string `yaml:"developer"`
	Rating      string `yaml:"rating"`
}

// DefaultColumns returns the header names of the stock game catalog export.
func DefaultColumns() Columns {
	return Columns{
		Name:        "Название",
		Description: "Описание",
		Genres:      "Жанры",
		Price:       "Цена",
		Developer:   "Разработчик",
		Rating:      "Общая оценка",
	}
}

// DataLoadError reports a catalog that could not be read or parsed.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// ErrMissingNameColumn is wrapped by DataLoadError when the name column is absent.
var ErrMissingNameColumn = errors.New("missing name column")

// Loader reads catalog items from delimited text.
type Loader struct {
	columns Columns
	comma   rune
}

func NewLoader(columns Columns, delimiter string) *Loader {
	d := DefaultColumns()
	if columns.Name == "" {
		columns.Name = d.Name
	}
	if columns.Description == "" {
		columns.Description = d.Description
	}
	if columns.Genres == "" {
		columns.Genres = d.Genres
	}
	if columns.Price == "" {
		columns.Price = d.Price
	}
	if columns.Developer == "" {
		columns.Developer = d.Developer
	}
	if columns.Rating == "" {
		columns.Rating = d.Rating
	}
	comma := ','
	if r, _ := utf8.DecodeRuneInString(delimiter); r != utf8.RuneError {
		comma = r
	}
	return &Loader{columns: columns, comma: comma}
}

// LoadFile reads items from the CSV file at path.
func (l *Loader) LoadFile(path string) ([]domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer f.Close()
	return l.Load(f, path)
}

// Load reads items from r. Absent optional columns and empty cells become
// empty strings; a missing name column is fatal.
func (l *Loader) Load(r io.Reader, source string) ([]domain.Item, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.comma
	cr.FieldsPerRecord = -1
	// descriptions carry bare quotes (`The "best" shooter`); keep them as text
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty file")
		}
		return nil, &DataLoadError{Source: source, Err: err}
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	if _, ok := index[l.columns.Name]; !ok {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("%w %q", ErrMissingNameColumn, l.columns.Name)}
	}

	var items []domain.Item
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: err}
		}
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		items = append(items, domain.Item{
			ID:          len(items),
			Name:        cell(l.columns.Name),
			Description: cell(l.columns.Description),
			Genres:      cell(l.columns.Genres),
			Price:       cell(l.columns.Price),
			Developer:   cell(l.columns.Developer),
			Rating:      cell(l.columns.Rating),
		})
	}
	if len(items) == 0 {
		return nil, &DataLoadError{Source: source, Err: errors.New("no data rows")}
	}
	return items, nil
}
