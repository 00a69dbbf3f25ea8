package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamerec/internal/domain"
)

type fakeCatalog struct {
	items       []domain.Item
	searchErr   error
	lastQuery   string
	lastName    string
	lastN       int
	lastID      int
	searchHits  []domain.SearchResult
	recommended []domain.SearchResult
}

func (f *fakeCatalog) Items() []domain.Item { return f.items }

func (f *fakeCatalog) Search(query string, topN int) ([]domain.SearchResult, error) {
	f.lastQuery, f.lastN = query, topN
	return f.searchHits, f.searchErr
}

func (f *fakeCatalog) Recommend(name string, n int) ([]domain.SearchResult, error) {
	f.lastName, f.lastN = name, n
	return f.recommended, nil
}

func (f *fakeCatalog) RecommendByID(id int, n int) ([]domain.SearchResult, error) {
	f.lastID, f.lastN = id, n
	return f.recommended, nil
}

func newFake() *fakeCatalog {
	raiders := domain.Item{ID: 0, Name: "Space Raiders", Description: "open world shooter"}
	farm := domain.Item{ID: 1, Name: "Farm Sim", Description: "peaceful farming"}
	return &fakeCatalog{
		items:       []domain.Item{raiders, farm, {ID: 2, Name: "Space Raiders"}},
		searchHits:  []domain.SearchResult{{Item: raiders, Score: 0.71}, {Item: farm, Score: 0}},
		recommended: []domain.SearchResult{{Item: farm, Score: 0.1}},
	}
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func sized(t *testing.T, f *fakeCatalog) Model {
	t.Helper()
	return press(t, New(f, "3 games", 10, 5), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestModel_NamesAreUnique(t *testing.T) {
	m := New(newFake(), "", 0, 0)
	assert.Equal(t, []string{"Space Raiders", "Farm Sim"}, m.names)
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_Search(t *testing.T) {
	f := newFake()
	m := sized(t, f)
	m.input.SetValue("shooter")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "shooter", f.lastQuery)
	assert.Equal(t, 10, f.lastN)
	require.Len(t, m.results, 2)
	assert.Contains(t, m.status, "shooter")
	assert.Equal(t, "0.7100", m.table.Rows()[0][6])
	assert.Contains(t, m.View(), "Space Raiders")
	assert.Contains(t, m.renderDetail(), "open world shooter")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.table.Cursor())
	assert.Contains(t, m.renderDetail(), "peaceful farming")
}

func TestModel_SearchError(t *testing.T) {
	f := newFake()
	f.searchErr = errors.New("no catalog loaded")
	m := sized(t, f)
	m.input.SetValue("x")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Error: no catalog loaded", m.status)
	assert.Empty(t, m.results)
}

func TestModel_Recommend(t *testing.T) {
	f := newFake()
	m := sized(t, f)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, recommendTab, m.active)

	m.input.SetValue("raiders")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Space Raiders", f.lastName)
	assert.Equal(t, 5, f.lastN)
	require.Len(t, m.results, 1)
	assert.Equal(t, "Farm Sim", m.results[0].Item.Name)
}

func TestModel_RecommendSelectedRowByID(t *testing.T) {
	f := newFake()
	dup := domain.Item{ID: 2, Name: "Space Raiders", Description: "remaster"}
	f.searchHits = []domain.SearchResult{{Item: f.items[0], Score: 0.7}, {Item: dup, Score: 0.6}}
	m := sized(t, f)
	m.input.SetValue("space")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, 2, f.lastID)
	assert.Equal(t, 5, f.lastN)
	assert.Empty(t, f.lastName)
	assert.Equal(t, recommendTab, m.active)
	require.Len(t, m.results, 1)
	assert.Equal(t, "Farm Sim", m.results[0].Item.Name)
	assert.Contains(t, m.status, "row 3")
}

func TestModel_RecommendSelectedNeedsResults(t *testing.T) {
	f := newFake()
	f.lastID = -1
	m := sized(t, f)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, -1, f.lastID)
	assert.Equal(t, searchTab, m.active)
}

func TestModel_RecommendUnknown(t *testing.T) {
	f := newFake()
	m := sized(t, f)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.input.SetValue("Tetris")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, f.lastName)
	assert.Equal(t, `No game named "Tetris"`, m.status)
}

func TestModel_MatchName(t *testing.T) {
	m := New(newFake(), "", 0, 0)
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Farm Sim", "Farm Sim", true},
		{"farm sim", "Farm Sim", true},
		{"SPACE", "Space Raiders", true},
		{"zelda", "", false},
	}
	for _, tt := range tests {
		got, ok := m.matchName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestModel_Quit(t *testing.T) {
	m := sized(t, newFake())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
