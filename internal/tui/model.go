package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gamerec/internal/domain"
)

// CatalogPort is the TUI-facing subset of the catalog service.
type CatalogPort interface {
	Items() []domain.Item
	Search(query string, topN int) ([]domain.SearchResult, error)
	Recommend(name string, n int) ([]domain.SearchResult, error)
	RecommendByID(id int, n int) ([]domain.SearchResult, error)
}

type tab int

const (
	searchTab tab = iota
	recommendTab
)

var tabTitles = []string{"Search", "Recommendations"}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service CatalogPort
	input   textinput.Model
	table   table.Model
	detail  viewport.Model
	results []domain.SearchResult
	names   []string
	summary string
	status  string
	active  tab
	ready   bool
	topN    int
	numRecs int
}

// New creates a new TUI model instance. topN and numRecs of zero let the
// service apply its defaults.
func New(service CatalogPort, summary string, topN, numRecs int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	t := table.New(table.WithColumns(columns(100)), table.WithHeight(10), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	t.SetStyles(styles)

	seen := map[string]struct{}{}
	var names []string
	for _, it := range service.Items() {
		if _, ok := seen[it.Name]; ok || it.Name == "" {
			continue
		}
		seen[it.Name] = struct{}{}
		names = append(names, it.Name)
	}

	m := Model{
		service: service,
		input:   ti,
		table:   t,
		detail:  viewport.New(0, 0),
		names:   names,
		summary: summary,
		topN:    topN,
		numRecs: numRecs,
	}
	m.switchTab(searchTab)
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, dh := detailBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + 1 + qh + 1 + dh + detailLines // header, tabs, summary; status; input; detail
		th := msg.Height - reserved
		if th < 3 {
			th = 3
		}
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(th)
		m.detail.Width = max(20, msg.Width-4)
		m.detail.Height = detailLines
		m.detail.SetContent(m.renderDetail())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.switchTab((m.active + 1) % 2)
			return m, nil
		case "ctrl+r":
			if len(m.results) > 0 {
				m.recommendSelected()
				return m, nil
			}
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.run(q)
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.table.MoveDown(1)
				m.detail.SetContent(m.renderDetail())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.table.MoveUp(1)
				m.detail.SetContent(m.renderDetail())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(t tab) {
	m.active = t
	m.input.SetValue("")
	m.setResults(nil)
	switch t {
	case searchTab:
		m.input.Placeholder = "Type a query, e.g. open world shooter, and press Enter"
		m.status = "Search the catalog. Tab switches to recommendations, ctrl+r recommends for the selected row."
	case recommendTab:
		m.input.Placeholder = "Type a game name (or part of it) and press Enter"
		m.status = fmt.Sprintf("%d games available. Tab switches to search.", len(m.names))
	}
}

func (m *Model) run(q string) {
	var (
		res []domain.SearchResult
		err error
	)
	switch m.active {
	case searchTab:
		res, err = m.service.Search(q, m.topN)
		if err == nil {
			m.status = fmt.Sprintf("Results for %q", q)
		}
	case recommendTab:
		name, ok := m.matchName(q)
		if !ok {
			m.setResults(nil)
			m.status = fmt.Sprintf("No game named %q", q)
			return
		}
		res, err = m.service.Recommend(name, m.numRecs)
		if err == nil {
			m.status = fmt.Sprintf("Games similar to %q", name)
			if len(res) == 0 {
				m.status = fmt.Sprintf("No recommendations for %q", name)
			}
		}
	}
	if err != nil {
		m.status = "Error: " + err.Error()
		m.setResults(nil)
		return
	}
	m.setResults(res)
}

// recommendSelected recommends for the highlighted row by its ID, so rows
// whose name repeats an earlier one can still be queried.
func (m *Model) recommendSelected() {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.results) {
		c = 0
	}
	it := m.results[c].Item
	res, err := m.service.RecommendByID(it.ID, m.numRecs)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.setResults(nil)
		return
	}
	m.active = recommendTab
	m.input.SetValue("")
	m.input.Placeholder = "Type a game name (or part of it) and press Enter"
	m.status = fmt.Sprintf("Games similar to %q (row %d)", it.Name, it.ID+1)
	if len(res) == 0 {
		m.status = fmt.Sprintf("No recommendations for %q", it.Name)
	}
	m.setResults(res)
}

// matchName resolves user input to a catalog name: exact, then
// case-insensitive, then the first name containing the input.
func (m Model) matchName(q string) (string, bool) {
	for _, n := range m.names {
		if n == q {
			return n, true
		}
	}
	lq := strings.ToLower(q)
	for _, n := range m.names {
		if strings.ToLower(n) == lq {
			return n, true
		}
	}
	for _, n := range m.names {
		if strings.Contains(strings.ToLower(n), lq) {
			return n, true
		}
	}
	return "", false
}

func (m *Model) setResults(res []domain.SearchResult) {
	m.results = res
	rows := make([]table.Row, 0, len(res))
	for i, r := range res {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Item.Name,
			r.Item.Genres,
			r.Item.Developer,
			r.Item.Rating,
			r.Item.Price,
			fmt.Sprintf("%.4f", r.Score),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	m.detail.SetContent(m.renderDetail())
}

// View renders the TUI layout and current results.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Game Recommender")
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if tab(i) == m.active {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(title)
		}
	}
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	detail := detailBoxStyle.Render(m.detail.View())
	return header + "\n" + strings.Join(tabs, " ") + "\n" + summary + "\n" +
		m.table.View() + "\n" + detail + "\n" + input + "\n" + status
}

func (m Model) renderDetail() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	c := m.table.Cursor()
	if c < 0 || c >= len(m.results) {
		c = 0
	}
	it := m.results[c].Item
	desc := it.Description
	if desc == "" {
		desc = "(no description)"
	}
	return highlightStyle.Render(it.Name) + "\n" + desc
}

func columns(width int) []table.Column {
	// #, rating, price and score are fixed; name, genres, developer share the rest
	fixed := 4 + 8 + 10 + 8
	rest := max(30, width-fixed-14)
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: rest * 2 / 5},
		{Title: "Genres", Width: rest * 2 / 5},
		{Title: "Developer", Width: rest / 5},
		{Title: "Rating", Width: 8},
		{Title: "Price", Width: 10},
		{Title: "Score", Width: 8},
	}
}

const detailLines = 3

var (
	detailBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("14"))
)
