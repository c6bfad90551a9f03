// Package tui is the interactive stack builder: browse or search on the left,
// the selected stack and its command bundle on the right.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/search"
	"github.com/stackcart/stackcart/internal/domain/selection"
)

// Options configures a Model.
type Options struct {
	Catalog  *catalog.Catalog
	Remote   search.Remote
	Debounce time.Duration
	Copy     func(string) error
	Logger   *zap.Logger
}

// resultsMsg carries a finished search back into the update loop.
type resultsMsg struct {
	query   string
	results []search.SearchResult
}

// row is one line of the left pane.
type row struct {
	result search.SearchResult
	tool   catalog.Tool
}

// Model is the bubbletea model of the stack builder.
type Model struct {
	catalog  *catalog.Catalog
	store    *selection.Store
	searcher *search.Searcher
	debounce *search.Debouncer
	results  chan resultsMsg
	copy     func(string) error

	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	searching bool
	query     string
	found     []search.SearchResult
	category  int // 0 is every category
	cursor    int
	section   int
	status    string
	width     int
	height    int
}

// New creates the model. Stop must be called when the program exits.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	in := textinput.New()
	in.Placeholder = "Search tools or npm packages..."
	in.Prompt = "/ "
	in.CharLimit = 80
	in.Width = 40

	m := Model{
		catalog:  opts.Catalog,
		store:    selection.NewStore(),
		results:  make(chan resultsMsg, 4),
		copy:     opts.Copy,
		input:    in,
		viewport: viewport.New(60, 20),
		styles:   DefaultStyles(),
	}
	m.searcher = search.NewSearcher(opts.Catalog, opts.Remote, search.WithSearcherLogger(logger))

	results := m.results
	searcher := m.searcher
	m.debounce = search.NewDebouncer(opts.Debounce, func(q string) {
		found, ok := searcher.Search(context.Background(), q)
		if !ok {
			return
		}
		select {
		case results <- resultsMsg{query: q, results: found}:
		default:
		}
	})
	m.refreshBundle()
	return m
}

// Stop cancels pending and in-flight searches.
func (m Model) Stop() {
	m.debounce.Stop()
	m.searcher.Cancel()
}

// Store exposes the selection for callers that want the final stack.
func (m Model) Store() *selection.Store {
	return m.store
}

func waitForResults(ch chan resultsMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) Init() tea.Cmd {
	return waitForResults(m.results)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width/2 - 4
		m.viewport.Height = msg.Height - 10
		m.refreshBundle()
		return m, nil

	case resultsMsg:
		// Results for a query the user has since changed are dropped.
		if msg.query == m.input.Value() {
			m.query = msg.query
			m.found = msg.results
			m.cursor = 0
		}
		return m, waitForResults(m.results)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.input.Blur()
		q := m.input.Value()
		if utf8.RuneCountInString(q) < search.MinQueryLength {
			return m, nil
		}
		d := m.debounce
		return m, func() tea.Msg {
			d.Flush(q)
			return nil
		}
	case "up", "down":
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != before {
		if utf8.RuneCountInString(q) < search.MinQueryLength {
			m.debounce.Cancel()
			m.searcher.Cancel()
			m.query, m.found = "", nil
			m.cursor = 0
		} else {
			m.debounce.Trigger(q)
		}
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.input.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "tab":
		m.category = (m.category + 1) % (len(m.catalog.Categories) + 1)
		m.cursor = 0
	case "shift+tab":
		m.category = (m.category + len(m.catalog.Categories)) % (len(m.catalog.Categories) + 1)
		m.cursor = 0
	case "enter", " ", "space":
		rows := m.rows()
		if m.cursor < len(rows) {
			tool := rows[m.cursor].tool
			if m.store.Toggle(tool) {
				m.status = "Added " + tool.Name
			} else {
				m.status = "Removed " + tool.Name
			}
			m.refreshBundle()
		}
	case "x":
		m.store.Clear()
		m.status = "Stack cleared"
		m.refreshBundle()
	case "s":
		m.section = (m.section + 1) % len(aggregate.Sections)
		m.refreshBundle()
	case "c":
		m.copySection()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i < len(m.catalog.Presets) {
			p := m.catalog.Presets[i]
			missing := m.store.ApplyPreset(p, m.catalog)
			m.status = "Applied preset " + p.Name
			if len(missing) > 0 {
				m.status += fmt.Sprintf(" (skipped %s)", strings.Join(missing, ", "))
			}
			m.refreshBundle()
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) copySection() {
	name := aggregate.Sections[m.section]
	if name == aggregate.SectionAll {
		name = aggregate.SectionCommands
	}
	text, _ := aggregate.Aggregate(m.store.Tools()).Section(name)
	switch {
	case text == "":
		m.status = "Nothing to copy"
	case m.copy == nil:
		m.status = "Clipboard unavailable"
	default:
		if err := m.copy(text); err != nil {
			m.status = "Copy failed: " + err.Error()
			return
		}
		m.status = "Copied " + name
	}
}

// rows lists search results when a query is active, otherwise the catalog
// filtered by the current category tab.
func (m Model) rows() []row {
	if m.query != "" {
		rows := make([]row, len(m.found))
		for i, r := range m.found {
			rows[i] = row{result: r, tool: search.ToolFor(r, m.catalog)}
		}
		return rows
	}

	tools := m.catalog.Tools
	if m.category > 0 {
		tools = m.catalog.ToolsInCategory(m.catalog.Categories[m.category-1].ID)
	}
	rows := make([]row, len(tools))
	for i, t := range tools {
		rows[i] = row{
			tool: t,
			result: search.SearchResult{
				ID: t.ID, Name: t.Name, Description: t.Description,
				Category: t.Category, InstallCommand: t.InstallCommand, IsLocal: true,
			},
		}
	}
	return rows
}

func (m *Model) refreshBundle() {
	bundle := aggregate.Aggregate(m.store.Tools())
	text, _ := bundle.Section(aggregate.Sections[m.section])
	if text == "" {
		text = m.styles.Muted.Render("Select tools to see their commands.")
	}
	m.viewport.SetContent(text)
}

func (m Model) View() string {
	var left strings.Builder
	left.WriteString(m.input.View())
	left.WriteString("\n")
	left.WriteString(m.tabs())
	left.WriteString("\n\n")

	if v := m.input.Value(); v != "" && utf8.RuneCountInString(v) < search.MinQueryLength {
		left.WriteString(m.styles.Muted.Render(fmt.Sprintf("Type at least %d characters to search", search.MinQueryLength)))
		left.WriteString("\n")
	}
	rows := m.rows()
	if len(rows) == 0 {
		left.WriteString(m.styles.Muted.Render("No tools found"))
	}
	for i, r := range rows {
		mark := "  "
		if m.store.Has(r.tool.ID) {
			mark = m.styles.Selected.Render("✓ ")
		}
		name := r.result.Name
		if !r.result.IsLocal {
			meta := []string{"npm"}
			if r.result.Version != "" {
				meta = append(meta, "v"+r.result.Version)
			}
			if d := search.FormatDownloads(r.result.Downloads); d != "" {
				meta = append(meta, d+"/wk")
			}
			name += " " + m.styles.Muted.Render(strings.Join(meta, " · "))
		}
		line := mark + name
		if i == m.cursor {
			line = m.styles.Cursor.Render("> ") + line
		} else {
			line = "  " + line
		}
		left.WriteString(line + "\n")
	}

	var right strings.Builder
	right.WriteString(m.styles.Title.Render(fmt.Sprintf("Stack (%d)", m.store.Len())))
	right.WriteString("\n")
	for _, t := range m.store.Tools() {
		right.WriteString(catalog.IconFor(t.Category).Glyph() + " " + t.Name + "\n")
	}
	right.WriteString("\n")
	right.WriteString(m.styles.Header.Render("Commands: " + aggregate.Sections[m.section]))
	right.WriteString("\n")
	right.WriteString(m.viewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Pane.Render(left.String()),
		m.styles.Pane.Render(right.String()),
	)

	help := m.styles.Muted.Render("/ search · enter toggle · tab category · 1-9 preset · s section · c copy · x clear · q quit")
	if m.status != "" {
		help = m.styles.Status.Render(m.status) + "\n" + help
	}
	return body + "\n" + help
}

func (m Model) tabs() string {
	if m.query != "" {
		return m.styles.Header.Render(fmt.Sprintf("%d results for %q", len(m.found), m.query))
	}
	tabs := make([]string, 0, len(m.catalog.Categories)+1)
	names := append([]string{"All"}, categoryNames(m.catalog)...)
	for i, n := range names {
		if i == m.category {
			tabs = append(tabs, m.styles.TabOn.Render(n))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(n))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func categoryNames(c *catalog.Catalog) []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// Run starts the program on the terminal and blocks until it quits. It
// returns the stack selected when the user left.
func Run(opts Options) ([]catalog.Tool, error) {
	m := New(opts)
	defer m.Stop()
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Store().Tools(), nil
	}
	return m.Store().Tools(), nil
}
