package tui

import (
	"fmt"
	"strings"

	"codebrief/internal/index"
	"codebrief/internal/search"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const queryHelp = "Commands:\n  :index  - show every indexed file\n  :help   - show this help\n  :quit   - exit\n\nAnything else is a keyword search over the summaries."

type queryModel struct {
	viewport    viewport.Model
	input       textinput.Model
	renderer    *glamour.TermRenderer
	idx         *index.Index
	last        string
	content     string
	matches     int
	width       int
	height      int
	initialized bool
}

func newQueryModel(idx *index.Index) queryModel {
	ti := textinput.New()
	ti.Placeholder = "Search the summaries (:index, :help, :quit)"
	ti.CharLimit = 500
	ti.Focus()

	return queryModel{
		input: ti,
		idx:   idx,
	}
}

func (m *queryModel) initViewport(width, height int) {
	m.width = width
	m.height = height

	// Layout: viewport + status bar (1 line) + input (1 line) + gap (1 line).
	vpHeight := height - 3
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.viewport = viewport.New(width, vpHeight)
	if m.content == "" {
		m.viewport.SetContent(dimStyle.Render(fmt.Sprintf("%d files indexed. Type keywords to search.\n\n%s", m.idx.Len(), queryHelp)))
	} else {
		m.viewport.SetContent(m.content)
	}

	m.input.Width = width - 4

	wrap := width - 2
	if wrap < 20 {
		wrap = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.renderer = r
	}

	m.initialized = true
}

func (m queryModel) Update(msg tea.Msg) (queryModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.initViewport(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.input.Reset()

			switch strings.ToLower(query) {
			case ":quit", ":q":
				return m, tea.Quit
			case ":help":
				m.show(dimStyle.Render(queryHelp))
				return m, nil
			case ":index":
				records := m.idx.Records()
				m.last = ":index"
				m.matches = len(records)
				m.show(m.renderMarkdown(resultsMarkdown("Full index", records)))
				return m, nil
			}

			results := search.Search(m.idx, query)
			m.last = query
			m.matches = len(results)
			if len(results) == 0 {
				m.show(warnStyle.Render("No results found for your query."))
				return m, nil
			}
			m.show(m.renderMarkdown(resultsMarkdown(fmt.Sprintf("Search results for %q", query), results)))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	// Update viewport (scrolling).
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *queryModel) show(content string) {
	m.content = content
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m queryModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return resultStyle.Render(content)
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return resultStyle.Render(content)
	}
	return strings.TrimRight(rendered, "\n")
}

// resultsMarkdown renders records as a markdown document, one section per file.
func resultsMarkdown(title string, records []index.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%d files)\n\n", title, len(records))
	for _, r := range records {
		fmt.Fprintf(&sb, "### `%s`", r.Path)
		if r.Degraded {
			sb.WriteString(" (fallback)")
		}
		sb.WriteString("\n\n")
		sb.WriteString(r.Summary)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (m queryModel) View(width, height int) string {
	if !m.initialized {
		return ""
	}

	status := fmt.Sprintf(" codebrief • %d files", m.idx.Len())
	if m.last != "" {
		status += fmt.Sprintf(" • %d matches for %s", m.matches, m.last)
	}
	statusBar := statusBarStyle.
		Width(m.width).
		Render(status)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		statusBar,
		m.input.View(),
	)
}
