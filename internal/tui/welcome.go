package tui

import (
	"fmt"
	"strings"

	"codebrief/internal/walker"

	tea "github.com/charmbracelet/bubbletea"
)

type welcomeModel struct {
	files int
	err   error
	ready bool // true once the scan has completed
}

// scanRootMsg is sent after counting the files that will be summarized.
type scanRootMsg struct {
	files int
	err   error
}

func scanRoot(cfg Config) tea.Cmd {
	return func() tea.Msg {
		files, err := walker.Scan(cfg.Root, walker.Extensions(cfg.Extensions...))
		if err != nil {
			return scanRootMsg{err: err}
		}
		return scanRootMsg{files: len(files)}
	}
}

func (m welcomeModel) Update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scanRootMsg:
		m.files = msg.files
		m.err = msg.err
		m.ready = true
	}
	return m, nil
}

func (m welcomeModel) View(cfg Config, width, height int) string {
	s := "\n"
	s += titleStyle.Render("  ◆ codebrief") + "\n"
	s += subtitleStyle.Render("  File summaries for your codebase, searchable by keyword") + "\n\n"

	s += fmt.Sprintf("  Root:       %s\n", cfg.Root)
	s += fmt.Sprintf("  Model:      %s\n", cfg.Model)
	s += fmt.Sprintf("  Extensions: %s\n\n", strings.Join(cfg.Extensions, ", "))

	if !m.ready {
		s += dimStyle.Render("  Scanning...") + "\n"
		return s
	}

	if m.err != nil {
		s += errorStyle.Render("  ✗ "+m.err.Error()) + "\n\n"
		s += dimStyle.Render("  Press q to quit") + "\n"
		return s
	}

	if m.files == 0 {
		s += warnStyle.Render("  ⚠ No matching files found") + "\n"
	} else {
		s += successStyle.Render(fmt.Sprintf("  ✓ %d files to summarize", m.files)) + "\n"
	}

	s += "\n"
	s += dimStyle.Render("  Press Enter to start indexing, q to quit") + "\n"
	return s
}
