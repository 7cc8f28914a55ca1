package tui

import (
	"context"
	"fmt"
	"time"

	"codebrief/internal/index"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type indexingModel struct {
	spinner        spinner.Model
	current        string
	filesProcessed int
	filesTotal     int
	done           bool
	idx            *index.Index
	stats          *index.Stats
	err            error
}

func newIndexingModel() indexingModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle
	return indexingModel{
		spinner: sp,
		current: "Scanning files...",
	}
}

// indexDoneMsg is sent when indexing completes.
type indexDoneMsg struct {
	idx   *index.Index
	stats *index.Stats
	err   error
}

// indexProgressMsg is sent after each file is summarized.
type indexProgressMsg struct {
	path           string
	filesProcessed int
	filesTotal     int
}

func runIndex(cfg Config) tea.Cmd {
	return func() tea.Msg {
		if cfg.NewBuilder == nil {
			return indexDoneMsg{err: fmt.Errorf("no index builder configured")}
		}

		b, err := cfg.NewBuilder(func(processed, total int, path string) {
			cfg.program.send(indexProgressMsg{
				path:           path,
				filesProcessed: processed,
				filesTotal:     total,
			})
		})
		if err != nil {
			return indexDoneMsg{err: err}
		}

		idx, stats, err := b.Build(context.Background(), cfg.Root)
		return indexDoneMsg{idx: idx, stats: stats, err: err}
	}
}

func (m indexingModel) Update(msg tea.Msg) (indexingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case indexDoneMsg:
		m.done = true
		m.idx = msg.idx
		m.stats = msg.stats
		m.err = msg.err
		return m, nil
	case indexProgressMsg:
		m.current = msg.path
		m.filesProcessed = msg.filesProcessed
		m.filesTotal = msg.filesTotal
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m indexingModel) View(width, height int) string {
	s := "\n"
	s += titleStyle.Render("  Indexing") + "\n\n"

	if m.done {
		if m.err != nil {
			s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
			s += dimStyle.Render("  Press q to quit.") + "\n"
			return s
		}
		s += successStyle.Render("  ✓ Codebase indexed successfully!") + "\n\n"
		if m.stats != nil {
			s += fmt.Sprintf("  Files: %d total, %d summarized, %d fallback\n",
				m.stats.FilesTotal, m.stats.Summarized, m.stats.Degraded)
			s += fmt.Sprintf("  Took:  %s\n", m.stats.Duration.Round(time.Millisecond))
		}
		s += "\n"
		s += dimStyle.Render("  Press Enter to start searching") + "\n"
		return s
	}

	s += fmt.Sprintf("  %s %s\n", m.spinner.View(), m.current)
	if m.filesTotal > 0 {
		s += fmt.Sprintf("  %d / %d files summarized\n", m.filesProcessed, m.filesTotal)
	}
	s += "\n"
	s += dimStyle.Render("  Each file is one request to the summarization service...") + "\n"
	return s
}
