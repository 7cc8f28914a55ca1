package tui

import (
	"codebrief/internal/index"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents which screen is active.
type ViewState int

const (
	ViewWelcome ViewState = iota
	ViewIndexing
	ViewSearch
)

// programRef is an indirect pointer to the tea.Program so background goroutines
// can send messages. It must be set after tea.NewProgram returns but before Run.
type programRef struct {
	p *tea.Program
}

func (r *programRef) send(msg tea.Msg) {
	if r != nil && r.p != nil {
		r.p.Send(msg)
	}
}

// Config holds configuration passed from the CLI layer.
type Config struct {
	Root       string
	Model      string
	Extensions []string

	// NewBuilder returns a Builder that reports each summarized file to onProgress.
	NewBuilder func(onProgress index.ProgressFunc) (*index.Builder, error)

	// program is set internally so background goroutines can send messages.
	program *programRef
}

// Model is the top-level Bubble Tea model.
type Model struct {
	state  ViewState
	config Config
	width  int
	height int

	welcome  welcomeModel
	indexing indexingModel
	search   queryModel
	idx      *index.Index
}

// New creates a new TUI model with the given config.
func New(cfg Config) Model {
	return Model{
		state:  ViewWelcome,
		config: cfg,
	}
}

func (m Model) Init() tea.Cmd {
	return scanRoot(m.config)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == ViewSearch {
			var c tea.Cmd
			m.search, c = m.search.Update(msg)
			return m, c
		}
		return m, nil

	case tea.KeyMsg:
		// Global quit.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.state != ViewSearch {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd

	switch m.state {
	case ViewWelcome:
		m.welcome, cmd = m.welcome.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter && m.welcome.ready && m.welcome.err == nil {
			m.state = ViewIndexing
			m.indexing = newIndexingModel()
			return m, tea.Batch(m.indexing.spinner.Tick, runIndex(m.config))
		}

	case ViewIndexing:
		m.indexing, cmd = m.indexing.Update(msg)
		if cmd != nil {
			return m, cmd
		}
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter && m.indexing.done && m.indexing.err == nil {
			m.transitionToSearch()
			return m, nil
		}

	case ViewSearch:
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) transitionToSearch() {
	m.idx = m.indexing.idx
	m.search = newQueryModel(m.idx)
	m.search.initViewport(m.width, m.height)
	m.state = ViewSearch
}

func (m Model) View() string {
	switch m.state {
	case ViewWelcome:
		return m.welcome.View(m.config, m.width, m.height)
	case ViewIndexing:
		return m.indexing.View(m.width, m.height)
	case ViewSearch:
		return m.search.View(m.width, m.height)
	}
	return ""
}

// Run starts the TUI program.
func Run(cfg Config) error {
	ref := &programRef{}
	cfg.program = ref
	model := New(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.p = p
	_, err := p.Run()
	return err
}
