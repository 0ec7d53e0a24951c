// Package tui implements the interactive table browser.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/tabview"
)

// loadedMsg carries the outcome of a background load.
type loadedMsg struct {
	outcome tabview.LoadOutcome
}

// fileChangedMsg reports that the watched file was modified.
type fileChangedMsg struct{}

// chrome is the number of lines used around the table
const chrome = 5

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	session *tabview.Session
	changes <-chan struct{}
	logger  *slog.Logger

	table  table.Model
	search textinput.Model
	help   help.Model
	keys   keyMap

	searching bool
	loading   bool
	showHelp  bool
	err       error

	width  int
	height int
}

// NewModel creates a browser over session. The session should already hold
// a snapshot; changes, when not nil, triggers a reload for every value
// received.
func NewModel(ctx context.Context, session *tabview.Session, changes <-chan struct{}, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(tabview.DefaultPageSize),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "search all columns..."
	search.Prompt = "/"
	search.CharLimit = 256

	m := Model{
		ctx:     ctx,
		session: session,
		changes: changes,
		logger:  logger,
		table:   t,
		search:  search,
		help:    help.New(),
		keys:    keys,
	}
	m.updateTable()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-chrome, 3))
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		applied, err := m.session.Apply(msg.outcome)
		if !m.session.Loader().IsCurrent(msg.outcome.Generation) {
			return m, nil
		}
		m.loading = false
		if err != nil {
			m.err = err
			return m, nil
		}
		if applied {
			m.err = nil
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.updateTable()
		}
		return m, nil

	case fileChangedMsg:
		m.logger.Debug("reloading changed file", slog.String("path", m.session.Path()))
		cmd := tea.Batch(m.reload(), m.waitForChange())
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.session.Search("")
		m.updateTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.session.Search(m.search.Value())
	m.updateTable()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.session.Search("")
			m.updateTable()
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.session.Next() {
			m.updateTable()
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.session.Previous() {
			m.updateTable()
		}

	case key.Matches(msg, m.keys.First):
		m.session.First()
		m.updateTable()

	case key.Matches(msg, m.keys.Last):
		m.session.Last()
		m.updateTable()

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.reload()
		return m, cmd

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reload starts reloading the current source.
func (m *Model) reload() tea.Cmd {
	ticket, err := m.session.Refresh(m.ctx)
	if err != nil {
		m.err = err
		return nil
	}
	m.loading = true
	return waitForLoad(m.ctx, ticket)
}

func waitForLoad(ctx context.Context, ticket *tabview.Ticket) tea.Cmd {
	return func() tea.Msg {
		outcome, err := ticket.Wait(ctx)
		if err != nil {
			return nil
		}
		return loadedMsg{outcome: outcome}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			return fileChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// updateTable copies the current page into the table.
func (m *Model) updateTable() {
	page := m.session.CurrentPage()

	widths := make([]int, len(page.Columns)+1)
	widths[0] = lipgloss.Width("#")
	for i, col := range page.Columns {
		widths[i+1] = lipgloss.Width(col)
	}

	rows := make([]table.Row, 0, len(page.Rows))
	for _, r := range page.Rows {
		row := make(table.Row, 0, len(r.Cells)+1)
		row = append(row, strconv.Itoa(r.Index+1))
		row = append(row, r.Cells...)
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
		rows = append(rows, row)
	}

	columns := make([]table.Column, len(widths))
	columns[0] = table.Column{Title: "#", Width: widths[0]}
	for i, col := range page.Columns {
		columns[i+1] = table.Column{Title: col, Width: min(widths[i+1], maxColumnWidth)}
	}

	// Rows must never be wider than the columns while they change.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{m.renderHeader(), m.table.View()}

	if m.searching || m.search.Value() != "" {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, m.renderStatus())
	if m.err != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.err.Error()))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	header := titleStyle.Render("tabview")
	if path := m.session.Path(); path != "" {
		header += badgeStyle.Render(filepath.Base(path))
	}
	if m.loading {
		header += mutedStyle.Render("  loading...")
	}
	return header
}

func (m Model) renderStatus() string {
	status := m.session.CurrentPage().String()
	if skipped := m.session.SkippedRows(); skipped > 0 {
		status += fmt.Sprintf(" | %d malformed row(s) skipped", skipped)
	}
	width := m.width
	if width <= 0 {
		return statusBarStyle.Render(status)
	}
	return statusBarStyle.Width(width).Render(status)
}
