// Package ui renders the interactive pass explorer.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zyl/internal/ast"
	"zyl/internal/opt"
	"zyl/internal/printer"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// ExplorerModel is a Bubble Tea model that applies one optimizer pass per
// keystroke and shows the resulting program, with undo.
type ExplorerModel struct {
	title    string
	ctx      *opt.Context
	current  *ast.Block
	history  []*ast.Block
	viewport viewport.Model
	status   string
	failed   bool
	ready    bool
}

// NewExplorer creates the explorer over a disambiguated program.
func NewExplorer(title string, ctx *opt.Context, block *ast.Block) *ExplorerModel {
	return &ExplorerModel{
		title:   title,
		ctx:     ctx,
		current: block,
		status:  "ready",
	}
}

// Block returns the program in its current state.
func (m *ExplorerModel) Block() *ast.Block {
	return m.current
}

func (m *ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m *ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(4, msg.Height-headerHeight))
			m.viewport.SetContent(printer.Format(m.current))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(4, msg.Height-headerHeight)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "z":
			m.undo()
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		default:
			m.applyPass(msg.String())
			return m, nil
		}
	}
	return m, nil
}

func (m *ExplorerModel) applyPass(key string) {
	pass, ok := opt.Lookup(key)
	if !ok {
		m.status, m.failed = fmt.Sprintf("no pass bound to %q", key), true
		return
	}
	next, err := opt.Apply(m.ctx, pass, m.current)
	if err != nil {
		// The tree is untouched on failure; only report.
		m.status, m.failed = err.Error(), true
		return
	}
	m.history = append(m.history, m.current)
	m.current = next
	m.status, m.failed = fmt.Sprintf("applied %s", pass.Name), false
	m.refresh()
}

func (m *ExplorerModel) undo() {
	if len(m.history) == 0 {
		m.status, m.failed = "nothing to undo", true
		return
	}
	m.current = m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.status, m.failed = "undone", false
	m.refresh()
}

func (m *ExplorerModel) refresh() {
	if m.ready {
		m.viewport.SetContent(printer.Format(m.current))
	}
}

func (m *ExplorerModel) headerView() string {
	var menu strings.Builder
	for i, p := range opt.Catalog() {
		if i > 0 {
			menu.WriteString("  ")
		}
		menu.WriteString(keyStyle.Render("("+p.Key+")") + p.Name)
	}
	menu.WriteString("  " + keyStyle.Render("(z)") + "undo  " + keyStyle.Render("(q)") + "uit")

	style := statusStyle
	if m.failed {
		style = errStyle
	}
	return titleStyle.Render(m.title) + "\n" + menu.String() + "\n" + style.Render(m.status)
}

func (m *ExplorerModel) View() string {
	if !m.ready {
		return m.headerView() + "\n"
	}
	return m.headerView() + "\n" + borderStyle.Render(m.viewport.View())
}
