package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/memorytree/pkg/tree"
)

// Browser styles, one per tree level.
var (
	browseRootStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGold)
	browsePersonStyle = lipgloss.NewStyle().Foreground(colorPink)
	browseObjectStyle = lipgloss.NewStyle().Foreground(colorGreen)
	browseCursorStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeBrowserModel - Interactive tree navigation
// =============================================================================

// treeRow is one visible line of the browser.
type treeRow struct {
	entity *tree.Entity
	depth  int
}

// openedMsg reports the outcome of opening a node's URL.
type openedMsg struct {
	url string
	err error
}

// TreeBrowserModel is the bubbletea model for the browse command.
// Enter opens the selected node's URL in the default browser.
type TreeBrowserModel struct {
	Root     *tree.Entity
	Degraded bool
	Cursor   int
	Offset   int
	Height   int
	Status   string

	rows      []treeRow
	collapsed map[*tree.Entity]bool
}

// NewTreeBrowserModel creates a browser over root with every node expanded.
func NewTreeBrowserModel(root *tree.Entity, degraded bool) TreeBrowserModel {
	m := TreeBrowserModel{
		Root:      root,
		Degraded:  degraded,
		Height:    15,
		collapsed: make(map[*tree.Entity]bool),
	}
	m.refresh()
	return m
}

func (m TreeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TreeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "right", "l":
			if e := m.Selected(); e != nil && m.collapsed[e] {
				delete(m.collapsed, e)
				m.refresh()
			}
		case "left", "h":
			m.collapseOrParent()
		case " ":
			if e := m.Selected(); e != nil && !e.IsLeaf() {
				m.collapsed[e] = !m.collapsed[e]
				m.refresh()
			}
		case "enter", "o":
			e := m.Selected()
			if e == nil || e.URL == "" {
				m.Status = "no link on this node"
				return m, nil
			}
			return m, openCmd(e.URL)
		}
	case openedMsg:
		if msg.err != nil {
			m.Status = "open failed: " + msg.err.Error()
		} else {
			m.Status = "opened " + msg.url
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func openCmd(u string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: u, err: openURL(u)}
	}
}

// Selected returns the entity under the cursor.
func (m TreeBrowserModel) Selected() *tree.Entity {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor].entity
}

func (m *TreeBrowserModel) move(delta int) {
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	m.scroll()
}

func (m *TreeBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// collapseOrParent folds an expanded node, or jumps to the parent row.
func (m *TreeBrowserModel) collapseOrParent() {
	e := m.Selected()
	if e == nil {
		return
	}
	if !e.IsLeaf() && !m.collapsed[e] {
		m.collapsed[e] = true
		m.refresh()
		return
	}
	depth := m.rows[m.Cursor].depth
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < depth {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

// refresh rebuilds the visible rows after a fold change.
func (m *TreeBrowserModel) refresh() {
	var rows []treeRow
	var add func(e *tree.Entity, depth int)
	add = func(e *tree.Entity, depth int) {
		rows = append(rows, treeRow{entity: e, depth: depth})
		if m.collapsed[e] {
			return
		}
		for _, c := range e.Children {
			add(c, depth+1)
		}
	}
	if m.Root != nil {
		add(m.Root, 0)
	}
	m.rows = rows
	if m.Cursor >= len(rows) {
		m.Cursor = len(rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.scroll()
}

func (m TreeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Memory Tree"))
	if m.Degraded {
		b.WriteString("  " + StyleWarning.Render("source unavailable"))
	}
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ←/→ fold  ⏎ open link  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.Offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.Cursor {
			line = browseCursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if e := m.Selected(); e != nil {
		b.WriteString("\n")
		b.WriteString(detailTable(e))
		b.WriteString("\n")
	}

	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	if m.Status != "" {
		b.WriteString("  " + StyleDim.Render(m.Status))
	}
	return b.String()
}

func (m TreeBrowserModel) renderRow(r treeRow) string {
	marker := "• "
	if !r.entity.IsLeaf() {
		marker = "▾ "
		if m.collapsed[r.entity] {
			marker = "▸ "
		}
	}

	style := browseObjectStyle
	switch r.depth {
	case 0:
		style = browseRootStyle
	case 1:
		style = browsePersonStyle
	}

	line := strings.Repeat("  ", r.depth) + marker + style.Render(r.entity.Name)
	if r.entity.URL != "" {
		line += " " + StyleLink.Render("↗")
	}
	return line
}

// detailTable summarises the selected node.
func detailTable(e *tree.Entity) string {
	link := e.URL
	if link == "" {
		link = "—"
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Children", "Link").
		Row(e.Name, fmt.Sprint(len(e.Children)), link).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && e.URL != "" {
				return StyleLink
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
