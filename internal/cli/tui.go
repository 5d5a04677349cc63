package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
	"github.com/matzehuels/jsontree/pkg/render/styles"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	searchPromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	noMatchStyle      = lipgloss.NewStyle().Foreground(colorRed)
)

const noMatchMessage = "No match"

// =============================================================================
// ExplorerModel - Interactive tree explorer
// =============================================================================

type explorerRow struct {
	id    string
	label string
	path  string
	kind  string
	depth int
}

// ExplorerModel is the bubbletea model for browsing a laid-out document.
// Pressing "/" opens the search bar; enter resolves the typed path and moves
// the cursor to the matched node.
type ExplorerModel struct {
	Rows      []explorerRow
	Cursor    int
	Offset    int
	Height    int
	Searching bool
	Input     string
	Message   string
	Palette   styles.Palette

	index    map[string]string // path -> node ID
	position map[string]int    // node ID -> row
}

// NewExplorerModel flattens g in pre-order, which is the order nodes are
// stored in.
func NewExplorerModel(g graph.Graph, palette styles.Palette) ExplorerModel {
	m := ExplorerModel{
		Rows:     make([]explorerRow, 0, len(g.Nodes)),
		Height:   20,
		Palette:  palette,
		index:    g.PathToID,
		position: make(map[string]int, len(g.Nodes)),
	}
	for i, n := range g.Nodes {
		m.Rows = append(m.Rows, explorerRow{
			id:    n.ID,
			label: n.Data.Label,
			path:  n.Data.Path,
			kind:  n.Data.Kind,
			depth: n.Data.Depth,
		})
		m.position[n.ID] = i
	}
	return m
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "g", "home":
			m.moveTo(0)
		case "G", "end":
			m.moveTo(len(m.Rows) - 1)
		case "/":
			m.Searching, m.Input, m.Message = true, "", ""
		case "t":
			m.Palette = styles.Toggle(m.Palette)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

func (m ExplorerModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.Searching = false
	case tea.KeyEnter:
		m.Searching = false
		m.search(m.Input)
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.Input += " "
	case tea.KeyRunes:
		m.Input += string(msg.Runes)
	}
	return m, nil
}

// search jumps to the node query resolves to. Queries that do not parse
// report "No match" like any other miss.
func (m *ExplorerModel) search(query string) {
	if strings.TrimSpace(query) == "" {
		m.Message = ""
		return
	}
	id, ok := jsonpath.Resolve(query, m.index)
	if !ok {
		m.Message = noMatchMessage
		return
	}
	m.Message = ""
	m.moveTo(m.position[id])
}

// moveTo places the cursor on row i (clamped) and scrolls it into view.
func (m *ExplorerModel) moveTo(i int) {
	if len(m.Rows) == 0 {
		return
	}
	m.Cursor = min(max(i, 0), len(m.Rows)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Selected returns the path of the node under the cursor.
func (m ExplorerModel) Selected() string {
	if len(m.Rows) == 0 {
		return ""
	}
	return m.Rows[m.Cursor].path
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  / search  t theme (%s)  q quit", m.Palette.Name)))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		colors := m.Palette.Kind(r.kind)
		line := strings.Repeat("  ", r.depth) + lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Border)).Render(r.label)
		if i == m.Cursor {
			line = strings.Repeat("  ", r.depth) + listSelectedStyle.Render(r.label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.Searching:
		b.WriteString(searchPromptStyle.Render("/") + m.Input + "█")
	case m.Message != "":
		b.WriteString(noMatchStyle.Render(m.Message))
	default:
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%s  [%d/%d]", m.Selected(), m.Cursor+1, len(m.Rows))))
	}

	return b.String()
}
