package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/geom"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// RegistryModel - Interactive entity registry browser
// =============================================================================

// registryRow describes one registered entity.
type registryRow struct {
	ID       string
	Kind     string // service, group or edge
	Handle   canvas.Handle
	Box      geom.Box // rendered extent in drawing coordinates
	Elements int      // drawing elements under the entity root
	Title    string
}

// registryRows lists every registered entity of c in registration order.
func registryRows(c *canvas.Canvas, m *diagram.Model) []registryRow {
	ids := c.Registered()
	rows := make([]registryRow, 0, len(ids))
	for _, id := range ids {
		h, _ := c.Lookup(id)
		e := c.Element(h)
		row := registryRow{
			ID:       id,
			Handle:   h,
			Box:      c.BBox(h).Translate(e.TX, e.TY),
			Elements: countElements(c, h),
		}
		switch kind, ok := m.Kind(id); {
		case ok && kind == diagram.KindNode:
			n, _ := m.Node(id)
			row.Kind, row.Title = "service", n.Title
		case ok && kind == diagram.KindGroup:
			g, _ := m.Group(id)
			row.Kind, row.Title = "group", g.Title
		default:
			row.Kind = "edge"
			if ed, ok := m.Edge(id); ok {
				row.Title = ed.Title
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func countElements(c *canvas.Canvas, h canvas.Handle) int {
	n := 1
	for _, ch := range c.Children(h) {
		n += countElements(c, ch)
	}
	return n
}

// RegistryModel is the bubbletea model for browsing rendered entities.
type RegistryModel struct {
	Rows   []registryRow
	Cursor int
	Height int
	Offset int
}

// NewRegistryModel creates a browser over the registry of c.
func NewRegistryModel(c *canvas.Canvas, m *diagram.Model) RegistryModel {
	return RegistryModel{Rows: registryRows(c, m), Height: 15}
}

func (m RegistryModel) Init() tea.Cmd {
	return nil
}

func (m RegistryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RegistryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendered Entities"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing was drawn"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, r.ID, r.Kind, fmt.Sprintf("%d", r.Handle),
			fmt.Sprintf("%.0f,%.0f", r.Box.X, r.Box.Y),
			fmt.Sprintf("%.0f×%.0f", r.Box.W, r.Box.H),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "Handle", "Origin", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	sel := m.Rows[m.Cursor]
	title := sel.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(fmt.Sprintf("  %s %s  %s\n",
		StyleHighlight.Render(sel.ID),
		StyleValue.Render(title),
		listDimStyle.Render(fmt.Sprintf("%d drawing elements", sel.Elements))))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Static Tables
// =============================================================================

// renderTable draws a non-interactive table in the list style.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return listNormalStyle
			}
			return listDimStyle
		}).
		Render()
}
