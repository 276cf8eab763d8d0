package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listFilterStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// NodePickerModel - Interactive node type selection
// =============================================================================

// NodePickerModel is the bubbletea model behind "add" without a type. Typing
// filters the catalogue by name and category.
type NodePickerModel struct {
	Types    []*graph.NodeType
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *graph.NodeType

	visible []*graph.NodeType
}

// NewNodePickerModel creates a picker over types.
func NewNodePickerModel(types []*graph.NodeType) NodePickerModel {
	m := NodePickerModel{Types: types, Height: 12}
	m.visible = m.filtered()
	return m
}

func (m NodePickerModel) Init() tea.Cmd {
	return nil
}

func (m NodePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			m.Selected = m.visible[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.refilter()
			}
		case tea.KeySpace:
			m.Filter += " "
			m.refilter()
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.refilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *NodePickerModel) refilter() {
	m.visible = m.filtered()
	m.Cursor, m.Offset = 0, 0
}

// filtered returns the types whose name or category contains the filter,
// ignoring case.
func (m NodePickerModel) filtered() []*graph.NodeType {
	if m.Filter == "" {
		return m.Types
	}
	q := strings.ToLower(m.Filter)
	var out []*graph.NodeType
	for _, t := range m.Types {
		hay := strings.ToLower(t.Name + " " + strings.Join(t.Category, " "))
		if strings.Contains(hay, q) {
			out = append(out, t)
		}
	}
	return out
}

func (m NodePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Add Node"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(listFilterStyle.Render("› " + m.Filter))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no node types match"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	page := m.visible[m.Offset:end]
	rows := make([][]string, len(page))
	for i, t := range page {
		cursor := "  "
		if m.Offset+i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, t.Name, strings.Join(t.Category, " / "), signature(t)}
	}

	tbl := catalogueTable("", "Type", "Category", "Signature").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 3 {
				return StyleKind
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(tbl.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))
	if d := m.visible[m.Cursor].Description; d != "" {
		b.WriteString("  " + listDimStyle.Render(d))
	}
	return b.String()
}

// pickNodeType runs the picker and returns the chosen type, or nil when the
// user quits without choosing.
func pickNodeType(types []*graph.NodeType) (*graph.NodeType, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no node type given and stdin is not a terminal")
	}
	final, err := tea.NewProgram(NewNodePickerModel(types)).Run()
	if err != nil {
		return nil, fmt.Errorf("node picker: %w", err)
	}
	return final.(NodePickerModel).Selected, nil
}

// =============================================================================
// Helpers
// =============================================================================

func catalogueTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// signature renders a type's sockets as "(a: scalar, b: scalar) -> out: scalar".
func signature(t *graph.NodeType) string {
	ins := make([]string, len(t.Inputs))
	for i, in := range t.Inputs {
		ins[i] = in.Name + ": " + in.Kind.String()
	}
	outs := make([]string, len(t.Outputs))
	for i, o := range t.Outputs {
		outs[i] = o.Name + ": " + o.Kind.String()
	}
	sig := "(" + strings.Join(ins, ", ") + ")"
	if len(outs) > 0 {
		sig += " -> " + strings.Join(outs, ", ")
	}
	return sig
}
