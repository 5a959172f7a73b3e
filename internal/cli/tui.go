package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 1)

// =============================================================================
// panelRegistry - open node detail panels
// =============================================================================

// panelRegistry tracks which node detail panels are open, in the order
// they were opened.
type panelRegistry struct {
	open  map[string]bool
	order []string
}

func newPanelRegistry() *panelRegistry {
	return &panelRegistry{open: make(map[string]bool)}
}

// toggle opens the panel of id, or closes it when already open.
func (r *panelRegistry) toggle(id string) {
	if r.open[id] {
		r.close(id)
		return
	}
	r.open[id] = true
	r.order = append(r.order, id)
}

func (r *panelRegistry) close(id string) {
	if !r.open[id] {
		return
	}
	delete(r.open, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *panelRegistry) isOpen(id string) bool { return r.open[id] }

// ids returns open panels, oldest first.
func (r *panelRegistry) ids() []string { return r.order }

func (r *panelRegistry) closeAll() {
	r.open = make(map[string]bool)
	r.order = nil
}

// =============================================================================
// InspectModel - layer and node browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect command.
type InspectModel struct {
	Layout graph.Layout

	layers [][]int // node indices per level, left to right
	level  int     // index into layers
	cursor int     // index into layers[level]
	panels *panelRegistry
}

// NewInspectModel creates an inspector over l.
func NewInspectModel(l graph.Layout) InspectModel {
	m := InspectModel{
		Layout: l,
		layers: buildLayers(l),
		panels: newPanelRegistry(),
	}
	for m.level < len(m.layers)-1 && len(m.layers[m.level]) == 0 {
		m.level++
	}
	return m
}

// buildLayers groups nodes by level and sorts each group by x. Levels
// without nodes are kept so indices match levels.
func buildLayers(l graph.Layout) [][]int {
	maxLevel := -1
	for _, n := range l.Nodes {
		maxLevel = max(maxLevel, n.Level)
	}
	layers := make([][]int, maxLevel+1)
	for i, n := range l.Nodes {
		if n.Level >= 0 {
			layers[n.Level] = append(layers[n.Level], i)
		}
	}
	for _, layer := range layers {
		sort.SliceStable(layer, func(a, b int) bool {
			return l.Nodes[layer[a]].X < l.Nodes[layer[b]].X
		})
	}
	return layers
}

// Selected returns the node under the cursor.
func (m InspectModel) Selected() (graph.PlacedNode, bool) {
	if m.level >= len(m.layers) || m.cursor >= len(m.layers[m.level]) {
		return graph.PlacedNode{}, false
	}
	return m.Layout.Nodes[m.layers[m.level][m.cursor]], true
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.level < len(m.layers) && m.cursor < len(m.layers[m.level])-1 {
				m.cursor++
			}
		case "up", "k":
			m.moveLevel(-1)
		case "down", "j":
			m.moveLevel(1)
		case "enter", " ":
			if n, ok := m.Selected(); ok {
				m.panels.toggle(n.ID)
			}
		case "c":
			m.panels.closeAll()
		}
	}
	return m, nil
}

// moveLevel steps to the next level in dir that has nodes, keeping the
// cursor near the same x.
func (m *InspectModel) moveLevel(dir int) {
	x := 0.0
	if n, ok := m.Selected(); ok {
		x = n.X
	}
	for lvl := m.level + dir; lvl >= 0 && lvl < len(m.layers); lvl += dir {
		if len(m.layers[lvl]) == 0 {
			continue
		}
		m.level = lvl
		m.cursor = m.nearest(x)
		return
	}
}

func (m InspectModel) nearest(x float64) int {
	best, bestDist := 0, -1.0
	for i, idx := range m.layers[m.level] {
		d := m.Layout.Nodes[idx].X - x
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Flow Layout"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %d edges · %s x %s",
		len(m.Layout.Nodes), len(m.Layout.Edges), num(m.Layout.Width), num(m.Layout.Height))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ node  ↑/↓ layer  ⏎ details  c close all  q quit"))
	b.WriteString("\n\n")

	for lvl, layer := range m.layers {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("L%-3d", lvl)))
		if len(layer) == 0 {
			b.WriteString(listDimStyle.Render(" (empty)"))
		}
		for i, idx := range layer {
			n := m.Layout.Nodes[idx]
			label := n.ID
			if m.panels.isOpen(n.ID) {
				label = "*" + label
			}
			b.WriteString(" ")
			switch {
			case lvl == m.level && i == m.cursor:
				b.WriteString(listSelectedStyle.Render("[" + label + "]"))
			case n.Status != "":
				b.WriteString(statusStyle(n.Status).Render(label))
			default:
				b.WriteString(listNormalStyle.Render(label))
			}
		}
		b.WriteString("\n")
	}

	if ids := m.panels.ids(); len(ids) > 0 {
		b.WriteString("\n")
		panels := make([]string, 0, len(ids))
		for _, id := range ids {
			panels = append(panels, m.renderPanel(id))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
		b.WriteString("\n")
	}

	if m.Layout.Stats != nil {
		s := m.Layout.Stats
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d layers · %d dummies · %d crossings",
			s.Layers, s.Dummies, s.Crossings)))
	}
	return b.String()
}

func (m InspectModel) renderPanel(id string) string {
	var n graph.PlacedNode
	for _, pn := range m.Layout.Nodes {
		if pn.ID == id {
			n = pn
			break
		}
	}

	var in, out []string
	for _, e := range m.Layout.Edges {
		if e.To == id {
			in = append(in, e.From)
		}
		if e.From == id {
			out = append(out, e.To)
		}
	}

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.Label))
	if n.Label != n.ID {
		b.WriteString(listDimStyle.Render(" (" + n.ID + ")"))
	}
	b.WriteString("\n")
	if n.Type != "" {
		b.WriteString("type    " + n.Type + "\n")
	}
	if n.Status != "" {
		b.WriteString("status  " + statusStyle(n.Status).Render(n.Status) + "\n")
	}
	b.WriteString("level   " + StyleNumber.Render(fmt.Sprint(n.Level)) + "\n")
	b.WriteString("centre  " + StyleNumber.Render(num(n.X)+", "+num(n.Y)) + "\n")
	b.WriteString("size    " + StyleNumber.Render(num(n.Width)+" x "+num(n.Height)) + "\n")
	b.WriteString("in      " + joinOrDash(in) + "\n")
	b.WriteString("out     " + joinOrDash(out))
	return panelStyle.Render(b.String())
}

// =============================================================================
// Helpers
// =============================================================================

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return listDimStyle.Render("—")
	}
	return strings.Join(ids, ", ")
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
