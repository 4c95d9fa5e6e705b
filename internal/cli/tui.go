package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harnesskit/pkg/export"
	"github.com/matzehuels/harnesskit/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <design>",
		Short: "Browse diagnostics, catalog and wire map of a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()
			h, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := runner.Execute(ctx, h, pipeline.Options{})
			if err != nil {
				return err
			}
			p := tea.NewProgram(newInspectModel(res), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}

// List styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - tabbed browser over one pipeline result
// =============================================================================

// inspectTab is one page of the browser.
type inspectTab struct {
	title   string
	headers []string
	rows    [][]string
}

// InspectModel is the bubbletea model of the inspect command.
type InspectModel struct {
	Name   string
	Tabs   []inspectTab
	Active int
	Cursor int
	Offset int
	Height int
}

func newInspectModel(res *pipeline.Result) InspectModel {
	return InspectModel{
		Name: res.Harness.Name(),
		Tabs: []inspectTab{
			diagnosticsTab(res),
			bomTab(res.Document),
			mappingTab(res.Document),
		},
		Height: 15,
	}
}

func diagnosticsTab(res *pipeline.Result) inspectTab {
	tab := inspectTab{title: "Diagnostics", headers: []string{"Level", "Message"}}
	for _, msg := range res.Validation.Errors {
		tab.rows = append(tab.rows, []string{"error", msg})
	}
	for _, msg := range res.Validation.Warnings {
		tab.rows = append(tab.rows, []string{"warning", msg})
	}
	return tab
}

func bomTab(doc *export.Document) inspectTab {
	tab := inspectTab{title: "BOM", headers: []string{"Key", "Kind", "MPN", "Manufacturer", "Unit"}}
	for pair := doc.BOM.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value.Part
		tab.rows = append(tab.rows, []string{pair.Key, p.Kind, p.MPN, p.Manufacturer, pair.Value.Unit})
	}
	return tab
}

func mappingTab(doc *export.Document) inspectTab {
	tab := inspectTab{title: "Mapping", headers: []string{"Key", "End 1", "End 2", "Length"}}
	for pair := doc.Data.Mapping.Oldest(); pair != nil; pair = pair.Next() {
		e := pair.Value
		end2, length := "-", "-"
		if e.End2 != nil {
			end2 = endpointText(*e.End2)
		}
		if e.LengthMM != nil {
			length = strconv.FormatFloat(*e.LengthMM, 'f', -1, 64) + " mm"
		}
		tab.rows = append(tab.rows, []string{pair.Key, endpointText(e.End1), end2, length})
	}
	return tab
}

// endpointText renders a document endpoint the way designs reference it.
func endpointText(e export.Endpoint) string {
	switch e.Type {
	case export.EndpointConnectorPin:
		return fmt.Sprintf("%s.%d", e.ConnectorInstance, e.Pin)
	case export.EndpointCableCore:
		return fmt.Sprintf("%s.%d", e.CableInstance, e.CoreNo)
	case export.EndpointFlyingLead:
		if e.Label != "" {
			return "lead (" + e.Label + ")"
		}
		return "lead"
	}
	return e.Type
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
		case "tab", "right", "l":
			m.Active = (m.Active + 1) % len(m.Tabs)
			m.Cursor, m.Offset = 0, 0
		case "shift+tab", "left", "h":
			m.Active = (m.Active + len(m.Tabs) - 1) % len(m.Tabs)
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tabs[m.Active].rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")
	for i, tab := range m.Tabs {
		label := fmt.Sprintf("%s (%d)", tab.title, len(tab.rows))
		if i == m.Active {
			b.WriteString(tabActiveStyle.Render(label))
		} else {
			b.WriteString(tabInactiveStyle.Render(label))
		}
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⇥ switch tab  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	tab := m.Tabs[m.Active]
	if len(tab.rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(tab.rows))
	visible := tab.rows[m.Offset:end]
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(tab.headers...).
		Rows(visible...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if m.Offset+row == m.Cursor {
				base = base.Bold(true).Foreground(colorCyan)
			}
			if m.Active == 0 && col == 0 && row < len(visible) {
				if visible[row][0] == "error" {
					return base.Foreground(colorRed)
				}
				return base.Foreground(colorYellow)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(tab.rows))))
	return b.String()
}
