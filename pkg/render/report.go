package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/simtrace/pkg/connectivity"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// ChartReport summarises a chart as text: one box per panel, one line per
// series listing its (x, y) points.
func ChartReport(c *Chart) string {
	boxes := make([]string, 0, len(c.Panels))
	for _, p := range c.Panels {
		lines := make([]string, 0, len(p.Series)+1)
		if p.Title != "" {
			lines = append(lines, titleStyle.Render(p.Title))
		}
		if len(p.Series) == 0 {
			lines = append(lines, mutedStyle.Render("(no data)"))
		}
		for _, s := range p.Series {
			lines = append(lines, labelStyle.Render(s.Label)+" "+formatPoints(s))
		}
		lines = append(lines, mutedStyle.Render(p.XLabel+" / "+p.YLabel))
		boxes = append(boxes, panelStyle.Render(strings.Join(lines, "\n")))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	if c.Title == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(c.Title), body)
}

func formatPoints(s Series) string {
	var b strings.Builder
	for i := range s.X {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "(%s, %s)", formatFloat(s.X[i]), formatFloat(s.Y[i]))
	}
	return b.String()
}

// ConnectivityReport prints "Connectivity: K" followed by a muted detail line.
func ConnectivityReport(res connectivity.Result) string {
	headline := fmt.Sprintf("Connectivity: %d", res.Connectivity)
	if res.Sampled {
		headline += " (upper bound)"
	}

	detail := fmt.Sprintf("nodes=%d edges=%d components=%d min_degree=%d pairs=%d/%d",
		res.Nodes, res.Edges, res.Components, res.MinDegree, res.PairsEvaluated, res.PairsTotal)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(headline),
		mutedStyle.Render(detail),
	)
}
