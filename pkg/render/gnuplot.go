package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
)

const gnuplotTemplate = `set term svg size 640,{{ .Height }}
set output "{{ quote .Output }}"
set key outside right
{{ range .Blocks }}
${{ .Name }} << EOD
{{ range .Rows }}{{ . }}
{{ end }}EOD
{{ end }}
{{ if .Multi }}set multiplot layout {{ len .Panels }},1 title "{{ quote .Title }}"
{{ end }}{{ if .YRange }}set yrange [{{ .YRange }}]
{{ end }}{{ range .Panels }}
set title "{{ quote .Title }}"
set xlabel "{{ quote .XLabel }}"
set ylabel "{{ quote .YLabel }}"
{{ if .XTics }}set xtics ({{ .XTics }}){{ else }}set xtics autofreq{{ end }}
{{ if .YTics }}set ytics ({{ .YTics }}){{ else }}set ytics autofreq{{ end }}
{{ if .LogY }}set logscale y{{ else }}unset logscale y{{ end }}
plot {{ .Plot }}
{{ end }}{{ if .Multi }}unset multiplot
{{ end }}`

var gnuplotTmpl = template.Must(template.New("gnuplot").Funcs(template.FuncMap{
	"quote": gnuplotQuote,
}).Parse(gnuplotTemplate))

type gnuplotBlock struct {
	Name string
	Rows []string
}

type gnuplotPanel struct {
	Title, XLabel, YLabel string
	XTics, YTics          string
	LogY                  bool
	Plot                  string
}

type gnuplotScript struct {
	Output string
	Title  string
	Height int
	Multi  bool
	YRange string
	Blocks []gnuplotBlock
	Panels []gnuplotPanel
}

// WriteGnuplot writes a self-contained gnuplot script with inline data
// blocks. Running it renders the chart to output as SVG.
func (c *Chart) WriteGnuplot(w io.Writer, output string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	script := gnuplotScript{
		Output: output,
		Title:  c.Title,
		Height: 480 * max(1, len(c.Panels)),
		Multi:  len(c.Panels) > 1,
	}
	if c.SharedY {
		if lo, hi, ok := c.yRange(); ok {
			script.YRange = formatFloat(lo) + ":" + formatFloat(hi)
		}
	}

	for pi, p := range c.Panels {
		title := p.Title
		if title == "" && !script.Multi {
			title = c.Title
		}
		panel := gnuplotPanel{
			Title:  title,
			XLabel: p.XLabel,
			YLabel: p.YLabel,
			XTics:  joinFloats(p.XTicks),
			YTics:  joinFloats(p.YTicks),
			LogY:   p.LogY,
		}

		plots := make([]string, 0, len(p.Series))
		for si, s := range p.Series {
			name := fmt.Sprintf("p%ds%d", pi, si)
			block := gnuplotBlock{Name: name, Rows: make([]string, len(s.X))}
			for i := range s.X {
				block.Rows[i] = formatFloat(s.X[i]) + " " + formatFloat(s.Y[i])
			}
			script.Blocks = append(script.Blocks, block)

			style := "linespoints"
			if c.kindOf(s) == KindScatter {
				style = "points"
			}
			plots = append(plots, fmt.Sprintf(`$%s using 1:2 with %s title "%s"`, name, style, gnuplotQuote(s.Label)))
		}
		if len(plots) == 0 {
			// gnuplot refuses an empty plot command
			plots = append(plots, "NaN notitle")
		}
		panel.Plot = strings.Join(plots, ", \\\n     ")
		script.Panels = append(script.Panels, panel)
	}

	if err := gnuplotTmpl.Execute(w, script); err != nil {
		return fmt.Errorf("render gnuplot script: %w", err)
	}
	return nil
}

var gnuplotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func gnuplotQuote(s string) string { return gnuplotEscaper.Replace(s) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ", ")
}
