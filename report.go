package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/termbrand/pkg/mux"
	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// report is the serialisable view of detected capabilities.
type report struct {
	Brand       string     `json:"brand" yaml:"brand"`
	Known       bool       `json:"known" yaml:"known"`
	Source      string     `json:"source" yaml:"source"`
	Adapters    []string   `json:"adapters" yaml:"adapters"`
	Graphical   bool       `json:"graphical" yaml:"graphical"`
	TrueColor   bool       `json:"truecolor" yaml:"truecolor"`
	SSH         bool       `json:"ssh" yaml:"ssh"`
	Multiplexer string     `json:"multiplexer" yaml:"multiplexer"`
	Size        reportSize `json:"size" yaml:"size"`
}

type reportSize struct {
	Cols  int `json:"cols" yaml:"cols"`
	Rows  int `json:"rows" yaml:"rows"`
	CellW int `json:"cell_width,omitempty" yaml:"cell_width,omitempty"`
	CellH int `json:"cell_height,omitempty" yaml:"cell_height,omitempty"`
}

func newReport(caps terminal.Capabilities, kind mux.Kind) report {
	adapters := make([]string, len(caps.Adapters))
	for i, a := range caps.Adapters {
		adapters[i] = a.String()
	}
	rep := report{
		Brand:       caps.Brand.String(),
		Known:       caps.Known(),
		Source:      caps.Source.String(),
		Adapters:    adapters,
		Graphical:   caps.Graphical(),
		TrueColor:   caps.TrueColor,
		SSH:         caps.SSH,
		Multiplexer: kind.String(),
		Size: reportSize{
			Cols: caps.Size.Cols,
			Rows: caps.Size.Rows,
		},
	}
	if caps.Size.HasPixels() {
		rep.Size.CellW, rep.Size.CellH = caps.Size.CellW, caps.Size.CellH
	}
	return rep
}

func validFormat(format string) bool {
	switch format {
	case "text", "json", "yaml":
		return true
	}
	return false
}

// writeReport renders rep to w in the given format.
func writeReport(w io.Writer, rep report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		_, err := io.WriteString(w, renderText(w, rep))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// renderText lays the report out as aligned label/value rows. Colors
// follow the profile of w, so redirected output stays plain.
func renderText(w io.Writer, rep report) string {
	r := lipgloss.NewRenderer(w)
	labelStyle := r.NewStyle().Width(12).Foreground(lipgloss.Color("#6B7280"))
	valueStyle := r.NewStyle().Bold(true)
	brandStyle := valueStyle.Foreground(lipgloss.Color("#7C3AED"))
	if !rep.Known {
		brandStyle = valueStyle.Foreground(lipgloss.Color("#B45309"))
	}

	row := func(label, value string, style lipgloss.Style) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), style.Render(value))
	}

	adapters := strings.Join(rep.Adapters, ", ")
	if len(rep.Adapters) == 0 {
		adapters = "none (half blocks)"
	}

	size := fmt.Sprintf("%dx%d", rep.Size.Cols, rep.Size.Rows)
	if rep.Size.CellW > 0 && rep.Size.CellH > 0 {
		size += fmt.Sprintf(" (cell %dx%dpx)", rep.Size.CellW, rep.Size.CellH)
	}

	rows := []string{
		row("terminal", rep.Brand, brandStyle),
		row("source", rep.Source, valueStyle),
		row("adapters", adapters, valueStyle),
		row("truecolor", yesNo(rep.TrueColor), valueStyle),
		row("ssh", yesNo(rep.SSH), valueStyle),
		row("mux", rep.Multiplexer, valueStyle),
		row("size", size, valueStyle),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// adapterList formats adapters for the profile table.
func adapterList(adapters []terminal.Adapter) string {
	if len(adapters) == 0 {
		return "-"
	}
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}
