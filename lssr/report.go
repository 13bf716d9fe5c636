// Snapshot renderers: JSON, YAML and text

package lssr

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"
	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/go-yaml/yaml"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	TEXT_BUCKET_NAME_WIDTH = 10
	JSON_INDENT            = "  "
)

// Buckets whose memory counter is expressed in pages, the others are in bytes:
var PageBasedMemoryBuckets = map[string]bool{
	datamodels.TCP_BUCKET:  true,
	datamodels.UDP_BUCKET:  true,
	datamodels.TCP6_BUCKET: true,
	datamodels.UDP6_BUCKET: true,
}

func RenderSnapshot(w io.Writer, snap *datamodels.Snapshot, cfg *OutputConfig) error {
	if cfg == nil {
		cfg = DefaultOutputConfig()
	}
	switch cfg.Format {
	case FORMAT_JSON:
		return RenderJson(w, snap)
	case FORMAT_YAML:
		return RenderYaml(w, snap)
	case FORMAT_TEXT:
		return NewTextRenderer(w, cfg.Color).Render(w, snap)
	}
	return fmt.Errorf("%q: invalid format", cfg.Format)
}

func RenderJson(w io.Writer, snap *datamodels.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", JSON_INDENT)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func RenderYaml(w io.Writer, snap *datamodels.Snapshot) error {
	b, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Select the color profile for the text output:
//   - never: no escape sequences
//   - always: 256 colors
//   - auto: colors only if NO_COLOR is not set and the output is a terminal
func ColorProfile(color string, w io.Writer) termenv.Profile {
	switch color {
	case COLOR_NEVER:
		return termenv.Ascii
	case COLOR_ALWAYS:
		return termenv.ANSI256
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return termenv.Ascii
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

type TextRenderer struct {
	headingStyle lipgloss.Style
	labelStyle   lipgloss.Style
	valueStyle   lipgloss.Style
	dimStyle     lipgloss.Style
}

func NewTextRenderer(w io.Writer, color string) *TextRenderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(ColorProfile(color, w))
	return &TextRenderer{
		headingStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#af87ff")),
		labelStyle:   r.NewStyle().Foreground(lipgloss.Color("#5f5fd7")),
		valueStyle:   r.NewStyle().Foreground(lipgloss.Color("#ffffaf")),
		dimStyle:     r.NewStyle().Foreground(lipgloss.Color("#767676")),
	}
}

func (tr *TextRenderer) counterLine(buf *strings.Builder, counters *datamodels.Counters, memSize func(uint64) string) {
	for i, name := range counters.Names {
		value := counters.Values[i]
		buf.WriteByte(' ')
		buf.WriteString(tr.labelStyle.Render(name + "="))
		buf.WriteString(tr.valueStyle.Render(fmt.Sprintf("%d", value)))
		if name == datamodels.MEMORY_FIELD && memSize != nil && value > 0 {
			buf.WriteString(tr.dimStyle.Render(" (" + memSize(value) + ")"))
		}
	}
	buf.WriteByte('\n')
}

func (tr *TextRenderer) Render(w io.Writer, snap *datamodels.Snapshot) error {
	buf := &strings.Builder{}

	pageSize := int64(0)
	if md := snap.Metadata; md != nil {
		pageSize = md.PageSize
		fmt.Fprintf(
			buf, "%s %s\n",
			tr.headingStyle.Render("sockstat"),
			tr.dimStyle.Render(fmt.Sprintf(
				"source=%s hostname=%s kernel_release=%s generated_at=%s",
				md.Source, md.Hostname, md.KernelRelease, md.GeneratedAt,
			)),
		)
	}
	fmt.Fprintf(
		buf, "%s %s\n",
		tr.headingStyle.Render(fmt.Sprintf("%-*s", TEXT_BUCKET_NAME_WIDTH, datamodels.SOCKETS_USED_KEY)),
		tr.valueStyle.Render(fmt.Sprintf("%d", snap.SocketsUsed)),
	)

	bytesSize := func(n uint64) string { return units.BytesSize(float64(n)) }
	for _, name := range snap.BucketNames() {
		memSize := bytesSize
		if PageBasedMemoryBuckets[name] {
			memSize = nil
			if pageSize > 0 {
				memSize = func(n uint64) string { return units.BytesSize(float64(n) * float64(pageSize)) }
			}
		}
		buf.WriteString(tr.headingStyle.Render(fmt.Sprintf("%-*s", TEXT_BUCKET_NAME_WIDTH, name)))
		tr.counterLine(buf, snap.Bucket(name), memSize)
	}

	if snap.TcpExt != nil {
		buf.WriteString(tr.headingStyle.Render(datamodels.TCP_EXT_KEY))
		buf.WriteByte('\n')
		for i, name := range snap.TcpExt.Names {
			fmt.Fprintf(
				buf, "  %s %s\n",
				tr.labelStyle.Render(name),
				tr.valueStyle.Render(fmt.Sprintf("%d", snap.TcpExt.Values[i])),
			)
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}
