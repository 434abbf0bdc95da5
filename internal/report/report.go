// Package report renders the aggregated fault list.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tonhe/acifault/internal/engine"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/tui/styles"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// DateLayout is how lastTransition is shown in table and CSV output.
const DateLayout = "2006-01-02 15:04:05 -07:00"

// Headers are the report columns, in order.
var Headers = []string{
	"Fabric", "Fabric Health", "Date", "Domain", "Severity",
	"Fault Code", "Cause", "Description", "Occur",
}

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or csv)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format     Format
	DescLength int            // description display truncation in runes; <= 0 keeps it whole
	Styles     *styles.Styles // colors for the table; nil renders plain text
}

// Render writes faults to w in the requested format. The order of faults is
// kept as given.
func Render(w io.Writer, faults []fault.Fault, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, faults, opts)
	case FormatCSV:
		return renderCSV(w, faults, opts)
	case FormatTable, "":
		return renderTable(w, faults, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// Truncate shortens s to at most n runes. n <= 0 leaves s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Row returns the cells of one fault in column order.
func Row(f fault.Fault, descLength int) []string {
	return []string{
		f.Fabric,
		strconv.Itoa(f.FabricHealth),
		f.LastTransition.Format(DateLayout),
		f.Domain,
		string(f.Severity),
		f.Code,
		f.Cause,
		Truncate(f.Descr, descLength),
		strconv.Itoa(f.Occur),
	}
}

const (
	colHealth   = 1
	colSeverity = 4
)

func renderTable(w io.Writer, faults []fault.Fault, opts Options) error {
	rows := make([][]string, len(faults))
	for i, f := range faults {
		rows[i] = Row(f, opts.DescLength)
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(rows...)

	sty := opts.Styles
	if sty != nil {
		t = t.BorderStyle(sty.TableBorder)
	}
	t = t.StyleFunc(func(row, col int) lipgloss.Style {
		if sty == nil {
			return cell
		}
		if row == table.HeaderRow {
			return sty.TableHeader.Padding(0, 1)
		}
		if row < 0 || row >= len(faults) {
			return cell
		}
		switch col {
		case colHealth:
			return sty.Health(faults[row].FabricHealth).Padding(0, 1)
		case colSeverity:
			return sty.Severity(faults[row].Severity).Padding(0, 1)
		}
		if faults[row].Placeholder {
			return sty.TableCellDim.Padding(0, 1)
		}
		return cell
	})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

type jsonFault struct {
	Fabric         string `json:"fabric"`
	FabricHealth   int    `json:"fabricHealth"`
	LastTransition string `json:"lastTransition"`
	Domain         string `json:"domain"`
	Severity       string `json:"severity"`
	Ack            string `json:"ack"`
	Code           string `json:"code"`
	Cause          string `json:"cause"`
	Descr          string `json:"descr"`
	Occur          int    `json:"occur"`
	Placeholder    bool   `json:"placeholder,omitempty"`
}

func renderJSON(w io.Writer, faults []fault.Fault, opts Options) error {
	out := make([]jsonFault, len(faults))
	for i, f := range faults {
		out[i] = jsonFault{
			Fabric:         f.Fabric,
			FabricHealth:   f.FabricHealth,
			LastTransition: f.LastTransition.Format(fault.TimeLayout),
			Domain:         f.Domain,
			Severity:       string(f.Severity),
			Ack:            string(f.Ack),
			Code:           f.Code,
			Cause:          f.Cause,
			Descr:          Truncate(f.Descr, opts.DescLength),
			Occur:          f.Occur,
			Placeholder:    f.Placeholder,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, faults []fault.Fault, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return err
	}
	for _, f := range faults {
		if err := cw.Write(Row(f, opts.DescLength)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary returns one line per fabric that failed, in fabric order.
func Summary(results []engine.FabricResult) []string {
	var lines []string
	for _, r := range results {
		if r.Failed() {
			lines = append(lines, fmt.Sprintf("%s: %v", r.Fabric, r.Err))
		}
	}
	return lines
}
