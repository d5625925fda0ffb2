package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

const missingText = "n/a"

// Text renders the report for terminals and the HTML form.
func (r Report) Text() string {
	var b strings.Builder
	for _, s := range r.Scalars {
		fmt.Fprintf(&b, "%s: %s", s.Label, formatValue(s.Value, s.Precision))
		if s.Unit != "" && s.Value != nil {
			fmt.Fprintf(&b, " %s", s.Unit)
		}
		b.WriteByte('\n')
	}
	if r.Table != nil && len(r.Table.Rows) > 0 {
		r.Table.write(&b)
	}
	if r.Artifact != nil {
		fmt.Fprintf(&b, "Artifact: %s (%d points)\n", r.Artifact.Path, r.Artifact.Points)
	}
	if r.Message != "" {
		b.WriteString(r.Message)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *TableData) write(b *strings.Builder) {
	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\t%s\t\n", t.Index, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		fmt.Fprintf(w, "%s\t%s\t\n", row.Label, strings.Join(cells, "\t"))
	}
	w.Flush()
}

func (c Cell) String() string {
	if !c.Numeric {
		return c.Text
	}
	return formatValue(c.Value, c.Precision)
}

func formatValue(v *float64, precision int) string {
	if v == nil {
		return missingText
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}
