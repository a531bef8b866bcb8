package report

import (
	"fmt"
	"html"
	"strings"
)

const (
	cellStyle    = "border:1px solid #e5e7eb; padding:6px;"
	headerStyle  = "border:1px solid #e5e7eb; padding:6px; text-align:left; background:#f3f4f6;"
	sectionStyle = "border:1px solid #e5e7eb; padding:6px; font-weight:600; background:#eff6ff;"
)

// ToPrintableHTML renders the statement as a standalone HTML document
// for the browser print dialog. Rendering is pure: no I/O, no failure
// modes on well-formed rows.
//
// Title rows span all 16 columns centered; section-header halves span 8
// columns highlighted; the column-header row renders as <th>; data cells
// are right-aligned except the particulars column.
func ToPrintableHTML(rows []Row, pageTitle string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(pageTitle))
	b.WriteString("<meta charset=\"utf-8\">\n</head>\n<body>\n")
	b.WriteString("<div style=\"font-family: Arial, sans-serif; padding: 16px;\">\n")
	b.WriteString("<table style=\"width:100%; border-collapse:collapse; font-size:11px;\">\n")

	for _, r := range rows {
		switch r.Kind {
		case KindTitle:
			fmt.Fprintf(&b, "<tr><td colspan=\"16\" style=\"%s text-align:center; font-weight:600;\">%s</td></tr>\n",
				cellStyle, html.EscapeString(r.Cells[7]))
		case KindDate:
			fmt.Fprintf(&b, "<tr><td colspan=\"16\" style=\"%s text-align:right;\">%s</td></tr>\n",
				cellStyle, html.EscapeString(r.Cells[15]))
		case KindHeader:
			b.WriteString("<tr>")
			for _, c := range r.Cells {
				fmt.Fprintf(&b, "<th style=\"%s\">%s</th>", headerStyle, html.EscapeString(c))
			}
			b.WriteString("</tr>\n")
		default:
			b.WriteString("<tr>")
			writeHalf(&b, r.Left, r.Cells[:HalfWidth])
			writeHalf(&b, r.Right, r.Cells[HalfWidth:])
			b.WriteString("</tr>\n")
		}
	}

	b.WriteString("</table>\n</div>\n</body>\n</html>\n")
	return b.String()
}

func writeHalf(b *strings.Builder, kind HalfKind, cells []string) {
	if kind == HalfSection {
		fmt.Fprintf(b, "<td colspan=\"8\" style=\"%s\">%s</td>", sectionStyle, html.EscapeString(cells[0]))
		return
	}
	for i, c := range cells {
		align := "text-align:right"
		if i == 0 {
			align = "text-align:left"
		}
		fmt.Fprintf(b, "<td style=\"%s %s;\">%s</td>", cellStyle, align, html.EscapeString(c))
	}
}
