package markdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// complexInline selects cell content that plain text would lose.
const complexInline = "img, a, strong, em, b, i, code, ul, ol, table"

// renderTable writes a pipe table: one line per row, the first row treated
// as the header and followed by a separator line.
func renderTable(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	table := goquery.NewDocumentFromNode(n).Selection

	var lines []string
	rows := table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		// Rows of nested tables belong to their own table.
		return row.Closest("table").Get(0) == n
	})
	rows.Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, escapePipes(cellText(cell)))
		})
		if len(cells) == 0 {
			return
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if len(lines) == 1 {
			lines = append(lines, "|"+strings.Repeat(" --- |", len(cells)))
		}
	})

	if len(lines) == 0 {
		return converter.RenderSuccess
	}
	w.WriteString("\n\n" + strings.Join(lines, "\n") + "\n\n")
	return converter.RenderSuccess
}

// cellText flattens a cell to one line: paragraphs joined by <br>, rich
// content converted recursively, anything else as plain text.
func cellText(cell *goquery.Selection) string {
	if paras := cell.Find("p"); paras.Length() > 0 {
		var parts []string
		paras.Each(func(_ int, p *goquery.Selection) {
			if t := collapseSpace(p.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, "<br>")
	}

	if cell.Find(complexInline).Length() > 0 {
		inner, err := cell.Html()
		if err == nil {
			md, err := New().ConvertString(inner)
			if err == nil {
				return strings.ReplaceAll(strings.TrimSpace(md), "\n", "<br>")
			}
		}
	}
	return collapseSpace(cell.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
