package markdown

import (
	"strings"
	"testing"
)

func convert(t *testing.T, in string) string {
	t.Helper()
	out, err := Convert(in)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return out
}

func TestConvert_SimpleTable(t *testing.T) {
	in := `<table><tr><th>Header 1</th><th>Header 2</th></tr><tr><td>Cell 1</td><td>Cell 2</td></tr></table>`
	got := convert(t, in)
	want := "| Header 1 | Header 2 |\n| --- | --- |\n| Cell 1 | Cell 2 |"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestConvert_TableWithSections(t *testing.T) {
	in := `<table><thead><tr><td>A</td><td>B</td><td>C</td></tr></thead>` +
		`<tbody><tr><td>1</td><td>2</td><td>3</td></tr><tr><td>4</td><td>5</td><td>6</td></tr></tbody></table>`
	got := convert(t, in)
	want := "| A | B | C |\n| --- | --- | --- |\n| 1 | 2 | 3 |\n| 4 | 5 | 6 |"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestConvert_CellParagraphs(t *testing.T) {
	in := `<table><tr><td>H</td></tr><tr><td><p>A</p><p> </p><p>B</p></td></tr></table>`
	got := convert(t, in)
	if !strings.Contains(got, "| A<br>B |") {
		t.Errorf("paragraphs not joined: %s", got)
	}
}

func TestConvert_CellPipeEscaped(t *testing.T) {
	in := `<table><tr><td>x | y</td></tr></table>`
	got := convert(t, in)
	if !strings.Contains(got, `| x \| y |`) {
		t.Errorf("pipe not escaped: %s", got)
	}
}

func TestConvert_CellComplexContent(t *testing.T) {
	in := `<table><tr><td>Doc</td></tr><tr><td><a href="/pages/guide/">Guide</a> and <strong>bold</strong></td></tr></table>`
	got := convert(t, in)
	if !strings.Contains(got, "| [Guide](/pages/guide/) and **bold** |") {
		t.Errorf("complex cell not converted: %s", got)
	}
}

func TestConvert_EmptyTable(t *testing.T) {
	if got := convert(t, `<table></table>`); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := convert(t, `<table><tbody></tbody></table>`); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestConvert_NestedTableRowsStayInCell(t *testing.T) {
	in := `<table><tr><td>Outer</td></tr><tr><td><table><tr><td>inner</td></tr></table></td></tr></table>`
	got := convert(t, in)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[2], "inner") {
		t.Errorf("nested content missing: %s", lines[2])
	}
}

func TestConvert_HeadingsAndCode(t *testing.T) {
	in := `<h2>Setup</h2><pre><code>make build</code></pre>`
	got := convert(t, in)
	if !strings.Contains(got, "## Setup") {
		t.Errorf("expected ATX heading: %s", got)
	}
	if !strings.Contains(got, "```\nmake build\n```") {
		t.Errorf("expected fenced code block: %s", got)
	}
}

func TestConvert_Empty(t *testing.T) {
	if got := convert(t, ""); got != "" {
		t.Errorf("got %q", got)
	}
}
