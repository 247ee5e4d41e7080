// Package markdown converts card HTML into Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

// New builds a converter with ATX headings, fenced code blocks and the
// pipe-table rule. Table parts outside a table render nothing.
func New() *converter.Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithCodeBlockFence("```"),
			),
		),
	)

	conv.Register.RendererFor("table", converter.TagTypeBlock, renderTable, converter.PriorityEarly)
	for _, tag := range []string{"tr", "td", "th"} {
		conv.Register.RendererFor(tag, converter.TagTypeBlock, renderNothing, converter.PriorityEarly)
	}
	return conv
}

// Convert turns HTML into Markdown with a fresh converter.
func Convert(htmlStr string) (string, error) {
	if htmlStr == "" {
		return "", nil
	}
	md, err := New().ConvertString(htmlStr)
	if err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func renderNothing(_ converter.Context, _ converter.Writer, _ *html.Node) converter.RenderStatus {
	return converter.RenderSuccess
}
