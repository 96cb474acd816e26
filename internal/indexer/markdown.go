package indexer

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor flattens markdown into plain text with one paragraph per
// block, so the chunker can split on block boundaries.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a new goldmark-backed extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// IsMarkdown reports whether filename has a markdown extension.
func IsMarkdown(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Extract parses content and returns the document title and its plain text.
// Blocks are separated by "\n\n"; list items and table rows by "\n".
// The title is the first level-1 heading, else the first level-2 heading,
// else derived from filename.
func (e *MarkdownExtractor) Extract(content []byte, filename string) (title, plain string) {
	if len(content) == 0 {
		return titleFromFilename(filename), ""
	}

	doc := e.parser.Parser().Parse(text.NewReader(content))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if s := blockText(n, content); s != "" {
			blocks = append(blocks, s)
		}
	}

	return extractTitle(doc, content, filename), strings.Join(blocks, "\n\n")
}

func blockText(n ast.Node, src []byte) string {
	switch n.Kind() {
	case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
		return inlineText(n, src)
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		return strings.TrimSpace(b.String())
	case ast.KindList:
		var items []string
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if s := childBlocks(item, src, "\n"); s != "" {
				items = append(items, s)
			}
		}
		return strings.Join(items, "\n")
	case ast.KindBlockquote, ast.KindListItem:
		return childBlocks(n, src, "\n\n")
	case extast.KindTable:
		var rows []string
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, inlineText(cell, src))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		return strings.Join(rows, "\n")
	}
	return ""
}

func childBlocks(n ast.Node, src []byte, sep string) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := blockText(c, src); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// inlineText collects the text of inline children, keeping line breaks.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func extractTitle(doc ast.Node, src []byte, filename string) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok {
			switch {
			case heading.Level == 1 && firstH1 == "":
				firstH1 = inlineText(heading, src)
			case heading.Level == 2 && firstH2 == "":
				firstH2 = inlineText(heading, src)
			}
			if firstH1 != "" {
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

// titleFromFilename drops the extension and capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
