package common

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/charmap"
)

// InputKind classifies a source file for the analysis stage.
type InputKind string

const (
	KindText     InputKind = "text"
	KindMarkdown InputKind = "markdown"
	KindTabular  InputKind = "tabular"
	KindPDF      InputKind = "pdf"
	KindUnknown  InputKind = "unknown"
)

// ClassifyInput decides the input kind from the extension, falling back to
// content sniffing for unknown extensions.
func ClassifyInput(path string) InputKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".log":
		return KindText
	case ".md", ".markdown":
		return KindMarkdown
	case ".csv", ".tsv", ".xlsx":
		return KindTabular
	case ".pdf":
		return KindPDF
	}

	f, err := os.Open(path)
	if err != nil {
		return KindUnknown
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := f.Read(head)
	head = head[:n]

	if strings.HasPrefix(string(head), "%PDF-") {
		return KindPDF
	}
	if utf8.Valid(head) && looksTextual(head) {
		return KindText
	}
	return KindUnknown
}

func looksTextual(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	printable := 0
	for _, r := range string(b) {
		if r == '\n' || r == '\r' || r == '\t' || unicode.IsPrint(r) {
			printable++
		}
	}
	return printable*10 >= utf8.RuneCount(b)*9
}

// ReadTextFile reads a file as UTF-8, decoding legacy Windows-1252 content
// and replacing any remaining undecodable bytes instead of failing.
func ReadTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ToUTF8(string(raw)), nil
}

// ToUTF8 coerces a string into valid UTF-8 with a Windows-1252 fallback.
func ToUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "�")
	}
	return decoded
}

// MarkdownDoc is the structural extract of a markdown input.
type MarkdownDoc struct {
	Headings   []string
	Paragraphs []string
}

// ParseMarkdown walks the goldmark AST and collects heading and paragraph
// text. Headings seed topics, paragraphs seed findings.
func ParseMarkdown(src []byte) MarkdownDoc {
	var doc MarkdownDoc
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(src))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if text := strings.TrimSpace(string(node.Text(src))); text != "" {
				doc.Headings = append(doc.Headings, text)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if text := strings.TrimSpace(string(node.Text(src))); text != "" {
				doc.Paragraphs = append(doc.Paragraphs, text)
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if text := strings.TrimSpace(string(node.Text(src))); text != "" {
				doc.Paragraphs = append(doc.Paragraphs, text)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return doc
}

// SplitParagraphs splits plain text on blank lines into trimmed paragraphs.
func SplitParagraphs(text string) []string {
	var paras []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		lines := strings.Fields(strings.TrimSpace(block))
		if len(lines) == 0 {
			continue
		}
		paras = append(paras, strings.Join(lines, " "))
	}
	return paras
}

// FirstSentence returns the leading sentence of a paragraph, bounded to
// maxLen runes and cut at a word boundary.
func FirstSentence(para string, maxLen int) string {
	if idx := strings.IndexAny(para, ".!?"); idx > 0 && idx < len(para)-1 {
		para = para[:idx+1]
	}
	return TruncateAtWord(para, maxLen)
}

// TruncateAtWord trims s to at most maxLen runes, never cutting mid-word.
func TruncateAtWord(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	cut := string(runes[:maxLen])
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t.,;:")
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "if": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "of": true, "on": true, "or": true,
	"our": true, "that": true, "the": true, "their": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "which": true,
	"will": true, "with": true, "when": true, "where": true, "not": true,
	"can": true, "all": true, "also": true, "more": true, "than": true,
}

// Keywords extracts up to max frequency-ranked, stop-word-filtered keyword
// candidates from free text. Ties break towards earlier first occurrence so
// the result is deterministic.
func Keywords(text string, max int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	pos := 0
	for _, raw := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	}) {
		word := strings.Trim(raw, "-")
		if len(word) < 3 || stopWords[word] {
			continue
		}
		if _, ok := counts[word]; !ok {
			firstSeen[word] = pos
		}
		counts[word]++
		pos++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}
