package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyInputByExtension(t *testing.T) {
	cases := map[string]InputKind{
		"notes.txt":    KindText,
		"NOTES.TXT":    KindText,
		"report.md":    KindMarkdown,
		"data.csv":     KindTabular,
		"data.tsv":     KindTabular,
		"book.xlsx":    KindTabular,
		"paper.pdf":    KindPDF,
		"session.log":  KindText,
		"readme.text":  KindText,
		"doc.markdown": KindMarkdown,
	}
	for path, want := range cases {
		if got := ClassifyInput(path); got != want {
			t.Errorf("ClassifyInput(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestClassifyInputSniffing(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "noext")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.7 garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := ClassifyInput(pdfPath); got != KindPDF {
		t.Errorf("PDF magic bytes classified as %v", got)
	}

	textPath := filepath.Join(dir, "plain")
	if err := os.WriteFile(textPath, []byte("just some readable prose\nwith lines\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := ClassifyInput(textPath); got != KindText {
		t.Errorf("plain prose classified as %v", got)
	}

	binPath := filepath.Join(dir, "blob")
	if err := os.WriteFile(binPath, []byte{0x00, 0x01, 0xff, 0xfe, 0x00, 0x02}, 0644); err != nil {
		t.Fatal(err)
	}
	if got := ClassifyInput(binPath); got != KindUnknown {
		t.Errorf("binary blob classified as %v", got)
	}
}

func TestToUTF8Windows1252(t *testing.T) {
	// \x93quoted\x94 is Windows-1252 smart quotes, invalid as UTF-8.
	in := "He said \x93hello\x94"
	out := ToUTF8(in)
	if !utf8.ValidString(out) {
		t.Fatalf("output is not valid UTF-8: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("decoded text lost content: %q", out)
	}

	clean := "already fine"
	if got := ToUTF8(clean); got != clean {
		t.Errorf("valid UTF-8 modified: %q", got)
	}
}

func TestTruncateAtWord(t *testing.T) {
	short := "short enough"
	if got := TruncateAtWord(short, 120); got != short {
		t.Errorf("short string modified: %q", got)
	}

	long := strings.Repeat("word ", 40)
	got := TruncateAtWord(long, 120)
	if utf8.RuneCountInString(got) > 120 {
		t.Errorf("truncated length %d exceeds limit", utf8.RuneCountInString(got))
	}
	if strings.HasSuffix(got, "wor") || strings.HasSuffix(got, "w") {
		t.Errorf("cut mid-word: %q", got)
	}
	for _, w := range strings.Fields(got) {
		if w != "word" {
			t.Errorf("unexpected fragment %q in %q", w, got)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	text := "First block line one\nline two.\n\n\nSecond block.\r\n\r\nThird."
	paras := SplitParagraphs(text)
	want := []string{"First block line one line two.", "Second block.", "Third."}
	if len(paras) != len(want) {
		t.Fatalf("got %d paragraphs, want %d: %v", len(paras), len(want), paras)
	}
	for i := range want {
		if paras[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, paras[i], want[i])
		}
	}
}

func TestFirstSentence(t *testing.T) {
	got := FirstSentence("Revenue grew. Costs fell. Margins widened.", 160)
	if got != "Revenue grew." {
		t.Errorf("got %q", got)
	}
}

func TestKeywords(t *testing.T) {
	text := "kubernetes cluster kubernetes deployment cluster kubernetes the and of"
	words := Keywords(text, 2)
	if len(words) != 2 {
		t.Fatalf("got %v", words)
	}
	if words[0] != "kubernetes" || words[1] != "cluster" {
		t.Errorf("expected frequency order, got %v", words)
	}

	for _, w := range Keywords("the and of to a", 5) {
		t.Errorf("stop word leaked: %q", w)
	}
}

func TestParseMarkdown(t *testing.T) {
	src := []byte("# Roadmap\n\nShip the beta in June.\n\n## Risks\n\n- vendor lock-in\n- latency\n")
	doc := ParseMarkdown(src)

	if len(doc.Headings) != 2 || doc.Headings[0] != "Roadmap" || doc.Headings[1] != "Risks" {
		t.Errorf("headings = %v", doc.Headings)
	}
	joined := strings.Join(doc.Paragraphs, "|")
	if !strings.Contains(joined, "Ship the beta in June.") {
		t.Errorf("paragraph missing: %v", doc.Paragraphs)
	}
	if !strings.Contains(joined, "vendor lock-in") {
		t.Errorf("list item missing: %v", doc.Paragraphs)
	}
}
