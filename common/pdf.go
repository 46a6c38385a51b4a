package common

import (
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDFDocument wraps an open PDF for text extraction and page rendering.
type PDFDocument struct {
	Path     string
	NumPages int
	doc      *fitz.Document
}

// OpenPDF opens a PDF input. Callers treat failure as a recoverable input
// problem (warning finding), not a pipeline error.
func OpenPDF(path string) (*PDFDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	return &PDFDocument{Path: path, NumPages: doc.NumPage(), doc: doc}, nil
}

// Close releases the underlying document.
func (p *PDFDocument) Close() {
	if p.doc != nil {
		p.doc.Close()
	}
}

// ExtractText concatenates the text of every page.
func (p *PDFDocument) ExtractText() (string, error) {
	var sb strings.Builder
	for i := 0; i < p.NumPages; i++ {
		text, err := p.doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("error extracting text from page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return ToUTF8(sb.String()), nil
}

// PageImage renders one page at screen resolution.
func (p *PDFDocument) PageImage(pageNum int) (image.Image, error) {
	if pageNum < 0 || pageNum >= p.NumPages {
		return nil, fmt.Errorf("page number %d out of range", pageNum)
	}
	img, err := p.doc.Image(pageNum)
	if err != nil {
		return nil, fmt.Errorf("error rendering page %d: %w", pageNum, err)
	}
	return img, nil
}

// PagePNG renders one page as PNG bytes at the given DPI.
func (p *PDFDocument) PagePNG(pageNum int, dpi float64) ([]byte, error) {
	if pageNum < 0 || pageNum >= p.NumPages {
		return nil, fmt.Errorf("page number %d out of range", pageNum)
	}
	return p.doc.ImagePNG(pageNum, dpi)
}
