package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRTFTextStripsMarkup(t *testing.T) {
	raw := `{\rtf1\ansi{\fonttbl{\f0 Arial;}}{\colortbl;\red0\green0\blue0;}Hello \b World\b0\par Question one\tab done}`

	got := RTFText(raw)
	want := "Hello World\nQuestion one\tdone"
	if got != want {
		t.Fatalf("RTFText = %q, want %q", got, want)
	}
}

func TestRTFTextDecodesHexEscapes(t *testing.T) {
	got := RTFText(`{\rtf1 caf\'e9}`)
	if got != "caf\xe9" {
		t.Fatalf("RTFText = %q, want caf\\xe9", got)
	}
}

func TestRTFTextSkipsDestinationGroups(t *testing.T) {
	raw := `{\rtf1{\*\generator Riched20;}{\info{\title secret}}visible}`

	got := RTFText(raw)
	if got != "visible" {
		t.Fatalf("RTFText = %q, want %q", got, "visible")
	}
}

func TestDocxText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.docx")
	writeDocx(t, path, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := DocxText(path)
	if err != nil {
		t.Fatalf("DocxText failed: %v", err)
	}
	if !strings.Contains(got, "First paragraph") || !strings.Contains(got, "Second paragraph") {
		t.Fatalf("unexpected text: %q", got)
	}
	if !strings.Contains(got, "First paragraph\n") {
		t.Fatalf("paragraphs must be newline separated: %q", got)
	}
}

func TestDocxTextWithoutDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	writer := zip.NewWriter(file)
	if _, err := writer.Create("other.xml"); err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("file close failed: %v", err)
	}

	if _, err := DocxText(path); err == nil {
		t.Fatalf("expected error for docx without document.xml")
	}
}

func TestFromFileDispatch(t *testing.T) {
	dir := t.TempDir()

	txtPath := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(txtPath, []byte("raw text"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := FromFile(txtPath)
	if err != nil || got != "raw text" {
		t.Fatalf("FromFile(.txt) = %q, %v", got, err)
	}

	rtfPath := filepath.Join(dir, "doc.rtf")
	if err := os.WriteFile(rtfPath, []byte(`{\rtf1 hello\par}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err = FromFile(rtfPath)
	if err != nil || got != "hello" {
		t.Fatalf("FromFile(.rtf) = %q, %v", got, err)
	}

	if _, err := FromFile(filepath.Join(dir, "image.png")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func writeDocx(t *testing.T, path, documentXML string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	writer := zip.NewWriter(file)
	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if _, err := entry.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("file close failed: %v", err)
	}
}
