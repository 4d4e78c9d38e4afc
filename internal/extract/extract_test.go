package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"jobmatch-backend/internal/shared/storage/object"
)

type countingStore struct {
	objects map[string][]byte
	opens   int
	openErr error
}

func (s *countingStore) Save(ctx context.Context, ownerID, fileName string, r io.Reader) (string, int64, string, error) {
	return "", 0, "", errors.New("not implemented")
}

func (s *countingStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.opens++
	if s.openErr != nil {
		return nil, s.openErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane </w:t></w:r><w:r><w:t>Doe</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r></w:p>
</w:body>
</w:document>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": documentRels,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestEveryFormatHasExtractor(t *testing.T) {
	for _, f := range Formats() {
		if lookup(f) == nil {
			t.Fatalf("format %s has no extractor", f)
		}
	}
	if lookup(FormatUnknown) != nil {
		t.Fatalf("unknown format must not have an extractor")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"pdf", FormatPDF},
		{".PDF", FormatPDF},
		{"application/pdf", FormatPDF},
		{"docx", FormatDOCX},
		{MimeDOCX, FormatDOCX},
		{"txt", FormatText},
		{"text/plain; charset=utf-8", FormatText},
		{"doc", FormatUnknown},
		{"", FormatUnknown},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Fatalf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if got := FormatFromFileName("cv.final.Docx"); got != FormatDOCX {
		t.Fatalf("expected docx from file name, got %s", got)
	}
	if got := ResolveFormat("", "notes.txt"); got != FormatText {
		t.Fatalf("expected fallback to extension, got %s", got)
	}
}

func TestExtractDispatchesByFormat(t *testing.T) {
	store := &countingStore{objects: map[string][]byte{
		"k/cv.txt":  []byte("Plain résumé\r\nline two"),
		"k/cv.docx": buildDOCX(t, documentXML),
	}}
	ex := New(store, nil)

	txt, err := ex.Extract(context.Background(), Document{ID: "r1", StorageKey: "k/cv.txt", FileName: "cv.txt"})
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if txt.Format != FormatText || txt.Content != "Plain résumé\nline two" {
		t.Fatalf("unexpected text result: %+v", txt)
	}

	doc, err := ex.Extract(context.Background(), Document{ID: "r2", StorageKey: "k/cv.docx", Format: FormatDOCX})
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if doc.Content != "Jane Doe\nSenior Go Engineer\n" {
		t.Fatalf("unexpected docx content: %q", doc.Content)
	}
	if doc.DocumentID != "r2" {
		t.Fatalf("expected document id to be carried, got %q", doc.DocumentID)
	}
}

func TestExtractUnsupportedFormatDoesNotRead(t *testing.T) {
	store := &countingStore{objects: map[string][]byte{"k/cv.odt": []byte("x")}}
	ex := New(store, nil)

	for _, name := range []string{"cv.odt", "cv", "cv.doc"} {
		_, err := ex.Extract(context.Background(), Document{ID: "r", StorageKey: "k/cv.odt", FileName: name})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
	if store.opens != 0 {
		t.Fatalf("expected no reads, got %d", store.opens)
	}
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name    string
		store   *countingStore
		doc     Document
		wantErr error
	}{
		{
			name:    "missing object",
			store:   &countingStore{objects: map[string][]byte{}},
			doc:     Document{StorageKey: "gone", Format: FormatPDF},
			wantErr: ErrDocumentNotFound,
		},
		{
			name:    "storage failure",
			store:   &countingStore{openErr: errors.New("disk on fire")},
			doc:     Document{StorageKey: "k", Format: FormatText},
			wantErr: ErrStorageRead,
		},
		{
			name:    "whitespace only",
			store:   &countingStore{objects: map[string][]byte{"k": []byte(" \r\n\t ")}},
			doc:     Document{StorageKey: "k", Format: FormatText},
			wantErr: ErrCorruptDocument,
		},
		{
			name:    "corrupt pdf",
			store:   &countingStore{objects: map[string][]byte{"k": []byte("%PDF-1.4 garbage")}},
			doc:     Document{StorageKey: "k", Format: FormatPDF},
			wantErr: ErrCorruptDocument,
		},
		{
			name:    "corrupt docx",
			store:   &countingStore{objects: map[string][]byte{"k": []byte("not a zip")}},
			doc:     Document{StorageKey: "k", Format: FormatDOCX},
			wantErr: ErrCorruptDocument,
		},
		{
			name:    "empty docx body",
			store:   &countingStore{objects: map[string][]byte{}},
			doc:     Document{StorageKey: "empty", Format: FormatDOCX},
			wantErr: ErrCorruptDocument,
		},
	}
	tests[5].store.objects["empty"] = buildDOCX(t, `<w:document xmlns:w="w"><w:body><w:p></w:p></w:body></w:document>`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.store, nil).Extract(context.Background(), tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !IsExtractionError(err) {
				t.Fatalf("expected extraction error classification for %v", err)
			}
		})
	}
}

func TestExtractRejectsOversizedDocument(t *testing.T) {
	store := &countingStore{objects: map[string][]byte{"k": []byte(strings.Repeat("a", 64))}}
	ex := New(store, nil)
	ex.MaxBytes = 16

	if _, err := ex.Extract(context.Background(), Document{StorageKey: "k", Format: FormatText}); !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestNormalizeReplacesInvalidUTF8(t *testing.T) {
	got, err := FromBytes(FormatText, []byte("ok\xff\r\nnext\rlast"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != "ok�\nnext\nlast" {
		t.Fatalf("unexpected normalized text %q", got)
	}
}

func TestFromBytesStripsBOM(t *testing.T) {
	got, err := FromBytes(FormatText, append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected BOM stripped, got %q", got)
	}
}

func TestWalkDocumentXMLKeepsParagraphBreaks(t *testing.T) {
	got, err := walkDocumentXML(`<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>c</w:t><w:br/><w:t>d</w:t></w:r></w:p>` +
		`</w:body></w:document>`)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if got != "a\tb\nc\nd\n" {
		t.Fatalf("unexpected walk output %q", got)
	}
}

func TestWalkDocumentXMLKeepsTextAroundNestedParagraphs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "text box inside a run",
			body: `<w:p><w:r><w:t>Contact</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t>Jane Doe</w:t></w:r>` +
				`<w:r><w:pict><w:txbxContent><w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p></w:txbxContent></w:pict></w:r>` +
				`<w:r><w:t> Senior Engineer</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t>Skills: Go</w:t></w:r></w:p>`,
			want: "Contact\njane@example.com\nJane Doe Senior Engineer\nSkills: Go\n",
		},
		{
			name: "two levels deep",
			body: `<w:p><w:r><w:t>a</w:t></w:r>` +
				`<w:txbxContent><w:p><w:r><w:t>b</w:t></w:r>` +
				`<w:txbxContent><w:p><w:r><w:t>c</w:t></w:r></w:p></w:txbxContent>` +
				`<w:r><w:t>d</w:t></w:r></w:p></w:txbxContent>` +
				`<w:r><w:t>e</w:t></w:r></w:p>`,
			want: "c\nbd\nae\n",
		},
		{
			name: "table inside a text box is skipped",
			body: `<w:p><w:r><w:t>Jane</w:t></w:r>` +
				`<w:txbxContent><w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl></w:txbxContent>` +
				`<w:r><w:t> Doe</w:t></w:r></w:p>`,
			want: "Jane Doe\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := walkDocumentXML(`<w:document xmlns:w="w"><w:body>` + tt.body + `</w:body></w:document>`)
			if err != nil {
				t.Fatalf("walk: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractDOCXWithTextBox(t *testing.T) {
	body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r>` +
		`<w:r><w:pict><w:txbxContent><w:p><w:r><w:t>Contact</w:t></w:r></w:p></w:txbxContent></w:pict></w:r>` +
		`<w:r><w:t xml:space="preserve"> Senior Engineer</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	got, err := FromBytes(FormatDOCX, buildDOCX(t, body))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != "Contact\nJane Doe Senior Engineer\n" {
		t.Fatalf("unexpected docx content: %q", got)
	}
}
