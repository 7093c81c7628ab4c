package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"ai-interview-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	output []byte
	err    error
	stdin  []byte
	name   string
}

func (m *mockRunner) Run(_ context.Context, stdin []byte, name string, _ ...string) ([]byte, error) {
	m.stdin = stdin
	m.name = name
	return m.output, m.err
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   xml,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func validInput() CandidateInput {
	return CandidateInput{
		Name:      "  Ada Lovelace ",
		Email:     "ada@example.com",
		Position:  "Senior Engineer",
		Seniority: entity.SenioritySenior,
		Style:     entity.StyleTechnical,
		Files: []UploadedFile{
			{Name: "resume.txt", Type: FileResume, Content: b64("Ada Lovelace\nGo, Kubernetes\n6 years")},
		},
	}
}

func newTestIngestor(runner CommandRunner) *Ingestor {
	ids := 0
	opts := []Option{WithIdGenerator(func() string {
		ids++
		return "file-" + string(rune('0'+ids))
	})}
	if runner != nil {
		opts = append(opts, WithCommandRunner(runner))
	}
	return NewIngestor(opts...)
}

func TestIngest(t *testing.T) {
	res, err := newTestIngestor(nil).Ingest(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", res.Candidate.Name)
	assert.Equal(t, entity.SenioritySenior, res.Candidate.Seniority)
	require.Len(t, res.Candidate.Files, 1)
	assert.Equal(t, entity.ResumeFile{FileId: "file-1", Filename: "resume.txt", FileType: "resume", Size: 35}, res.Candidate.Files[0])
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "Ada Lovelace\nGo, Kubernetes\n6 years", res.Documents[0].Text)
	assert.Empty(t, res.Warnings)
}

func TestIngest_Defaults(t *testing.T) {
	in := validInput()
	in.Seniority = ""
	in.Style = ""
	in.Files = nil

	res, err := newTestIngestor(nil).Ingest(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, entity.SeniorityMid, res.Candidate.Seniority)
	assert.Equal(t, entity.StyleMixed, res.Candidate.Style)
	assert.Empty(t, res.Candidate.Files)
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *CandidateInput)
		field  string
	}{
		{"MissingName", func(in *CandidateInput) { in.Name = " " }, "name"},
		{"MissingPosition", func(in *CandidateInput) { in.Position = "" }, "position"},
		{"BadEmail", func(in *CandidateInput) { in.Email = "not-an-email" }, "email"},
		{"BadSeniority", func(in *CandidateInput) { in.Seniority = "principal" }, "experience_level"},
		{"BadStyle", func(in *CandidateInput) { in.Style = "sales" }, "interview_type"},
		{"TooManyFiles", func(in *CandidateInput) {
			for i := 0; i < MaxFiles; i++ {
				in.Files = append(in.Files, in.Files[0])
			}
		}, "files"},
		{"Extension", func(in *CandidateInput) { in.Files[0].Name = "resume.exe" }, "files[0].name"},
		{"PathTraversal", func(in *CandidateInput) { in.Files[0].Name = "../resume.txt" }, "files[0].name"},
		{"Separator", func(in *CandidateInput) { in.Files[0].Name = `dir\resume.txt` }, "files[0].name"},
		{"FileType", func(in *CandidateInput) { in.Files[0].Type = "portfolio" }, "files[0].type"},
		{"Base64", func(in *CandidateInput) { in.Files[0].Content = "%%%" }, "files[0].content"},
		{"Empty", func(in *CandidateInput) { in.Files[0].Content = "" }, "files[0].content"},
		{"TooLarge", func(in *CandidateInput) {
			in.Files[0].Content = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("a"), MaxFileSize+1))
		}, "files[0].content"},
		{"ContentMismatch", func(in *CandidateInput) {
			in.Files[0].Name = "resume.pdf"
			in.Files[0].Content = b64("just some text")
		}, "files[0].content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := newTestIngestor(nil).Ingest(context.Background(), in)

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestIngest_Docx(t *testing.T) {
	in := validInput()
	in.Files = []UploadedFile{{
		Name:    "CV.docx",
		Type:    FileCV,
		Content: base64.StdEncoding.EncodeToString(docxBytes(t, "Ada Lovelace", "Analytical Engine programmer")),
	}}

	res, err := newTestIngestor(nil).Ingest(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace\nAnalytical Engine programmer", res.Documents[0].Text)
	assert.Equal(t, "cv", res.Candidate.Files[0].FileType)
}

func TestIngest_PDF(t *testing.T) {
	runner := &mockRunner{output: []byte("  Ada Lovelace\nMathematician\n")}
	in := validInput()
	pdf := "%PDF-1.4\n1 0 obj <<>> endobj\ntrailer <<>>\n%%EOF"
	in.Files = []UploadedFile{{Name: "resume.pdf", Content: b64(pdf)}}

	res, err := newTestIngestor(runner).Ingest(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, []byte(pdf), runner.stdin)
	assert.Equal(t, "Ada Lovelace\nMathematician", res.Documents[0].Text)
}

func TestIngest_ExtractionFailureIsAWarning(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	in := validInput()
	in.Files = []UploadedFile{
		{Name: "resume.pdf", Content: b64("%PDF-1.4\n%%EOF")},
		{Name: "letter.doc", Type: FileCoverLetter, Content: base64.StdEncoding.EncodeToString(
			append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 512)...))},
	}

	res, err := newTestIngestor(runner).Ingest(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, res.Documents, 2)
	assert.Empty(t, res.Documents[0].Text)
	assert.Empty(t, res.Documents[1].Text)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "resume.pdf")
	assert.Contains(t, res.Warnings[1], ".doc")
}

func TestExtractRTF(t *testing.T) {
	rtf := `{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}{\*\generator Writer;}\f0\pard Ada Lovelace\par
\b Skills:\b0  Go, SQL\par caf\'e9 \{braces\}}`

	text, err := extractRTF(context.Background(), []byte(rtf))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace\nSkills: Go, SQL\ncaf {braces}", text)
}

func TestExtractPlainText_InvalidUTF8(t *testing.T) {
	_, err := extractPlainText(context.Background(), []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestExtractDocx_NotAZip(t *testing.T) {
	_, err := extractDocx(context.Background(), []byte("plain"))
	assert.Error(t, err)
}
