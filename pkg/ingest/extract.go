package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// CommandRunner runs an external tool with data on stdin.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	return cmd.Output()
}

type extractor func(ctx context.Context, data []byte) (string, error)

func (i *Ingestor) extractorFor(ext string) extractor {
	switch ext {
	case ".txt", ".md":
		return extractPlainText
	case ".docx":
		return extractDocx
	case ".pdf":
		return i.extractPDF
	case ".rtf":
		return extractRTF
	default:
		return nil
	}
}

func extractPlainText(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return strings.TrimSpace(string(data)), nil
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractDocx reads the paragraphs of word/document.xml.
func extractDocx(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		var result strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				result.WriteString("\n")
			}
			for _, r := range para.Runs {
				for _, t := range r.Text {
					result.WriteString(t.Content)
				}
			}
		}
		return strings.TrimSpace(result.String()), nil
	}

	return "", fmt.Errorf("docx has no word/document.xml")
}

func (i *Ingestor) extractPDF(ctx context.Context, data []byte) (string, error) {
	if i.lookPath != nil {
		if _, err := i.lookPath("pdftotext"); err != nil {
			return "", ErrPDFToolNotFound
		}
	}
	out, err := i.runner.Run(ctx, data, "pdftotext", "-layout", "-", "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// extractRTF drops control words and groups, keeping the visible text.
func extractRTF(_ context.Context, data []byte) (string, error) {
	var sb strings.Builder
	s := string(data)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{':
			if skippedGroup(s[i:]) {
				i = groupEnd(s, i)
			}
			continue
		case '}':
			continue
		case '\\':
			if i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '{' || s[i+1] == '}') {
				sb.WriteByte(s[i+1])
				i++
				continue
			}
			if i+1 < len(s) && s[i+1] == '\'' {
				// hex escaped byte, e.g. \'e9
				i += 3
				continue
			}
			word := i + 1
			for word < len(s) && isASCIILetter(s[word]) {
				word++
			}
			if ctrl := s[i+1 : word]; ctrl == "par" || ctrl == "line" {
				sb.WriteByte('\n')
			}
			for word < len(s) && (s[word] == '-' || (s[word] >= '0' && s[word] <= '9')) {
				word++
			}
			if word < len(s) && s[word] == ' ' {
				word++
			}
			i = word - 1
		case '\r', '\n':
			continue
		default:
			sb.WriteByte(c)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

var rtfDestinations = []string{"{\\*", "{\\fonttbl", "{\\colortbl", "{\\stylesheet", "{\\info", "{\\pict", "{\\header", "{\\footer"}

func skippedGroup(s string) bool {
	for _, d := range rtfDestinations {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}

// groupEnd returns the index of the brace closing the group opened at start.
func groupEnd(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
