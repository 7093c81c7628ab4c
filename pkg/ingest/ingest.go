package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"ai-interview-be/internal/entity"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MaxFileSize = 10 * 1024 * 1024
	MaxFiles    = 10
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".rtf":  true,
	".md":   true,
}

// sniffedTypes lists content types accepted per extension. Extensions not
// listed are not sniffed.
var sniffedTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".txt":  {"text/plain"},
	".md":   {"text/plain"},
}

type FileType string

const (
	FileResume      FileType = "resume"
	FileCV          FileType = "cv"
	FileCoverLetter FileType = "cover_letter"
)

func (t FileType) IsValid() bool {
	switch t {
	case FileResume, FileCV, FileCoverLetter:
		return true
	}
	return false
}

type UploadedFile struct {
	Name    string
	Type    FileType
	Content string // base64
}

type CandidateInput struct {
	Name      string
	Email     string
	Position  string
	Seniority entity.SeniorityBand
	Style     entity.InterviewStyle
	Files     []UploadedFile
}

type Result struct {
	Candidate entity.CandidateRecord
	Documents []entity.ResumeDocument
	Warnings  []string
}

type Option func(*Ingestor)

func WithCommandRunner(r CommandRunner) Option {
	return func(i *Ingestor) {
		i.runner = r
		i.lookPath = nil
	}
}

func WithIdGenerator(newId func() string) Option {
	return func(i *Ingestor) { i.newId = newId }
}

// Ingestor validates a candidate submission once and turns it into the
// typed record the engine consumes.
type Ingestor struct {
	validate *validator.Validate
	runner   CommandRunner
	lookPath func(string) (string, error)
	newId    func() string
}

func NewIngestor(opts ...Option) *Ingestor {
	i := &Ingestor{
		validate: validator.New(),
		runner:   execRunner{},
		lookPath: exec.LookPath,
		newId:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Ingestor) Ingest(ctx context.Context, in CandidateInput) (*Result, error) {
	candidate, err := i.candidate(in)
	if err != nil {
		return nil, err
	}

	if len(in.Files) > MaxFiles {
		return nil, invalid("files", "at most %d files are allowed, got %d", MaxFiles, len(in.Files))
	}

	result := &Result{Candidate: candidate, Documents: make([]entity.ResumeDocument, 0, len(in.Files))}
	for idx, f := range in.Files {
		doc, warning, err := i.file(ctx, f)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = "files[" + strconv.Itoa(idx) + "]." + ve.Field
			}
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Candidate.Files = append(result.Candidate.Files, doc.File)
		result.Documents = append(result.Documents, doc)
	}

	return result, nil
}

func (i *Ingestor) candidate(in CandidateInput) (entity.CandidateRecord, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.CandidateRecord{}, invalid("name", "is required")
	}
	position := strings.TrimSpace(in.Position)
	if position == "" {
		return entity.CandidateRecord{}, invalid("position", "is required")
	}
	email := strings.TrimSpace(in.Email)
	if err := i.validate.Var(email, "required,email"); err != nil {
		return entity.CandidateRecord{}, invalid("email", "must be a valid email address")
	}

	seniority := in.Seniority
	if seniority == "" {
		seniority = entity.SeniorityMid
	}
	if !seniority.IsValid() {
		return entity.CandidateRecord{}, invalid("experience_level", "unknown seniority %q", in.Seniority)
	}

	style := in.Style
	if style == "" {
		style = entity.StyleMixed
	}
	if !style.IsValid() {
		return entity.CandidateRecord{}, invalid("interview_type", "unknown interview style %q", in.Style)
	}

	return entity.CandidateRecord{
		Name:      name,
		Email:     email,
		Position:  position,
		Seniority: seniority,
		Style:     style,
		Files:     []entity.ResumeFile{},
	}, nil
}

func (i *Ingestor) file(ctx context.Context, f UploadedFile) (entity.ResumeDocument, string, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return entity.ResumeDocument{}, "", invalid("name", "invalid filename %q", f.Name)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return entity.ResumeDocument{}, "", invalid("name", "file type %q is not allowed", ext)
	}

	fileType := f.Type
	if fileType == "" {
		fileType = FileResume
	}
	if !fileType.IsValid() {
		return entity.ResumeDocument{}, "", invalid("type", "unknown file type %q", f.Type)
	}

	if base64.StdEncoding.DecodedLen(len(f.Content)) > MaxFileSize+3 {
		return entity.ResumeDocument{}, "", invalid("content", "file exceeds %d bytes", MaxFileSize)
	}
	data, err := base64.StdEncoding.DecodeString(f.Content)
	if err != nil {
		return entity.ResumeDocument{}, "", invalid("content", "is not valid base64")
	}
	if len(data) == 0 {
		return entity.ResumeDocument{}, "", invalid("content", "file is empty")
	}
	if len(data) > MaxFileSize {
		return entity.ResumeDocument{}, "", invalid("content", "file exceeds %d bytes", MaxFileSize)
	}

	if accepted, ok := sniffedTypes[ext]; ok && !matchesType(data, accepted) {
		return entity.ResumeDocument{}, "", invalid("content", "content does not look like a %s file", ext)
	}

	doc := entity.ResumeDocument{
		File: entity.ResumeFile{
			FileId:   i.newId(),
			Filename: name,
			FileType: string(fileType),
			Size:     int64(len(data)),
		},
	}

	extract := i.extractorFor(ext)
	if extract == nil {
		return doc, "no text extractor for " + ext + " files; " + name + " was stored without text", nil
	}

	text, err := extract(ctx, data)
	if err != nil {
		return doc, "could not extract text from " + name + ": " + err.Error(), nil
	}
	doc.Text = text
	return doc, "", nil
}

func matchesType(data []byte, accepted []string) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		for _, a := range accepted {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}
