package matcher

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// MaxDocumentSize is the largest resume document accepted for upload.
const MaxDocumentSize = 100 * 1024 * 1024

// SupportedTypes lists the accepted resume file types.
var SupportedTypes = []string{"pdf", "docx", "doc", "txt"}

// Document is a resume file ready to be submitted.
type Document struct {
	Filename string
	Type     string
	Content  []byte
}

// DocumentInfo is what can be learned about a document without the service.
type DocumentInfo struct {
	Type  string
	Size  int
	Pages int
}

type Resumes struct {
	Items []*Resume
}

type Resume struct {
	ID                      string    `json:"id"`
	Filename                string    `json:"filename"`
	OriginalText            string    `json:"original_text,omitempty"`
	ExtractedSkills         []string  `json:"extracted_skills"`
	ExtractedExperience     []string  `json:"extracted_experience"`
	ExtractedQualifications []string  `json:"extracted_qualifications"`
	ExtractedKeywords       []string  `json:"extracted_keywords"`
	CreatedAt               time.Time `json:"created_at,omitempty"`
}

type uploadRequest struct {
	FileContent string `json:"file_content"`
	Filename    string `json:"filename"`
	FileType    string `json:"file_type"`
}

type uploadResponse struct {
	ResumeID                string   `json:"resume_id"`
	ExtractedSkills         []string `json:"extracted_skills"`
	ExtractedExperience     []string `json:"extracted_experience"`
	ExtractedQualifications []string `json:"extracted_qualifications"`
	ExtractedKeywords       []string `json:"extracted_keywords"`
}

// FileType returns the lowercased extension token of filename without the dot.
func FileType(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// NewDocument checks the file type and size of a resume document.
func NewDocument(filename string, content []byte) (*Document, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, &ValidationError{Field: "filename", Message: "file name is required"}
	}

	fileType := FileType(filename)
	if !slices.Contains(SupportedTypes, fileType) {
		return nil, &ValidationError{
			Field:   "file_type",
			Message: fmt.Sprintf("unsupported file type %q, supported formats: %s", fileType, strings.Join(SupportedTypes, ", ")),
		}
	}

	if len(content) == 0 {
		return nil, &ValidationError{Field: "file_content", Message: "file is empty"}
	}

	if len(content) > MaxDocumentSize {
		return nil, &ValidationError{Field: "file_content", Message: "file size exceeds 100MB limit"}
	}

	return &Document{
		Filename: filename,
		Type:     fileType,
		Content:  content,
	}, nil
}

// CheckDocumentPath validates the file type and size of the document at path
// without reading it.
func CheckDocumentPath(path string) error {
	_, err := statDocument(path)
	return err
}

func statDocument(path string) (os.FileInfo, error) {
	fileType := FileType(path)
	if !slices.Contains(SupportedTypes, fileType) {
		return nil, &ValidationError{
			Field:   "file_type",
			Message: fmt.Sprintf("unsupported file type %q, supported formats: %s", fileType, strings.Join(SupportedTypes, ", ")),
		}
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	switch {
	case stat.IsDir():
		return nil, &ValidationError{Field: "filename", Message: fmt.Sprintf("%s is a directory", path)}
	case stat.Size() == 0:
		return nil, &ValidationError{Field: "file_content", Message: "file is empty"}
	case stat.Size() > MaxDocumentSize:
		return nil, &ValidationError{Field: "file_content", Message: "file size exceeds 100MB limit"}
	}

	return stat, nil
}

// ReadDocument loads a resume document from disk.
func ReadDocument(path string) (*Document, error) {
	stat, err := statDocument(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewDocument(stat.Name(), content)
}

// Encode returns the transport encoding of the document bytes.
func (d *Document) Encode() string {
	return base64.StdEncoding.EncodeToString(d.Content)
}

// DecodeDocument reverses Document.Encode.
func DecodeDocument(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// Inspect reports basic facts about the document. Page counts are only known for PDFs.
func (d *Document) Inspect() (*DocumentInfo, error) {
	info := &DocumentInfo{Type: d.Type, Size: len(d.Content)}
	if d.Type != "pdf" {
		return info, nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(d.Content), int64(len(d.Content)))
	if err != nil {
		return info, fmt.Errorf("reading pdf: %w", err)
	}
	info.Pages = reader.NumPage()

	return info, nil
}

// UploadResume submits the document for extraction and returns the normalized record.
func (c *Client) UploadResume(ctx context.Context, doc *Document) (*Resume, error) {
	if doc == nil {
		return nil, &ValidationError{Field: "file", Message: "resume file is required"}
	}

	if info, err := doc.Inspect(); err != nil {
		c.logger.Debug("could not inspect document", zap.String("filename", doc.Filename), zap.Error(err))
	} else {
		c.logger.Debug("uploading resume",
			zap.String("filename", doc.Filename),
			zap.String("type", info.Type),
			zap.Int("size", info.Size),
			zap.Int("pages", info.Pages),
		)
	}

	payload := uploadRequest{
		FileContent: doc.Encode(),
		Filename:    doc.Filename,
		FileType:    doc.Type,
	}

	var resp uploadResponse
	if err := c.postJSON(ctx, "upload resume", "failed to upload resume", uploadResumePath, payload, &resp); err != nil {
		return nil, err
	}

	resume := &Resume{
		ID:                      resp.ResumeID,
		Filename:                doc.Filename,
		ExtractedSkills:         resp.ExtractedSkills,
		ExtractedExperience:     resp.ExtractedExperience,
		ExtractedQualifications: resp.ExtractedQualifications,
		ExtractedKeywords:       resp.ExtractedKeywords,
	}
	resume.normalize()

	return resume, nil
}

// ListResumes returns every resume the service has stored.
func (c *Client) ListResumes(ctx context.Context) (*Resumes, error) {
	var resp struct {
		Resumes []*Resume `json:"resumes"`
	}
	if err := c.getJSON(ctx, "list resumes", "failed to fetch resumes", resumesPath, &resp); err != nil {
		return nil, err
	}

	for _, r := range resp.Resumes {
		r.normalize()
	}

	return &Resumes{Items: resp.Resumes}, nil
}

func (r *Resume) normalize() {
	r.ExtractedSkills = nonNil(r.ExtractedSkills)
	r.ExtractedExperience = nonNil(r.ExtractedExperience)
	r.ExtractedQualifications = nonNil(r.ExtractedQualifications)
	r.ExtractedKeywords = nonNil(r.ExtractedKeywords)
}

func (r *Resumes) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *Resumes) FindByID(id string) *Resume {
	for _, resume := range r.Items {
		if resume.ID == id {
			return resume
		}
	}

	return nil
}

func (r *Resumes) Filenames() []string {
	names := make([]string, 0, len(r.Items))

	for _, v := range r.Items {
		names = append(names, v.Filename)
	}

	return names
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
