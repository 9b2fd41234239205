package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pmdash/internal/clients"
	"pmdash/internal/config"
)

const (
	SideCompany    = "company"
	SideCompetitor = "competitor"
)

var (
	ErrUnknownDocument = errors.New("unknown document")
	ErrDocumentMissing = errors.New("document not available")
)

type DocumentEntry struct {
	Side     string `json:"side"`
	Label    string `json:"label"`
	Filename string `json:"filename"`
	Remote   bool   `json:"remote"`
	ViewURL  string `json:"view_url"`
	FetchURL string `json:"download_url"`
}

type DocumentCatalog struct {
	Company     []DocumentEntry `json:"company"`
	Competitors []DocumentEntry `json:"competitors"`
}

// DocumentService serves the PDF comparison panel.
type DocumentService interface {
	Catalog() DocumentCatalog
	Check(ctx context.Context) map[string]bool
	Open(ctx context.Context, side, label string) (string, []byte, error)
}

type documentService struct {
	dir    string
	docs   map[string][]config.Document
	client clients.DocumentClient
}

func NewDocumentService(dir string, company, competitors []config.Document, client clients.DocumentClient) DocumentService {
	return &documentService{
		dir:    dir,
		docs:   map[string][]config.Document{SideCompany: company, SideCompetitor: competitors},
		client: client,
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func documentFilename(location string) string {
	if isRemote(location) {
		if u, err := url.Parse(location); err == nil {
			return path.Base(u.Path)
		}
	}
	return filepath.Base(location)
}

func (s *documentService) entries(side string) []DocumentEntry {
	docs := s.docs[side]
	out := make([]DocumentEntry, 0, len(docs))
	for _, d := range docs {
		base := "/api/v1/documents/" + side + "/" + url.PathEscape(d.Label)
		out = append(out, DocumentEntry{
			Side:     side,
			Label:    d.Label,
			Filename: documentFilename(d.Location),
			Remote:   isRemote(d.Location),
			ViewURL:  base + "/view",
			FetchURL: base + "/download",
		})
	}
	return out
}

func (s *documentService) Catalog() DocumentCatalog {
	return DocumentCatalog{
		Company:     s.entries(SideCompany),
		Competitors: s.entries(SideCompetitor),
	}
}

// Check reports which documents are reachable. Missing ones are only logged.
func (s *documentService) Check(ctx context.Context) map[string]bool {
	status := make(map[string]bool)
	for _, side := range []string{SideCompany, SideCompetitor} {
		for _, d := range s.docs[side] {
			ok, err := s.exists(ctx, d.Location)
			key := side + "/" + d.Label
			status[key] = ok
			switch {
			case err != nil:
				log.Warn().Err(err).Str("document", key).Msg("cannot check document")
			case !ok:
				log.Warn().Str("document", key).Str("location", d.Location).Msg("document not found")
			}
		}
	}
	return status
}

func (s *documentService) exists(ctx context.Context, location string) (bool, error) {
	if isRemote(location) {
		return s.client.Exists(ctx, location)
	}
	p, err := s.localPath(location)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// localPath resolves a location inside the documents dir.
func (s *documentService) localPath(location string) (string, error) {
	if filepath.IsAbs(location) {
		return location, nil
	}
	p := filepath.Join(s.dir, location)
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes the documents dir", ErrUnknownDocument, location)
	}
	return p, nil
}

// Open returns the PDF's file name and bytes, reading local files from disk
// and remote ones over HTTP.
func (s *documentService) Open(ctx context.Context, side, label string) (string, []byte, error) {
	var doc *config.Document
	for i, d := range s.docs[side] {
		if d.Label == label {
			doc = &s.docs[side][i]
			break
		}
	}
	if doc == nil {
		return "", nil, fmt.Errorf("%w: %s/%s", ErrUnknownDocument, side, label)
	}

	name := documentFilename(doc.Location)
	if isRemote(doc.Location) {
		data, err := s.client.Download(ctx, doc.Location)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrDocumentMissing, err)
		}
		return name, data, nil
	}

	p, err := s.localPath(doc.Location)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrDocumentMissing, err)
	}
	return name, data, nil
}
