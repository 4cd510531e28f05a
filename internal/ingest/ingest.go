package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"prodesk-chatbot/internal/models"
)

// ErrNoDocuments reports an ingestion that produced an empty corpus.
// Retryable: re-ingestion after fixing the source recovers.
var ErrNoDocuments = errors.New("no documents ingested")

// LoadKnowledgeFile reads a pre-fetched knowledge corpus from a JSON file
// holding an array of {url, content, source} records.
func LoadKnowledgeFile(path string) ([]models.KnowledgeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file: %w", err)
	}
	var docs []models.KnowledgeDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing knowledge file: %w", err)
	}

	kept := docs[:0]
	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		if d.Source == "" {
			d.Source = d.URL
		}
		kept = append(kept, d)
	}
	log.Info().Str("path", path).Int("documents", len(kept)).Msg("knowledge file loaded")
	return kept, nil
}

// LoadCorpusDir walks a directory and turns every supported file
// (pdf, docx, xlsx, ods, txt, md) into a KnowledgeDocument. Files that
// fail to parse are logged and skipped; an unreadable directory is an
// error.
func LoadCorpusDir(dir string) ([]models.KnowledgeDocument, error) {
	var docs []models.KnowledgeDocument
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supportedExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, parseErr := parseFile(path)
		if parseErr != nil {
			log.Warn().Err(parseErr).Str("file", path).Msg("skipping unparseable corpus file")
			return nil
		}
		if content == "" {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		info, _ := d.Info()
		doc := models.KnowledgeDocument{
			Source:  "/" + filepath.ToSlash(rel),
			Title:   strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			Content: content,
		}
		if info != nil {
			doc.FetchedAt = info.ModTime()
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus dir: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	log.Info().Str("dir", dir).Int("documents", len(docs)).Msg("corpus directory loaded")
	return docs, nil
}
