package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"chonkit/internal/apperr"
	"chonkit/internal/events"
	"chonkit/internal/repository"
)

// Upload writes bytes to the document store and records a Document row.
// Uploading the same bytes at the same (src, path) twice is idempotent: the
// existing document is returned rather than creating a duplicate.
//
// Bytes are written under a content-addressed storage key, not the
// caller-supplied path: the documents table allows several distinct
// (different-hash) documents to share one logical path, and a second upload
// at the same path must never overwrite the bytes backing an existing
// document.
func (s *Service) Upload(ctx context.Context, src, path string, data []byte, label string, tags []string) (repository.Document, error) {
	ctx, end := s.startSpan(ctx, "upload", attribute.String("src", src), attribute.String("path", path))
	doc, err := s.upload(ctx, src, path, data, label, tags)
	end(&err)
	return doc, err
}

func (s *Service) upload(ctx context.Context, src, path string, data []byte, label string, tags []string) (repository.Document, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if existing, ok, err := s.Documents.FindBySrcPathHash(ctx, src, path, hash); err != nil {
		return repository.Document{}, err
	} else if ok {
		return existing, nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	key := contentStorageKey(hash, ext)

	written, err := s.DocStore.Write(ctx, key, data, true)
	if err != nil {
		return repository.Document{}, err
	}

	doc, err := s.Documents.Insert(ctx, repository.Document{
		Name:        filepath.Base(path),
		Path:        path,
		StoragePath: written,
		Ext:         ext,
		Hash:        hash,
		Src:         src,
		Label:       label,
		Tags:        tags,
	})
	if err != nil {
		// The byte blob was written but the metadata insert failed: attempt
		// a compensating delete, unless another document already shares this
		// content-addressed blob (same hash), in which case deleting it
		// would corrupt that document.
		if shared, checkErr := s.Documents.ExistsByHash(ctx, hash); checkErr != nil {
			return repository.Document{}, apperr.Wrap(apperr.Inconsistent, "path="+written, checkErr)
		} else if !shared {
			if delErr := s.DocStore.Delete(ctx, written); delErr != nil {
				return repository.Document{}, apperr.Wrap(apperr.Inconsistent, "path="+written, delErr)
			}
		}
		return repository.Document{}, err
	}

	s.publish(ctx, events.Event{Kind: events.DocumentUploaded, DocumentID: doc.ID})
	return doc, nil
}

// contentStorageKey derives a collision-proof storage path from the
// document's content hash rather than its caller-supplied logical path: the
// documents table permits several distinct (different-hash) documents at the
// same logical path, and the physical store must not let one overwrite
// another's bytes.
func contentStorageKey(hash, ext string) string {
	name := hash
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(hash[:2], name)
}
