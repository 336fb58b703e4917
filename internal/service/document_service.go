package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ragops/kbconsole/internal/domain"
	"github.com/ragops/kbconsole/internal/repository"
	"github.com/ragops/kbconsole/internal/storage"
)

// Upload limits, matching the API surface (multipart field "files")
const (
	MaxBatchFiles = 10
	MaxFileSize   = 50 * 1024 * 1024
)

// Allowed upload media types
var allowedFileTypes = map[string]bool{
	"text/plain":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/html": true,
}

// IngestionTrigger starts a sync job for the managed knowledge base's data
// source and returns the job id
type IngestionTrigger interface {
	StartIngestionJob(ctx context.Context, description string) (string, error)
}

// DocumentService moves uploaded files into durable storage and tracks their
// lifecycle: uploaded -> syncing -> indexed | error
type DocumentService struct {
	kbRepo    *repository.KnowledgeBaseRepository
	docRepo   *repository.DocumentRepository
	store     storage.ObjectStore
	ingestion IngestionTrigger
	logger    *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	kbRepo *repository.KnowledgeBaseRepository,
	docRepo *repository.DocumentRepository,
	store storage.ObjectStore,
	ingestion IngestionTrigger,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		kbRepo:    kbRepo,
		docRepo:   docRepo,
		store:     store,
		ingestion: ingestion,
		logger:    logger,
	}
}

// Upload stores a batch of files and triggers an ingestion sync.
//
// Per-file object-store writes and metadata-record creations run
// concurrently. The batch is all-or-nothing: if any file fails, already
// written sibling objects and records are compensated away and the whole
// upload fails. The ingestion trigger afterwards is best-effort; its failure
// degrades the returned sync outcome without failing the upload.
func (s *DocumentService) Upload(ctx context.Context, knowledgeBaseID string, files []domain.UploadFile) (*domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", domain.ErrInvalidRequest)
	}
	if len(files) > MaxBatchFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", domain.ErrInvalidRequest, MaxBatchFiles)
	}
	for _, f := range files {
		if f.Size > MaxFileSize {
			return nil, fmt.Errorf("%w: file %s exceeds the 50MB limit", domain.ErrInvalidRequest, f.Filename)
		}
		if !allowedFileTypes[f.ContentType] {
			return nil, fmt.Errorf("%w: invalid file type %s, only TXT, PDF, DOC, DOCX and HTML files are allowed", domain.ErrInvalidRequest, f.ContentType)
		}
	}

	kb, err := s.kbRepo.Get(knowledgeBaseID)
	if err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, fmt.Errorf("knowledge base %s: %w", knowledgeBaseID, domain.ErrNotFound)
	}

	keys := make([]string, len(files))
	docs := make([]*domain.Document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			key := storage.ObjectKey(knowledgeBaseID, f.Filename, time.Now())
			if _, err := s.store.Put(gctx, key, f.Data, f.ContentType); err != nil {
				return fmt.Errorf("failed to upload %s: %w", f.Filename, err)
			}
			keys[i] = key

			doc := &domain.Document{
				KnowledgeBaseID: knowledgeBaseID,
				Filename:        f.Filename,
				S3Key:           key,
				FileType:        f.ContentType,
				FileSize:        f.Size,
				Status:          domain.DocumentStatusUploaded,
			}
			if err := s.docRepo.Create(doc); err != nil {
				return fmt.Errorf("failed to record %s: %w", f.Filename, err)
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.compensate(ctx, keys, docs)
		return nil, err
	}

	sync := s.triggerSync(ctx, knowledgeBaseID)

	return &domain.UploadResult{
		Documents: docs,
		Message:   fmt.Sprintf("Successfully uploaded %d documents and started sync with knowledge base %s", len(docs), knowledgeBaseID),
		Sync:      sync,
	}, nil
}

// compensate removes objects and records written before a sibling file in
// the batch failed
func (s *DocumentService) compensate(ctx context.Context, keys []string, docs []*domain.Document) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to clean up object after aborted upload",
				zap.String("key", key), zap.Error(err))
		}
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if err := s.docRepo.Delete(doc.ID); err != nil {
			s.logger.Warn("failed to clean up document record after aborted upload",
				zap.String("document_id", doc.ID), zap.Error(err))
		}
	}
}

// triggerSync starts the ingestion job and, on success, marks every document
// of the knowledge base syncing. The job re-indexes the whole data source,
// which is why the status update is not limited to the new batch.
func (s *DocumentService) triggerSync(ctx context.Context, knowledgeBaseID string) domain.SideEffect {
	description := fmt.Sprintf("Sync job started at %s", time.Now().UTC().Format(time.RFC3339))
	jobID, err := s.ingestion.StartIngestionJob(ctx, description)
	if err != nil {
		s.logger.Warn("failed to start ingestion job",
			zap.String("knowledge_base_id", knowledgeBaseID), zap.Error(err))
		return domain.Degraded(err)
	}

	s.logger.Info("ingestion job started",
		zap.String("knowledge_base_id", knowledgeBaseID),
		zap.String("job_id", jobID))

	if err := s.docRepo.MarkSyncing(knowledgeBaseID); err != nil {
		s.logger.Warn("failed to mark documents syncing",
			zap.String("knowledge_base_id", knowledgeBaseID), zap.Error(err))
		return domain.Degraded(err)
	}

	return domain.EffectOK()
}

// List returns all documents of a knowledge base, newest first, with a total
// count. Read-only.
func (s *DocumentService) List(ctx context.Context, knowledgeBaseID string) (*domain.DocumentListResult, error) {
	docs, err := s.docRepo.ListByKnowledgeBase(knowledgeBaseID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*domain.Document{}
	}

	total, err := s.docRepo.CountByKnowledgeBase(knowledgeBaseID)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentListResult{
		Documents:  docs,
		TotalCount: total,
		Message:    fmt.Sprintf("Found %d documents", total),
	}, nil
}

// Delete removes a document. The object-store deletion is attempted first
// but never blocks the metadata deletion; its failure degrades the returned
// storage outcome.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (*domain.DeleteDocumentResult, error) {
	doc, err := s.docRepo.Get(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	cleanup := domain.EffectOK()
	if err := s.store.Delete(ctx, doc.S3Key); err != nil {
		s.logger.Warn("failed to delete object, continuing with metadata deletion",
			zap.String("key", doc.S3Key), zap.Error(err))
		cleanup = domain.Degraded(err)
	}

	if err := s.docRepo.Delete(documentID); err != nil {
		return nil, err
	}

	return &domain.DeleteDocumentResult{
		Message: "Document deleted successfully",
		Storage: cleanup,
	}, nil
}
