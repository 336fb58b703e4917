package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/ragops/kbconsole/internal/domain"
)

// DocumentRepository handles document metadata persistence
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO documents (id, knowledge_base_id, filename, s3_key, file_type, file_size, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.KnowledgeBaseID, doc.Filename, doc.S3Key, doc.FileType,
		doc.FileSize, doc.Status, doc.CreatedAt, doc.UpdatedAt)

	return err
}

// Get retrieves a document by ID, nil when absent
func (r *DocumentRepository) Get(id string) (*domain.Document, error) {
	doc := &domain.Document{}

	err := r.db.QueryRow(`
		SELECT id, knowledge_base_id, filename, s3_key, file_type, file_size, status, created_at, updated_at
		FROM documents WHERE id = ?
	`, id).Scan(&doc.ID, &doc.KnowledgeBaseID, &doc.Filename, &doc.S3Key,
		&doc.FileType, &doc.FileSize, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ListByKnowledgeBase retrieves all documents of a knowledge base, newest first
func (r *DocumentRepository) ListByKnowledgeBase(knowledgeBaseID string) ([]*domain.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, knowledge_base_id, filename, s3_key, file_type, file_size, status, created_at, updated_at
		FROM documents WHERE knowledge_base_id = ? ORDER BY created_at DESC
	`, knowledgeBaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		if err := rows.Scan(&doc.ID, &doc.KnowledgeBaseID, &doc.Filename, &doc.S3Key,
			&doc.FileType, &doc.FileSize, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// CountByKnowledgeBase counts documents of a knowledge base
func (r *DocumentRepository) CountByKnowledgeBase(knowledgeBaseID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM documents WHERE knowledge_base_id = ?
	`, knowledgeBaseID).Scan(&count)
	return count, err
}

// MarkSyncing bulk-updates every document of a knowledge base to syncing.
// The ingestion job re-syncs the whole data source, so the job scope is the
// knowledge base, not the upload batch.
func (r *DocumentRepository) MarkSyncing(knowledgeBaseID string) error {
	_, err := r.db.Exec(`
		UPDATE documents SET status = ?, updated_at = ?
		WHERE knowledge_base_id = ?
	`, domain.DocumentStatusSyncing, time.Now(), knowledgeBaseID)
	return err
}

// Delete deletes a document record
func (r *DocumentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
