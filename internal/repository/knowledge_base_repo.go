package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ragops/kbconsole/internal/domain"
)

// KnowledgeBaseRepository handles knowledge base persistence
type KnowledgeBaseRepository struct {
	db *DB
}

// NewKnowledgeBaseRepository creates a new knowledge base repository
func NewKnowledgeBaseRepository(db *DB) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{db: db}
}

// Create creates a new knowledge base
func (r *KnowledgeBaseRepository) Create(kb *domain.KnowledgeBase) error {
	if kb.ID == "" {
		kb.ID = uuid.New().String()
	}
	now := time.Now()
	kb.CreatedAt = now
	kb.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO knowledge_bases (id, name, description, response_mode, top_k, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, kb.ID, kb.Name, kb.Description, kb.ResponseMode, kb.TopK, kb.CreatedAt, kb.UpdatedAt)

	return err
}

// Get retrieves a knowledge base by ID, nil when absent
func (r *KnowledgeBaseRepository) Get(id string) (*domain.KnowledgeBase, error) {
	kb := &domain.KnowledgeBase{}

	err := r.db.QueryRow(`
		SELECT id, name, description, response_mode, top_k, created_at, updated_at
		FROM knowledge_bases WHERE id = ?
	`, id).Scan(&kb.ID, &kb.Name, &kb.Description, &kb.ResponseMode,
		&kb.TopK, &kb.CreatedAt, &kb.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return kb, nil
}

// List retrieves all knowledge bases, newest first
func (r *KnowledgeBaseRepository) List() ([]*domain.KnowledgeBase, error) {
	rows, err := r.db.Query(`
		SELECT id, name, description, response_mode, top_k, created_at, updated_at
		FROM knowledge_bases ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kbs []*domain.KnowledgeBase
	for rows.Next() {
		kb := &domain.KnowledgeBase{}
		if err := rows.Scan(&kb.ID, &kb.Name, &kb.Description, &kb.ResponseMode,
			&kb.TopK, &kb.CreatedAt, &kb.UpdatedAt); err != nil {
			return nil, err
		}
		kbs = append(kbs, kb)
	}

	return kbs, rows.Err()
}

// Delete deletes a knowledge base; its documents cascade in the store
func (r *KnowledgeBaseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM knowledge_bases WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("knowledge base %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
