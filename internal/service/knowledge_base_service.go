package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragops/kbconsole/internal/domain"
	"github.com/ragops/kbconsole/internal/repository"
)

const defaultTopK = 5

// KnowledgeBaseService handles knowledge base CRUD
type KnowledgeBaseService struct {
	kbRepo *repository.KnowledgeBaseRepository
}

// NewKnowledgeBaseService creates a new knowledge base service
func NewKnowledgeBaseService(kbRepo *repository.KnowledgeBaseRepository) *KnowledgeBaseService {
	return &KnowledgeBaseService{kbRepo: kbRepo}
}

// Create creates a new knowledge base
func (s *KnowledgeBaseService) Create(ctx context.Context, req *domain.CreateKnowledgeBaseRequest) (*domain.KnowledgeBase, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	mode := req.ResponseMode
	if mode == "" {
		mode = domain.ResponseModeLLM
	}
	if !domain.ValidResponseMode(mode) {
		return nil, fmt.Errorf("%w: unknown response mode %q", domain.ErrInvalidRequest, req.ResponseMode)
	}

	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	if topK < 0 {
		return nil, fmt.Errorf("%w: topK must be a positive integer", domain.ErrInvalidRequest)
	}

	kb := &domain.KnowledgeBase{
		Name:         req.Name,
		Description:  req.Description,
		ResponseMode: mode,
		TopK:         topK,
	}
	if err := s.kbRepo.Create(kb); err != nil {
		return nil, err
	}
	return kb, nil
}

// Get retrieves a knowledge base by ID
func (s *KnowledgeBaseService) Get(ctx context.Context, id string) (*domain.KnowledgeBase, error) {
	kb, err := s.kbRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, fmt.Errorf("knowledge base %s: %w", id, domain.ErrNotFound)
	}
	return kb, nil
}

// List retrieves all knowledge bases, newest first
func (s *KnowledgeBaseService) List(ctx context.Context) ([]*domain.KnowledgeBase, error) {
	kbs, err := s.kbRepo.List()
	if err != nil {
		return nil, err
	}
	if kbs == nil {
		kbs = []*domain.KnowledgeBase{}
	}
	return kbs, nil
}

// Delete deletes a knowledge base; document records cascade in the store
func (s *KnowledgeBaseService) Delete(ctx context.Context, id string) error {
	return s.kbRepo.Delete(id)
}
