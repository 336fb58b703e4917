package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ragops/kbconsole/internal/bedrock"
	"github.com/ragops/kbconsole/internal/domain"
)

const (
	defaultMaxResults   = 5
	noAnswerPlaceholder = "No response generated"
)

// RetrievalProvider issues requests against the managed
// retrieval/generation service
type RetrievalProvider interface {
	RetrieveAndGenerate(ctx context.Context, text string, maxResults int) (*bedrock.GenerateOutput, error)
	Retrieve(ctx context.Context, query string, maxResults int) (*bedrock.RetrieveOutput, error)
}

// QueryService translates user queries into managed-service calls and
// reshapes the heterogeneous provider responses into uniform contracts.
// Both operations are read-only with respect to local state.
type QueryService struct {
	provider RetrievalProvider
}

// NewQueryService creates a new query service
func NewQueryService(provider RetrievalProvider) *QueryService {
	return &QueryService{provider: provider}
}

// Chat issues a retrieval-and-generation request and returns the generated
// answer with its citation groups
func (s *QueryService) Chat(ctx context.Context, knowledgeBaseID, message string, maxResults int) (*domain.ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidRequest)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	out, err := s.provider.RetrieveAndGenerate(ctx, message, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to process chat request: %w", err)
	}

	answer := out.Answer
	if answer == "" {
		answer = noAnswerPlaceholder
	}

	sources := make([]domain.CitationGroup, 0, len(out.Citations))
	for _, citation := range out.Citations {
		group := domain.CitationGroup{RetrievedReferences: make([]domain.Reference, 0, len(citation.References))}
		for _, ref := range citation.References {
			group.RetrievedReferences = append(group.RetrievedReferences, domain.Reference{
				Content:  ref.Content,
				Location: ref.Location,
				Score:    ref.Score,
			})
		}
		sources = append(sources, group)
	}

	return &domain.ChatResult{
		Message:         answer,
		Sources:         sources,
		SessionID:       out.SessionID,
		KnowledgeBaseID: knowledgeBaseID,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// Retrieve issues a retrieval-only request and returns the ranked passages
func (s *QueryService) Retrieve(ctx context.Context, knowledgeBaseID, query string, maxResults int) (*domain.RetrieveResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	out, err := s.provider.Retrieve(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	results := make([]domain.RetrievedPassage, 0, len(out.Results))
	for _, passage := range out.Results {
		results = append(results, domain.RetrievedPassage{
			Content:  passage.Content,
			Location: passage.Location,
			Score:    passage.Score,
			Metadata: passage.Metadata,
		})
	}

	return &domain.RetrieveResult{
		Query:           query,
		Results:         results,
		KnowledgeBaseID: knowledgeBaseID,
		Timestamp:       time.Now().UTC(),
	}, nil
}
