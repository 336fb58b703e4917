package domain

import "time"

// Response mode constants for a knowledge base
const (
	ResponseModeLLM       = "LLM Response"
	ResponseModeRetrieval = "Retrieval Response"
)

// KnowledgeBase represents a named, independently queryable document collection
type KnowledgeBase struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ResponseMode string    `json:"responseMode"`
	TopK         int       `json:"topK"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateKnowledgeBaseRequest is the request to create a knowledge base
type CreateKnowledgeBaseRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description,omitempty"`
	ResponseMode string `json:"responseMode"`
	TopK         int    `json:"topK"`
}

// ValidResponseMode reports whether mode is one of the two supported modes
func ValidResponseMode(mode string) bool {
	return mode == ResponseModeLLM || mode == ResponseModeRetrieval
}
