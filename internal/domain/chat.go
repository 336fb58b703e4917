package domain

import "time"

// ChatRequest is the request to chat with a knowledge base
type ChatRequest struct {
	Message    string `json:"message" binding:"required"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// RetrieveRequest is the request to retrieve passages without generation
type RetrieveRequest struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// Reference is one retrieved passage backing part of a generated answer
type Reference struct {
	Content  string  `json:"content"`
	Location string  `json:"location"`
	Score    float64 `json:"score"`
}

// CitationGroup is a provider-attributed grouping of source passages
type CitationGroup struct {
	RetrievedReferences []Reference `json:"retrievedReferences"`
}

// ChatResult is the normalized response of a retrieval-and-generation request
type ChatResult struct {
	Message         string          `json:"message"`
	Sources         []CitationGroup `json:"sources"`
	SessionID       string          `json:"sessionId,omitempty"`
	KnowledgeBaseID string          `json:"knowledgeBaseId"`
	Timestamp       time.Time       `json:"timestamp"`
}

// RetrievedPassage is one result unit of a retrieval-only request
type RetrievedPassage struct {
	Content  string         `json:"content"`
	Location string         `json:"location"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RetrieveResult is the normalized response of a retrieval-only request
type RetrieveResult struct {
	Query           string             `json:"query"`
	Results         []RetrievedPassage `json:"results"`
	KnowledgeBaseID string             `json:"knowledgeBaseId"`
	Timestamp       time.Time          `json:"timestamp"`
}
