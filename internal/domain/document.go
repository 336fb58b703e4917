package domain

import "time"

// Document status constants. Transitions move forward only:
// uploaded -> syncing -> processing -> indexed, or any -> error.
const (
	DocumentStatusUploaded   = "uploaded"
	DocumentStatusSyncing    = "syncing"
	DocumentStatusProcessing = "processing"
	DocumentStatusIndexed    = "indexed"
	DocumentStatusError      = "error"
)

// Document represents an uploaded file tracked in the metadata store
type Document struct {
	ID              string    `json:"id"`
	KnowledgeBaseID string    `json:"knowledgeBaseId"`
	Filename        string    `json:"filename"`
	S3Key           string    `json:"s3Key,omitempty"`
	FileType        string    `json:"fileType"`
	FileSize        int64     `json:"fileSize"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UploadFile is one file in an upload batch
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadResult is the outcome of an upload batch
type UploadResult struct {
	Documents []*Document `json:"documents"`
	Message   string      `json:"message"`
	Sync      SideEffect  `json:"sync"`
}

// DocumentListResult is the response for listing documents
type DocumentListResult struct {
	Documents  []*Document `json:"documents"`
	TotalCount int         `json:"totalCount"`
	Message    string      `json:"message"`
}

// DeleteDocumentResult acknowledges a document deletion
type DeleteDocumentResult struct {
	Message string     `json:"message"`
	Storage SideEffect `json:"storage"`
}

// Side effect states for best-effort steps
const (
	SideEffectOK       = "ok"
	SideEffectDegraded = "degraded"
)

// SideEffect is the tagged outcome of a best-effort side action. A degraded
// state never fails the parent operation; the reason carries the cause.
type SideEffect struct {
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Degraded builds a degraded side-effect outcome from err
func Degraded(err error) SideEffect {
	return SideEffect{State: SideEffectDegraded, Reason: err.Error()}
}

// EffectOK is the successful side-effect outcome
func EffectOK() SideEffect {
	return SideEffect{State: SideEffectOK}
}
