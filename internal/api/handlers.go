package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ragops/kbconsole/internal/domain"
	"github.com/ragops/kbconsole/internal/service"
)

// Handler handles the console API requests
type Handler struct {
	kbService    *service.KnowledgeBaseService
	docService   *service.DocumentService
	queryService *service.QueryService
	logger       *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	kbService *service.KnowledgeBaseService,
	docService *service.DocumentService,
	queryService *service.QueryService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		kbService:    kbService,
		docService:   docService,
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the console routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	kbs := r.Group("/knowledge-bases")
	{
		kbs.GET("", h.ListKnowledgeBases)
		kbs.POST("", h.CreateKnowledgeBase)
		kbs.GET("/:id", h.GetKnowledgeBase)
		kbs.DELETE("/:id", h.DeleteKnowledgeBase)
		kbs.GET("/:id/documents", h.ListDocuments)
		kbs.POST("/:id/documents", h.UploadDocuments)
		kbs.POST("/:id/chat", h.Chat)
		kbs.POST("/:id/retrieve", h.Retrieve)
	}

	r.DELETE("/documents/:id", h.DeleteDocument)
}

// fail maps service errors onto the uniform envelope. Validation and
// not-found failures carry their own message; anything else is an upstream
// failure reported with the generic message and the cause in details.
func (h *Handler) fail(c *gin.Context, err error, genericMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, genericMsg, err)
	}
}

// Knowledge base handlers

func (h *Handler) CreateKnowledgeBase(c *gin.Context) {
	var req domain.CreateKnowledgeBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kb, err := h.kbService.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Failed to create knowledge base")
		return
	}

	respond(c, http.StatusCreated, kb)
}

func (h *Handler) ListKnowledgeBases(c *gin.Context) {
	kbs, err := h.kbService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch knowledge bases")
		return
	}

	respond(c, http.StatusOK, kbs)
}

func (h *Handler) GetKnowledgeBase(c *gin.Context) {
	kb, err := h.kbService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch knowledge base by id")
		return
	}

	respond(c, http.StatusOK, kb)
}

func (h *Handler) DeleteKnowledgeBase(c *gin.Context) {
	if err := h.kbService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete knowledge base")
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Knowledge base deleted successfully"})
}

// Document handlers

func (h *Handler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "No files provided", err)
		return
	}

	headers := form.File["files"]
	files := make([]domain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
			return
		}

		files = append(files, domain.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		})
	}

	result, err := h.docService.Upload(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		h.fail(c, err, "Failed to upload documents")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	result, err := h.docService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch documents")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	result, err := h.docService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to delete document")
		return
	}

	respond(c, http.StatusOK, result)
}

// Chat handlers

func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Message is required", err)
		return
	}

	result, err := h.queryService.Chat(c.Request.Context(), c.Param("id"), req.Message, req.MaxResults)
	if err != nil {
		h.fail(c, err, "Failed to process chat request")
		return
	}

	respond(c, http.StatusOK, result)
}

func (h *Handler) Retrieve(c *gin.Context) {
	var req domain.RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Query is required", err)
		return
	}

	result, err := h.queryService.Retrieve(c.Request.Context(), c.Param("id"), req.Query, req.MaxResults)
	if err != nil {
		h.fail(c, err, "Failed to retrieve documents")
		return
	}

	respond(c, http.StatusOK, result)
}
