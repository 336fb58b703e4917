package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragops/kbconsole/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createKB(t *testing.T, repo *KnowledgeBaseRepository, name string) *domain.KnowledgeBase {
	t.Helper()
	kb := &domain.KnowledgeBase{
		Name:         name,
		Description:  "test knowledge base",
		ResponseMode: domain.ResponseModeLLM,
		TopK:         5,
	}
	require.NoError(t, repo.Create(kb))
	return kb
}

func TestKnowledgeBaseCreateGet(t *testing.T) {
	repo := NewKnowledgeBaseRepository(newTestDB(t))

	kb := &domain.KnowledgeBase{
		Name:         "refunds",
		Description:  "refund policies",
		ResponseMode: domain.ResponseModeRetrieval,
		TopK:         3,
	}
	require.NoError(t, repo.Create(kb))
	require.NotEmpty(t, kb.ID)

	got, err := repo.Get(kb.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "refunds", got.Name)
	assert.Equal(t, "refund policies", got.Description)
	assert.Equal(t, domain.ResponseModeRetrieval, got.ResponseMode)
	assert.Equal(t, 3, got.TopK)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestKnowledgeBaseGetMissing(t *testing.T) {
	repo := NewKnowledgeBaseRepository(newTestDB(t))

	got, err := repo.Get("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKnowledgeBaseDelete(t *testing.T) {
	repo := NewKnowledgeBaseRepository(newTestDB(t))
	kb := createKB(t, repo, "to-delete")

	require.NoError(t, repo.Delete(kb.ID))

	got, err := repo.Get(kb.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(kb.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKnowledgeBaseDeleteCascadesDocuments(t *testing.T) {
	db := newTestDB(t)
	kbRepo := NewKnowledgeBaseRepository(db)
	docRepo := NewDocumentRepository(db)
	kb := createKB(t, kbRepo, "cascade")

	doc := &domain.Document{
		KnowledgeBaseID: kb.ID,
		Filename:        "a.txt",
		S3Key:           "documents/a",
		FileType:        "text/plain",
		FileSize:        3,
		Status:          domain.DocumentStatusUploaded,
	}
	require.NoError(t, docRepo.Create(doc))

	require.NoError(t, kbRepo.Delete(kb.ID))

	count, err := docRepo.CountByKnowledgeBase(kb.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocumentLifecycle(t *testing.T) {
	db := newTestDB(t)
	kbRepo := NewKnowledgeBaseRepository(db)
	docRepo := NewDocumentRepository(db)
	kb := createKB(t, kbRepo, "docs")

	for _, name := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		doc := &domain.Document{
			KnowledgeBaseID: kb.ID,
			Filename:        name,
			S3Key:           "documents/" + name,
			FileType:        "application/pdf",
			FileSize:        10,
			Status:          domain.DocumentStatusUploaded,
		}
		require.NoError(t, docRepo.Create(doc))
	}

	docs, err := docRepo.ListByKnowledgeBase(kb.ID)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for _, doc := range docs {
		assert.Equal(t, domain.DocumentStatusUploaded, doc.Status)
	}

	count, err := docRepo.CountByKnowledgeBase(kb.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, docRepo.MarkSyncing(kb.ID))
	docs, err = docRepo.ListByKnowledgeBase(kb.ID)
	require.NoError(t, err)
	for _, doc := range docs {
		assert.Equal(t, domain.DocumentStatusSyncing, doc.Status)
	}

	require.NoError(t, docRepo.Delete(docs[0].ID))
	count, err = docRepo.CountByKnowledgeBase(kb.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.ErrorIs(t, docRepo.Delete(docs[0].ID), domain.ErrNotFound)
}

func TestDocumentGetMissing(t *testing.T) {
	docRepo := NewDocumentRepository(newTestDB(t))

	got, err := docRepo.Get("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}
