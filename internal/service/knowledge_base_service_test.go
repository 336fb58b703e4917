package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragops/kbconsole/internal/domain"
	"github.com/ragops/kbconsole/internal/repository"
)

func newKBService(t *testing.T) *KnowledgeBaseService {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKnowledgeBaseService(repository.NewKnowledgeBaseRepository(db))
}

func TestCreateAndGetKnowledgeBase(t *testing.T) {
	svc := newKBService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateKnowledgeBaseRequest{
		Name:         "support",
		Description:  "customer support docs",
		ResponseMode: domain.ResponseModeRetrieval,
		TopK:         7,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "support", got.Name)
	assert.Equal(t, "customer support docs", got.Description)
	assert.Equal(t, domain.ResponseModeRetrieval, got.ResponseMode)
	assert.Equal(t, 7, got.TopK)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestCreateKnowledgeBaseDefaults(t *testing.T) {
	svc := newKBService(t)

	kb, err := svc.Create(context.Background(), &domain.CreateKnowledgeBaseRequest{Name: "minimal"})
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseModeLLM, kb.ResponseMode)
	assert.Equal(t, defaultTopK, kb.TopK)
}

func TestCreateKnowledgeBaseValidation(t *testing.T) {
	svc := newKBService(t)

	cases := []struct {
		name string
		req  domain.CreateKnowledgeBaseRequest
	}{
		{name: "blank name", req: domain.CreateKnowledgeBaseRequest{Name: "  "}},
		{name: "unknown response mode", req: domain.CreateKnowledgeBaseRequest{Name: "x", ResponseMode: "Hybrid"}},
		{name: "negative topK", req: domain.CreateKnowledgeBaseRequest{Name: "x", TopK: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestGetKnowledgeBaseNotFound(t *testing.T) {
	svc := newKBService(t)

	_, err := svc.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteKnowledgeBase(t *testing.T) {
	svc := newKBService(t)
	ctx := context.Background()

	kb, err := svc.Create(ctx, &domain.CreateKnowledgeBaseRequest{Name: "doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, kb.ID))

	_, err = svc.Get(ctx, kb.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, kb.ID), domain.ErrNotFound)
}

func TestListKnowledgeBasesEmpty(t *testing.T) {
	svc := newKBService(t)

	kbs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, kbs)
	assert.Empty(t, kbs)
}
