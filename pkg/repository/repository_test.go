package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/repository/firestore"
	"github.com/secmon-lab/taskhub/pkg/repository/memory"
	"github.com/secmon-lab/taskhub/pkg/repository/postgres"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemory(t *testing.T) interfaces.Repository {
	return memory.New()
}

func firestoreFactory(t *testing.T) repoFactory {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	return func(t *testing.T) interfaces.Repository {
		prefix := "test_" + uuid.NewString()[:8] + "_"
		repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
		gt.NoError(t, err).Required()
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	}
}

func postgresFactory(t *testing.T) repoFactory {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	return func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		repo, err := postgres.New(ctx, dsn)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.EnsureSchema(ctx)).Required()
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	}
}
