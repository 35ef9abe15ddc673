package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain/repository"
	"github.com/hkgcity/directory/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewDocumentRepositoryForTest creates a document repository with test database and logger
func NewDocumentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.DocumentRepository {
	return postgres.NewDocumentRepository(NewDBForTest(db, logger))
}
