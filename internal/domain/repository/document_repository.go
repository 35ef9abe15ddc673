package repository

import (
	"context"
	"encoding/json"

	"github.com/hkgcity/directory/internal/domain"
)

// DocumentRepository определяет методы документного хранилища с коллекциями
type DocumentRepository interface {
	// FetchAll возвращает все документы коллекции в заданном порядке
	FetchAll(ctx context.Context, collection domain.Collection, order domain.OrderBy) ([]domain.Document, error)

	// QueryWhere возвращает документы, у которых поле JSON-тела равно value
	QueryWhere(ctx context.Context, collection domain.Collection, field string, value any, order domain.OrderBy) ([]domain.Document, error)

	// Get возвращает документ по ID или domain.ErrDocumentNotFound
	Get(ctx context.Context, collection domain.Collection, id string) (*domain.Document, error)

	// GetMany возвращает документы по списку ID (отсутствующие пропускаются)
	GetMany(ctx context.Context, collection domain.Collection, ids []string) ([]domain.Document, error)

	// Insert создаёт документ, если его ещё нет. Возвращает false, если ID занят.
	Insert(ctx context.Context, collection domain.Collection, id string, data json.RawMessage) (bool, error)

	// Upsert создаёт или полностью перезаписывает документ
	Upsert(ctx context.Context, collection domain.Collection, id string, data json.RawMessage) error

	// Patch сливает patch с телом документа (last write wins)
	Patch(ctx context.Context, collection domain.Collection, id string, patch json.RawMessage) error

	// Delete удаляет документ
	Delete(ctx context.Context, collection domain.Collection, id string) error

	// Increment атомарно увеличивает числовые поля. Отсутствующие поля считаются нулём.
	Increment(ctx context.Context, collection domain.Collection, id string, deltas []domain.FieldDelta) error

	// Count возвращает количество документов коллекции
	Count(ctx context.Context, collection domain.Collection) (int, error)
}
