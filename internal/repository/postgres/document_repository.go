package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/domain/repository"
)

const documentColumns = `id, collection, data, created_at, updated_at`

type documentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewDocumentRepository создает репозиторий документов поверх таблицы documents
func NewDocumentRepository(db *DB) repository.DocumentRepository {
	return &documentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// documentRow - строка таблицы; jsonb сканируется в []byte
type documentRow struct {
	ID         string    `db:"id"`
	Collection string    `db:"collection"`
	Data       []byte    `db:"data"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r documentRow) toDomain() domain.Document {
	return domain.Document{
		ID:         r.ID,
		Collection: domain.Collection(r.Collection),
		Data:       json.RawMessage(r.Data),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toDocuments(rows []documentRow) []domain.Document {
	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDomain())
	}
	return docs
}

// orderClause строит ORDER BY по полю JSON-тела. Имя поля передаётся параметром $n.
func orderClause(order domain.OrderBy, param int) string {
	if order.Field == "" {
		return "ORDER BY id"
	}

	expr := fmt.Sprintf("data->>($%d::text)", param)
	if order.Numeric {
		expr = fmt.Sprintf("(%s)::numeric", expr)
	}

	direction := "ASC NULLS LAST"
	if order.Desc {
		direction = "DESC NULLS LAST"
	}

	return fmt.Sprintf("ORDER BY %s %s, id", expr, direction)
}

func (r *documentRepository) FetchAll(
	ctx context.Context,
	collection domain.Collection,
	order domain.OrderBy,
) ([]domain.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		WHERE collection = $1
		%s
	`, documentColumns, orderClause(order, 2))

	args := []any{string(collection)}
	if order.Field != "" {
		args = append(args, order.Field)
	}

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to fetch documents",
			zap.String("collection", string(collection)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}

	return toDocuments(rows), nil
}

func (r *documentRepository) QueryWhere(
	ctx context.Context,
	collection domain.Collection,
	field string,
	value any,
	order domain.OrderBy,
) ([]domain.Document, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s value: %w", field, err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		WHERE collection = $1 AND data->($2::text) = $3::jsonb
		%s
	`, documentColumns, orderClause(order, 4))

	args := []any{string(collection), field, string(encoded)}
	if order.Field != "" {
		args = append(args, order.Field)
	}

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to query documents",
			zap.String("collection", string(collection)),
			zap.String("field", field),
			zap.Error(err),
		)
		return nil, fmt.Errorf("query %s by %s: %w", collection, field, err)
	}

	return toDocuments(rows), nil
}

func (r *documentRepository) Get(
	ctx context.Context,
	collection domain.Collection,
	id string,
) (*domain.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		WHERE collection = $1 AND id = $2
	`, documentColumns)

	var row documentRow
	err := r.db.GetContext(ctx, &row, query, string(collection), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc := row.toDomain()
	return &doc, nil
}

func (r *documentRepository) GetMany(
	ctx context.Context,
	collection domain.Collection,
	ids []string,
) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM documents
		WHERE collection = $1 AND id = ANY($2)
		ORDER BY id
	`, documentColumns)

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, string(collection), pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get many %s: %w", collection, err)
	}

	return toDocuments(rows), nil
}

func (r *documentRepository) Insert(
	ctx context.Context,
	collection domain.Collection,
	id string,
	data json.RawMessage,
) (bool, error) {
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query, string(collection), id, string(data))
	if err != nil {
		return false, fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}

	return affected == 1, nil
}

func (r *documentRepository) Upsert(
	ctx context.Context,
	collection domain.Collection,
	id string,
	data json.RawMessage,
) error {
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, string(collection), id, string(data)); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *documentRepository) Patch(
	ctx context.Context,
	collection domain.Collection,
	id string,
	patch json.RawMessage,
) error {
	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, string(collection), id, string(patch))
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}

	return requireAffected(res)
}

func (r *documentRepository) Delete(
	ctx context.Context,
	collection domain.Collection,
	id string,
) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		string(collection), id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	return requireAffected(res)
}

// Increment читает тело под блокировкой строки и записывает его обратно в той же транзакции
func (r *documentRepository) Increment(
	ctx context.Context,
	collection domain.Collection,
	id string,
	deltas []domain.FieldDelta,
) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin increment %s/%s: %w", collection, id, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var raw []byte
	err = tx.GetContext(ctx, &raw,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		string(collection), id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("lock %s/%s: %w", collection, id, err)
	}

	body := map[string]any{}
	if err = json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}

	for _, d := range deltas {
		if err = addAtPath(body, d.Path, d.By); err != nil {
			return fmt.Errorf("increment %s/%s: %w", collection, id, err)
		}
	}

	updated, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = $3::jsonb, updated_at = NOW() WHERE collection = $1 AND id = $2`,
		string(collection), id, string(updated),
	)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit increment %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *documentRepository) Count(ctx context.Context, collection domain.Collection) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM documents WHERE collection = $1`,
		string(collection),
	)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return count, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// addAtPath прибавляет by к числу по пути, создавая промежуточные объекты
func addAtPath(body map[string]any, path []string, by int64) error {
	if len(path) == 0 {
		return errors.New("empty field path")
	}

	node := body
	for _, key := range path[:len(path)-1] {
		next, ok := node[key].(map[string]any)
		if !ok {
			if node[key] != nil {
				return fmt.Errorf("field %q is not an object", key)
			}
			next = map[string]any{}
			node[key] = next
		}
		node = next
	}

	leaf := path[len(path)-1]
	var current int64
	switch v := node[leaf].(type) {
	case nil:
	case float64:
		current = int64(v)
	default:
		return fmt.Errorf("field %q is not a number", leaf)
	}

	node[leaf] = current + by
	return nil
}
