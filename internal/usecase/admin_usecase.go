package usecase

import (
	"context"
	"encoding/json"
	stderrors "errors"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/domain"
	"github.com/hkgcity/directory/internal/pkg/errors"
	"github.com/hkgcity/directory/internal/pkg/validator"
)

// AdminUseCase - CRUD контента для админки. Записи проверяются по типу
// коллекции до попадания в хранилище.
type AdminUseCase struct {
	gateway *Gateway
	catalog *Catalog
	logger  *zap.Logger
}

func NewAdminUseCase(gateway *Gateway, catalog *Catalog, logger *zap.Logger) *AdminUseCase {
	return &AdminUseCase{
		gateway: gateway,
		catalog: catalog,
		logger:  logger,
	}
}

func contentCollection(name string) (domain.Collection, error) {
	c := domain.Collection(name)
	if !c.IsContent() {
		return "", errors.ErrInvalidCollection
	}
	return c, nil
}

// List returns raw records, inactive ones included.
func (uc *AdminUseCase) List(ctx context.Context, collection string) ([]map[string]any, error) {
	c, err := contentCollection(collection)
	if err != nil {
		return nil, err
	}

	docs := uc.gateway.FetchAll(ctx, c)
	result := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		body, err := documentBody(doc)
		if err != nil {
			uc.logger.Warn("Skipping undecodable document", zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		result = append(result, body)
	}
	return result, nil
}

// Create validates and stores a record; a missing id gets a UUID.
func (uc *AdminUseCase) Create(ctx context.Context, collection string, body map[string]any) (map[string]any, error) {
	c, err := contentCollection(collection)
	if err != nil {
		return nil, err
	}

	if id, _ := body["id"].(string); id == "" {
		body["id"] = uuid.NewString()
	}

	if err := validateRecord(c, body); err != nil {
		return nil, err
	}

	id, ok := uc.gateway.Create(ctx, c, body)
	if !ok {
		return nil, errors.ErrDatabaseError
	}

	uc.logger.Info("Document created", zap.String("collection", collection), zap.String("id", id))
	uc.refresh(ctx, c)

	return uc.get(ctx, c, id)
}

// Update merges patch into the stored record; the merged result must stay valid.
func (uc *AdminUseCase) Update(ctx context.Context, collection, id string, patch map[string]any) (map[string]any, error) {
	c, err := contentCollection(collection)
	if err != nil {
		return nil, err
	}

	current, err := uc.get(ctx, c, id)
	if err != nil {
		return nil, err
	}

	for k, v := range patch {
		current[k] = v
	}
	current["id"] = id

	if err := validateRecord(c, current); err != nil {
		return nil, err
	}

	if !uc.gateway.Update(ctx, c, id, patch) {
		return nil, errors.ErrDatabaseError
	}

	uc.logger.Info("Document updated", zap.String("collection", collection), zap.String("id", id))
	uc.refresh(ctx, c)

	return uc.get(ctx, c, id)
}

func (uc *AdminUseCase) Delete(ctx context.Context, collection, id string) error {
	c, err := contentCollection(collection)
	if err != nil {
		return err
	}

	if uc.gateway.Get(ctx, c, id) == nil {
		return errors.ErrDocumentNotFound
	}
	if !uc.gateway.Delete(ctx, c, id) {
		return errors.ErrDatabaseError
	}

	uc.logger.Info("Document deleted", zap.String("collection", collection), zap.String("id", id))
	uc.refresh(ctx, c)
	return nil
}

func (uc *AdminUseCase) get(ctx context.Context, c domain.Collection, id string) (map[string]any, error) {
	doc := uc.gateway.Get(ctx, c, id)
	if doc == nil {
		return nil, errors.ErrDocumentNotFound
	}

	body, err := documentBody(*doc)
	if err != nil {
		uc.logger.Error("Failed to decode document", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	return body, nil
}

// refresh rebuilds the catalog snapshot after writes to its collections.
func (uc *AdminUseCase) refresh(ctx context.Context, c domain.Collection) {
	if c == domain.CollectionCategories || c == domain.CollectionListings {
		uc.catalog.Refresh(ctx)
	}
}

func documentBody(doc domain.Document) (map[string]any, error) {
	body := make(map[string]any)
	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return nil, err
	}
	body["id"] = doc.ID
	return body, nil
}

// validateRecord decodes body into the collection's type and runs struct validation.
func validateRecord(c domain.Collection, body map[string]any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.ErrInvalidRequest
	}

	var record any
	switch c {
	case domain.CollectionCategories:
		record = &domain.Category{}
	case domain.CollectionListings:
		record = &domain.Listing{}
	case domain.CollectionAnnouncements:
		record = &domain.Announcement{}
	case domain.CollectionBanners:
		record = &domain.Banner{}
	default:
		return errors.ErrInvalidCollection
	}

	if err := json.Unmarshal(data, record); err != nil {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"decode": err.Error()})
	}

	if err := validator.Validate(record); err != nil {
		var fieldErrs govalidator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return errors.ErrInvalidRequest
		}

		fields := make(map[string]interface{}, len(fieldErrs))
		localized := false
		for _, fe := range fieldErrs {
			fields[fe.Namespace()] = fe.Tag()
			if fe.Tag() == "localized" {
				localized = true
			}
		}
		if localized {
			return errors.ErrInvalidLocalizedText.WithDetails(fields)
		}
		return errors.ErrInvalidRequest.WithDetails(fields)
	}

	return nil
}
