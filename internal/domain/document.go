package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Collection - имя коллекции документного хранилища
type Collection string

const (
	CollectionCategories    Collection = "categories"
	CollectionListings      Collection = "listings"
	CollectionAnnouncements Collection = "announcements"
	CollectionBanners       Collection = "banners"
	CollectionStats         Collection = "stats"
)

// ContentCollections - коллекции, редактируемые через админку
var ContentCollections = []Collection{
	CollectionCategories,
	CollectionListings,
	CollectionAnnouncements,
	CollectionBanners,
}

// IsContent проверяет, редактируется ли коллекция через админку
func (c Collection) IsContent() bool {
	for _, cc := range ContentCollections {
		if cc == c {
			return true
		}
	}
	return false
}

// ErrDocumentNotFound возвращается хранилищем при промахе по ID
var ErrDocumentNotFound = errors.New("document not found")

// Document - запись коллекции: ID + произвольное JSON-тело
type Document struct {
	ID         string          `json:"id" db:"id"`
	Collection Collection      `json:"collection" db:"collection"`
	Data       json.RawMessage `json:"data" db:"data"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// OrderBy - сортировка выборки по полю JSON-тела
type OrderBy struct {
	Field   string
	Desc    bool
	Numeric bool
}

// DefaultOrder возвращает порядок выборки коллекции, как его задаёт админка
func DefaultOrder(c Collection) OrderBy {
	switch c {
	case CollectionBanners:
		return OrderBy{Field: "position"}
	case CollectionAnnouncements:
		return OrderBy{Field: "start_date", Desc: true}
	case CollectionStats:
		return OrderBy{Field: "date", Desc: true}
	default:
		return OrderBy{Field: "sort_order", Numeric: true}
	}
}

// FieldDelta - приращение числового поля по пути внутри JSON-тела
type FieldDelta struct {
	Path []string
	By   int64
}
