package dto

// BrowseRequest - запрос листингов категории с фильтрами
type BrowseRequest struct {
	Slug      string            `validate:"required"`
	Language  string            `validate:"omitempty"`
	Region    string            `validate:"omitempty"`
	SubRegion string            `validate:"omitempty"`
	Sort      string            `validate:"omitempty"`
	Facets    map[string]string `validate:"omitempty"`
}

// SearchRequest - поиск по листингам и категориям
type SearchRequest struct {
	Query    string `json:"query" validate:"max=200"`
	Language string `json:"language"`
}

// PageViewRequest - регистрация просмотра страницы
type PageViewRequest struct {
	Page      string `json:"page" validate:"required,max=512"`
	Referrer  string `json:"referrer" validate:"max=512"`
	VisitorID string `json:"visitor_id" validate:"omitempty,max=128"`
}

// SetRegionRequest - выбор региона в сессии
type SetRegionRequest struct {
	Region string `json:"region"`
}

// SetSubRegionRequest - выбор района в сессии
type SetSubRegionRequest struct {
	SubRegion string `json:"sub_region"`
}

// SetFacetRequest - установка фасета; пустое значение удаляет фасет
type SetFacetRequest struct {
	Key   string `json:"key" validate:"required,max=64"`
	Value string `json:"value" validate:"max=128"`
}

// SetSortRequest - выбор сортировки в сессии
type SetSortRequest struct {
	SortKey string `json:"sort_key" validate:"required"`
}

// SessionSearchRequest - поиск с сохранением в состоянии сессии
type SessionSearchRequest struct {
	Query    string `json:"query" validate:"max=200"`
	Language string `json:"language"`
}

// LoginRequest - вход администратора (email или username)
type LoginRequest struct {
	Identity string `json:"identity" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// StatsRequest - статистика за последние Days дней
type StatsRequest struct {
	Days int `validate:"min=1,max=365"`
}
