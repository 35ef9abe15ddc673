// Package docs HK City Directory API.
//
// Каталог организаций и сервисов Гонконга: категории, листинги,
// фильтры по регионам и фасетам, многоязычный поиск и статистика посещений.
//
// Основные возможности:
// - Категории и листинги на десяти языках с откатом на английский
// - Фильтрация по региону, подрайону и фасетам, сортировка
// - Сессии с сохраняемым состоянием фильтров и поиска
// - Учёт кликов через Redis Stream
// - Админка для управления контентом
//
//	Schemes: http, https
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- BearerAuth:
//
//	SecurityDefinitions:
//	BearerAuth:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
