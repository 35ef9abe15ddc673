package errors

import "net/http"

var (
	ErrCategoryNotFound = New(
		"CATEGORY_NOT_FOUND",
		"Category not found",
		http.StatusNotFound,
	)

	ErrListingNotFound = New(
		"LISTING_NOT_FOUND",
		"Listing not found",
		http.StatusNotFound,
	)

	ErrDocumentNotFound = New(
		"DOCUMENT_NOT_FOUND",
		"Document not found",
		http.StatusNotFound,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Session not found",
		http.StatusNotFound,
	)

	ErrInvalidCollection = New(
		"INVALID_COLLECTION",
		"Collection is not editable",
		http.StatusBadRequest,
	)

	ErrInvalidLocalizedText = New(
		"INVALID_LOCALIZED_TEXT",
		"Localized text must contain an \"en\" entry and only supported locales",
		http.StatusBadRequest,
	)

	ErrInvalidRegion = New(
		"INVALID_REGION",
		"Unknown region or sub-region",
		http.StatusBadRequest,
	)

	ErrInvalidSortKey = New(
		"INVALID_SORT_KEY",
		"Unknown sort key",
		http.StatusBadRequest,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrInvalidCredentials = New(
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		http.StatusUnauthorized,
	)

	ErrForbidden = New(
		"FORBIDDEN",
		"Insufficient permissions",
		http.StatusForbidden,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
