package validator

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/hkgcity/directory/internal/domain"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("localized", validateLocalized)
	_ = validate.RegisterValidation("slug", validateSlug)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// validateLocalized - перевод обязан содержать "en" и только поддерживаемые языки
func validateLocalized(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}

	text, ok := field.Interface().(domain.LocalizedText)
	if !ok {
		m, ok := field.Interface().(map[string]string)
		if !ok {
			return false
		}
		text = domain.LocalizedText(m)
	}

	return text.HasDefault() && len(text.UnsupportedKeys()) == 0
}

// validateSlug - URL-safe идентификатор: строчные буквы, цифры и дефисы
func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}
