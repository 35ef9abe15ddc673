package domain

// Locale - код языка интерфейса
type Locale string

const (
	LocaleEN   Locale = "en"
	LocaleZhHK Locale = "zh-HK"
	LocaleZhCN Locale = "zh-CN"
	LocaleJA   Locale = "ja"
	LocaleKO   Locale = "ko"
	LocaleFR   Locale = "fr"
	LocaleDE   Locale = "de"
	LocaleES   Locale = "es"
	LocalePT   Locale = "pt"
	LocaleTH   Locale = "th"

	// DefaultLocale используется как fallback при отсутствии перевода
	DefaultLocale = LocaleEN
)

// SupportedLocales - фиксированный набор поддерживаемых языков (порядок как в переключателе языка)
var SupportedLocales = []Locale{
	LocaleEN,
	LocaleZhHK,
	LocaleZhCN,
	LocaleJA,
	LocaleKO,
	LocaleFR,
	LocaleDE,
	LocaleES,
	LocalePT,
	LocaleTH,
}

// IsSupported проверяет, входит ли код в набор поддерживаемых языков
func (l Locale) IsSupported() bool {
	for _, s := range SupportedLocales {
		if s == l {
			return true
		}
	}
	return false
}

// ParseLocale приводит строку к Locale, неизвестные коды дают DefaultLocale
func ParseLocale(s string) Locale {
	l := Locale(s)
	if l.IsSupported() {
		return l
	}
	return DefaultLocale
}

// LocalizedText - перевод строки по кодам языков. Запись "en" обязательна.
type LocalizedText map[string]string

// Resolve возвращает перевод для locale или английский вариант
func (t LocalizedText) Resolve(locale Locale) string {
	if v, ok := t[string(locale)]; ok {
		return v
	}
	return t[string(DefaultLocale)]
}

// HasDefault проверяет наличие обязательной записи "en"
func (t LocalizedText) HasDefault() bool {
	_, ok := t[string(DefaultLocale)]
	return ok
}

// UnsupportedKeys возвращает ключи, не входящие в SupportedLocales
func (t LocalizedText) UnsupportedKeys() []string {
	var keys []string
	for k := range t {
		if !Locale(k).IsSupported() {
			keys = append(keys, k)
		}
	}
	return keys
}
