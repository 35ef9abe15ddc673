package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const facetQueryPrefix = "f."

// language returns ?language=, falling back to the first Accept-Language tag.
func language(c *fiber.Ctx) string {
	if lang := c.Query("language"); lang != "" {
		return lang
	}

	header := c.Get(fiber.HeaderAcceptLanguage)
	if header == "" {
		return ""
	}
	tag, _, _ := strings.Cut(header, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}

// facetParams collects f.<key>=<value> query parameters.
func facetParams(c *fiber.Ctx) map[string]string {
	facets := make(map[string]string)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if strings.HasPrefix(k, facetQueryPrefix) && len(value) > 0 {
			facets[strings.TrimPrefix(k, facetQueryPrefix)] = string(value)
		}
	})
	return facets
}
