package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/i18n"
)

// ContextKeyLanguage is the Gin context key for the negotiated language.
const ContextKeyLanguage = "language"

// Locale negotiates the content language for the request: explicit ?lang=
// query param first, then the first Accept-Language tag (base language
// only), then the configured default.
func Locale(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = i18n.DefaultLanguage
	}
	return func(c *gin.Context) {
		lang := strings.TrimSpace(c.Query("lang"))
		if lang == "" {
			lang = firstAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = defaultLang
		}
		c.Set(ContextKeyLanguage, strings.ToLower(lang))
		c.Next()
	}
}

// GetLanguage retrieves the language negotiated by Locale, defaulting
// to "en".
func GetLanguage(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyLanguage); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return i18n.DefaultLanguage
}

// firstAcceptLanguage pulls the base tag of the first entry, e.g.
// "zh-TW,zh;q=0.9,en;q=0.8" → "zh". Quality values beyond the first entry
// are an external concern; the resolver degrades gracefully anyway.
func firstAcceptLanguage(header string) string {
	if header == "" {
		return ""
	}
	first := header
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	if i := strings.IndexByte(first, '-'); i > 0 {
		first = first[:i]
	}
	return first
}
