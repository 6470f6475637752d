package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func languageFor(t *testing.T, target string, header string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got string
	r := gin.New()
	r.Use(Locale("en"))
	r.GET("/x", func(c *gin.Context) {
		got = GetLanguage(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Accept-Language", header)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestLocaleQueryParamWins(t *testing.T) {
	if got := languageFor(t, "/x?lang=zh", "fr-FR,fr;q=0.9"); got != "zh" {
		t.Errorf("language = %q, want zh", got)
	}
}

func TestLocaleAcceptLanguageFallback(t *testing.T) {
	if got := languageFor(t, "/x", "fr-FR,fr;q=0.9,en;q=0.8"); got != "fr" {
		t.Errorf("language = %q, want fr (base tag of first entry)", got)
	}
}

func TestLocaleDefault(t *testing.T) {
	if got := languageFor(t, "/x", ""); got != "en" {
		t.Errorf("language = %q, want configured default en", got)
	}
}

func TestLocaleLowercases(t *testing.T) {
	if got := languageFor(t, "/x?lang=ZH", ""); got != "zh" {
		t.Errorf("language = %q, want lowercased zh", got)
	}
}
