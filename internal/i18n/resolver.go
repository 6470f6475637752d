package i18n

import (
	"encoding/json"
	"sort"
	"strings"
)

// DefaultLanguage is the fallback language for multilingual content.
const DefaultLanguage = "en"

// Resolve extracts a single display value from a multilingual content field.
//
// The field may be a plain string, a JSON-encoded per-language map, or a
// native map[string]string / map[string]interface{}. Resolution order:
// requested language, then "en", then the first value by sorted key.
// Resolve never fails: malformed JSON is returned verbatim and nil input
// yields an empty string, so a bad translation can degrade a label but
// never a page.
func Resolve(value interface{}, lang string) string {
	if lang == "" {
		lang = DefaultLanguage
	}

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if !strings.HasPrefix(strings.TrimSpace(v), "{") {
			return v
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			// Not a language map after all. Return the raw string.
			return v
		}
		return pick(m, lang)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
		return pick(m, lang)
	case map[string]interface{}:
		return pick(v, lang)
	default:
		return ""
	}
}

// ResolveMap resolves a native per-language map, the common case for
// entity fields decoded from storage.
func ResolveMap(m map[string]string, lang string) string {
	if m == nil {
		return ""
	}
	return Resolve(m, lang)
}

func pick(m map[string]interface{}, lang string) string {
	if len(m) == 0 {
		return ""
	}
	if v, ok := m[lang]; ok {
		return asString(v)
	}
	if v, ok := m[DefaultLanguage]; ok {
		return asString(v)
	}

	// No requested language and no English: fall back to the first value.
	// Map iteration order is random in Go, so pick the smallest key to
	// keep the fallback deterministic.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return asString(m[keys[0]])
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	// Nested objects or numbers are not valid translations; render them
	// as JSON rather than dropping the content entirely.
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
