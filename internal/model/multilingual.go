package model

import (
	"encoding/json"

	"github.com/praxislabs/praxis-backend/internal/i18n"
)

// Multilingual is a content value carrying per-language variants,
// e.g. {"en": "Intro", "zh": "介紹"}. Content authored as a plain string
// decodes as an English-only map so single-language authoring keeps working.
type Multilingual map[string]string

// UnmarshalJSON accepts either a JSON object of language → text or a bare
// string.
func (m *Multilingual) UnmarshalJSON(data []byte) error {
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err == nil {
		*m = obj
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = Multilingual{i18n.DefaultLanguage: s}
	return nil
}

// Resolve returns the best display value for the requested language.
func (m Multilingual) Resolve(lang string) string {
	return i18n.ResolveMap(m, lang)
}
