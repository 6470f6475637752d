package model

import (
	"encoding/json"
	"testing"
)

func TestMultilingualUnmarshalObject(t *testing.T) {
	var m Multilingual
	if err := json.Unmarshal([]byte(`{"en":"Intro","zh":"介紹"}`), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["en"] != "Intro" || m["zh"] != "介紹" {
		t.Errorf("m = %v", m)
	}
}

func TestMultilingualUnmarshalBareString(t *testing.T) {
	var m Multilingual
	if err := json.Unmarshal([]byte(`"Intro"`), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["en"] != "Intro" || len(m) != 1 {
		t.Errorf("bare string decoded as %v, want English-only map", m)
	}
}

func TestMultilingualUnmarshalRejectsOther(t *testing.T) {
	var m Multilingual
	if err := json.Unmarshal([]byte(`42`), &m); err == nil {
		t.Error("Unmarshal accepted a number")
	}
}

func TestMultilingualResolve(t *testing.T) {
	m := Multilingual{"en": "Intro", "zh": "介紹"}
	if got := m.Resolve("zh"); got != "介紹" {
		t.Errorf("Resolve(zh) = %q", got)
	}
	if got := m.Resolve("fr"); got != "Intro" {
		t.Errorf("Resolve(fr) = %q, want English fallback", got)
	}
}
