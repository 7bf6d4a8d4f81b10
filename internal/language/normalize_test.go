package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" EN_us ": "en-us",
		"zh-Hans": "zh-hans",
		"en--US":  "en-us",
		"fil":     "fil",
		"en_1!":   "",
		"":        "",
		" - _ ":   "",
	}
	for input, want := range cases {
		if got := NormalizeTag(input); got != want {
			t.Fatalf("NormalizeTag(%q): got %q want %q", input, got, want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" EN-us ":    "en",
		"zh":         "zh",
		"zh-Hant-TW": "zh",
		"und":        "und",
		"und-US":     "und",
		" ":          "",
		"not a tag":  "",
	}
	for input, want := range cases {
		if got := NormalizeCode(input); got != want {
			t.Fatalf("NormalizeCode(%q): got %q want %q", input, got, want)
		}
	}
}
