package i18n

import "testing"

func TestTranslatorFallback(t *testing.T) {
	cat := Default()
	cat["de"] = map[string]string{KeySend: "Senden"}

	tests := []struct {
		lang string
		key  string
		want string
	}{
		{"en", KeySend, "Send"},
		{"fr", KeySend, "Envoyer"},
		{"fr-CA", KeySend, "Envoyer"},
		{"FR", KeyTitle, "Discussion"},
		{"fr", KeyEmoji, "Emoji"},
		{"de", KeyTitle, "Chat"},
		{"xx", KeyPlaceholder, "Type a message..."},
		{"en", "unknown.key", "unknown.key"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			if got := cat.Translator(tt.lang)(tt.key); got != tt.want {
				t.Errorf("t(%q) in %q = %q, want %q", tt.key, tt.lang, got, tt.want)
			}
		})
	}
}

func TestEmptyCatalogReturnsKey(t *testing.T) {
	if got := (Catalog{}).Translator("en")(KeySend); got != KeySend {
		t.Fatalf("got %q", got)
	}
}
