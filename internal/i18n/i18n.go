// Package i18n maps widget string keys to display text.
package i18n

import "strings"

// Translator resolves a key to a display string.
type Translator func(key string) string

// Keys used by the widget.
const (
	KeyTitle         = "chat.title"
	KeyPlaceholder   = "chat.placeholder"
	KeySend          = "chat.send"
	KeySending       = "chat.sending"
	KeyEmpty         = "chat.empty"
	KeyTooltip       = "chat.tooltip"
	KeySendFailed    = "chat.send_failed"
	KeyHistoryFailed = "chat.history_failed"
	KeyEmoji         = "chat.emoji"
	KeyClose         = "chat.close"
)

// Catalog holds strings per language tag.
type Catalog map[string]map[string]string

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		"en": {
			KeyTitle:         "Chat",
			KeyPlaceholder:   "Type a message...",
			KeySend:          "Send",
			KeySending:       "Sending",
			KeyEmpty:         "No messages yet",
			KeyTooltip:       "Click to chat, drag to move",
			KeySendFailed:    "Message not sent",
			KeyHistoryFailed: "Could not load history",
			KeyEmoji:         "Emoji",
			KeyClose:         "Close",
		},
		"fr": {
			KeyTitle:       "Discussion",
			KeyPlaceholder: "Écrivez un message...",
			KeySend:        "Envoyer",
			KeyEmpty:       "Aucun message",
			KeyTooltip:     "Cliquez pour discuter, glissez pour déplacer",
			KeySendFailed:  "Message non envoyé",
		},
	}
}

// Translator returns a lookup for lang. Missing keys fall back to English
// and then to the key itself. Region subtags ("fr-CA") fall back to the
// base language.
func (c Catalog) Translator(lang string) Translator {
	lang = strings.ToLower(strings.TrimSpace(lang))
	chain := []map[string]string{}
	if m, ok := c[lang]; ok {
		chain = append(chain, m)
	}
	if base, _, found := strings.Cut(lang, "-"); found {
		if m, ok := c[base]; ok {
			chain = append(chain, m)
		}
	}
	if m, ok := c["en"]; ok && lang != "en" {
		chain = append(chain, m)
	}
	return func(key string) string {
		for _, m := range chain {
			if s, ok := m[key]; ok {
				return s
			}
		}
		return key
	}
}

// Languages lists the tags present in the catalog.
func (c Catalog) Languages() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}
