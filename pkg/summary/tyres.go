package summary

import "strings"

const UnknownTyreEmoji = "❔"

var tyreEmojis = map[string]string{
	"SOFT":         "🔴",
	"MEDIUM":       "🟡",
	"HARD":         "⚪",
	"INTERMEDIATE": "🟢",
	"WET":          "🔵",
}

// TyreEmoji returns the colored dot of a compound, ignoring case.
func TyreEmoji(compound string) string {
	if e, ok := tyreEmojis[strings.ToUpper(compound)]; ok {
		return e
	}
	return UnknownTyreEmoji
}
