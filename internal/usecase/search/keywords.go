package search

import "strings"

// KeywordSet is the tokenized view of one query: color tokens, object
// tokens, and the full token list. Recomputed per request, never stored.
type KeywordSet struct {
	Colors  []string
	Objects []string
	All     []string
}

// HasColors reports whether the query named at least one color.
func (k KeywordSet) HasColors() bool { return len(k.Colors) > 0 }

// HasObjects reports whether the query named at least one object token.
func (k KeywordSet) HasObjects() bool { return len(k.Objects) > 0 }

// colorVocabulary holds base colors plus an extended shade list. Entries
// are matched per token, so "light blue" yields the object "light" and
// the color "blue"; multi-word phrases are not recognized as a unit.
var colorVocabulary = map[string]struct{}{
	// base
	"red": {}, "blue": {}, "green": {}, "yellow": {}, "orange": {},
	"purple": {}, "pink": {}, "black": {}, "white": {}, "gray": {},
	"grey": {}, "brown": {}, "beige": {}, "gold": {}, "silver": {},
	// shades
	"navy": {}, "teal": {}, "cyan": {}, "magenta": {}, "turquoise": {},
	"maroon": {}, "violet": {}, "indigo": {}, "lavender": {}, "lilac": {},
	"crimson": {}, "scarlet": {}, "burgundy": {}, "khaki": {}, "olive": {},
	"coral": {}, "salmon": {}, "peach": {}, "mint": {}, "ivory": {},
	"cream": {}, "tan": {}, "charcoal": {}, "amber": {}, "emerald": {},
	"ruby": {}, "sapphire": {}, "mustard": {}, "rust": {}, "copper": {},
	"bronze": {}, "fuchsia": {}, "mauve": {}, "ochre": {},
	// spanish
	"rojo": {}, "azul": {}, "verde": {}, "amarillo": {}, "negro": {},
	"blanco": {}, "rosa": {}, "gris": {}, "morado": {}, "naranja": {},
	// french
	"rouge": {}, "bleu": {}, "vert": {}, "jaune": {}, "noir": {},
	"blanc": {}, "rose": {}, "violette": {},
	// german
	"rot": {}, "blau": {}, "gelb": {}, "schwarz": {}, "weiss": {},
	// russian
	"красный": {}, "синий": {}, "зеленый": {}, "желтый": {},
	"черный": {}, "белый": {}, "розовый": {}, "серый": {},
	"оранжевый": {}, "фиолетовый": {}, "коричневый": {}, "голубой": {},
}

// ExtractKeywords classifies the query tokens. Tokens found in the color
// vocabulary become colors; every other token longer than two runes
// becomes an object. No stemming, no phrase detection.
func ExtractKeywords(query string) KeywordSet {
	tokens := strings.Fields(strings.ToLower(query))

	ks := KeywordSet{All: tokens}
	for _, tok := range tokens {
		if _, ok := colorVocabulary[tok]; ok {
			ks.Colors = append(ks.Colors, tok)
			continue
		}
		if len([]rune(tok)) > 2 {
			ks.Objects = append(ks.Objects, tok)
		}
	}
	return ks
}
