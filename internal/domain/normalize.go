package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizedForm is the output of NormalizeArabic.
type NormalizedForm struct {
	// CanonicalSurface is the display form: ligatures decomposed, letter
	// variants unified, tatweel removed, whitespace collapsed. Diacritics
	// are preserved.
	CanonicalSurface string
	// SearchKey is the lossy join key: CanonicalSurface with diacritics
	// stripped and hamza/teh-marbuta shapes collapsed. Used for bucketing
	// and prefix search.
	SearchKey string
}

const tatweel = 'ـ'

// isArabicDiacritic reports whether r is a vowel mark, shadda, or other
// Arabic combining mark.
func isArabicDiacritic(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r == 0x0670:
		return true
	case r >= 0x06D6 && r <= 0x06ED:
		return true
	case r >= 0x08D3 && r <= 0x08FF:
		return true
	}
	return false
}

// unifyLetter collapses letter-shape variants that are interchangeable in
// casual writing. Applied to both outputs.
func unifyLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ', 'ٱ':
		return 'ا'
	case 'ى':
		return 'ي'
	}
	return r
}

// unifySearchLetter applies the additional lossy collapses used for the
// search key only.
func unifySearchLetter(r rune) rune {
	switch r {
	case 'ئ':
		return 'ي'
	case 'ؤ':
		return 'و'
	}
	return r
}

// NormalizeArabic maps raw Arabic text to its canonical surface form and
// its search key. Total and pure: every string, including the empty one,
// has a normalized form. Idempotent on its own canonical output.
func NormalizeArabic(raw string) NormalizedForm {
	// NFKC decomposes presentation-form ligatures (lam-alef and friends)
	// to their base letter sequences.
	s := norm.NFKC.String(strings.TrimSpace(raw))

	var canonical strings.Builder
	canonical.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == tatweel {
			continue
		}
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			canonical.WriteRune(' ')
			continue
		}
		prevSpace = false
		canonical.WriteRune(unifyLetter(r))
	}
	cs := strings.TrimSpace(canonical.String())

	return NormalizedForm{
		CanonicalSurface: cs,
		SearchKey:        searchKeyOf(cs),
	}
}

// searchKeyOf derives the search key from a canonical surface.
func searchKeyOf(cs string) string {
	runes := []rune(cs)
	var key strings.Builder
	key.Grow(len(cs))
	for i, r := range runes {
		if isArabicDiacritic(r) {
			continue
		}
		// Word-final teh marbuta collapses toward heh in the key only.
		if r == 'ة' && isWordFinal(runes, i) {
			key.WriteRune('ه')
			continue
		}
		key.WriteRune(unifySearchLetter(r))
	}
	return strings.TrimSpace(key.String())
}

// isWordFinal reports whether position i is the last letter of its word,
// skipping any trailing diacritics.
func isWordFinal(runes []rune, i int) bool {
	for j := i + 1; j < len(runes); j++ {
		if isArabicDiacritic(runes[j]) {
			continue
		}
		return runes[j] == ' '
	}
	return true
}

// ContainsArabicLetter reports whether s has at least one Arabic letter
// (marks and tatweel do not count). Used to distinguish a legitimately
// empty search key from a malformed record.
func ContainsArabicLetter(s string) bool {
	for _, r := range s {
		if r == tatweel || isArabicDiacritic(r) {
			continue
		}
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
