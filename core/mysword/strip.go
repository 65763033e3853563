// Package mysword normalizes MySword Bible annotation markup into plain
// display text. MySword is an Android Bible app whose verse text carries
// inline tags:
//   - <CM> - paragraph end marker
//   - <FI>...<Fi> - italicized (added) words
//   - <FR>...<Fr> - words of Jesus in red
//   - <FU>...<Fu> - underlined words
//   - <RF>...<Rf> - translators' notes
//   - <TS>...</TS> - title
//   - <Q>...</Q> - interlinear block
//   - <E>...</E> - English translation
//   - <X>...</X> - transliteration
//   - <WG#> <WH#> <WT#> <RX#> - Strong's/morphology/cross-reference markers
//   - <PF#> <PI#> - indentation markers
//
// The emphasis and note pairs close with a mixed-case variant of the opening
// tag (<FI>...<Fi>), so pair matching is case-insensitive for those four tags
// only. The TS/Q/E/X spans use conventional </TAG> closers and match
// case-sensitively. This asymmetry is a property of the dialect as found in
// real modules and is preserved deliberately.
package mysword

import (
	"regexp"
	"strings"
)

// The pipeline order matters: paired tags are resolved before the numeric
// and indent markers, and the safety net runs last so it only ever sees
// tags no earlier rule claimed.
var (
	reParaMarker = regexp.MustCompile(`<CM>`)

	reItalic    = regexp.MustCompile(`(?i)<FI>(.*?)<Fi>`)
	reRedLetter = regexp.MustCompile(`(?i)<FR>(.*?)<Fr>`)
	reUnderline = regexp.MustCompile(`(?i)<FU>(.*?)<Fu>`)
	reNote      = regexp.MustCompile(`(?i)<RF>(.*?)<Rf>`)

	reTitle       = regexp.MustCompile(`<TS>(.*?)</TS>`)
	reInterlinear = regexp.MustCompile(`<Q>(.*?)</Q>`)
	reTranslation = regexp.MustCompile(`<E>(.*?)</E>`)
	reTranslit    = regexp.MustCompile(`<X>(.*?)</X>`)

	reStrongGreek  = regexp.MustCompile(`<WG\d+>`)
	reStrongHebrew = regexp.MustCompile(`<WH\d+>`)
	reMorphology   = regexp.MustCompile(`<WT\d+>`)
	reCrossRef     = regexp.MustCompile(`<RX\d+>`)

	reFirstLineIndent = regexp.MustCompile(`<PF\d>`)
	reParaIndent      = regexp.MustCompile(`<PI\d>`)

	reAnyTag     = regexp.MustCompile(`<[^>]*>`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// StripTags removes all MySword annotation markup from verse text, keeping
// the displayable inner content of emphasis, title, interlinear, translation,
// and transliteration spans and dropping translators' notes entirely. It is
// total and idempotent; empty input yields empty output. The result is plain
// text and must still be XML-escaped before embedding in a document.
func StripTags(text string) string {
	if text == "" {
		return ""
	}

	text = reParaMarker.ReplaceAllString(text, "")

	text = reItalic.ReplaceAllString(text, "$1")
	text = reRedLetter.ReplaceAllString(text, "$1")
	text = reUnderline.ReplaceAllString(text, "$1")
	text = reNote.ReplaceAllString(text, "")

	text = reTitle.ReplaceAllString(text, "$1")
	text = reInterlinear.ReplaceAllString(text, "$1")
	text = reTranslation.ReplaceAllString(text, "$1")
	text = reTranslit.ReplaceAllString(text, "$1")

	text = reStrongGreek.ReplaceAllString(text, "")
	text = reStrongHebrew.ReplaceAllString(text, "")
	text = reMorphology.ReplaceAllString(text, "")
	text = reCrossRef.ReplaceAllString(text, "")

	text = reFirstLineIndent.ReplaceAllString(text, "")
	text = reParaIndent.ReplaceAllString(text, "")

	// Safety net: no residual markup may escape into output.
	text = reAnyTag.ReplaceAllString(text, "")

	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
