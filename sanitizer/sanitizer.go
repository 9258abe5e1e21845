// FILE: lixenwraith/daylog/sanitizer/sanitizer.go
// Package sanitizer rewrites the characters of a string that could break a single-line
// log record, using rules made of a filter mask and a transform.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // unicode.IsControl
	FilterLineBreak                       // '\n', '\r', U+0085, U+2028, U+2029
)

// Transform applied to a matched rune
const (
	TransformStrip     uint64 = 1 << iota // Drop the rune
	TransformHexEncode                    // "<xxyy>" of the UTF-8 bytes
	TransformEscape                       // Go-style escape such as \n or \x1b
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw    PolicyPreset = "raw"    // Passthrough
	PolicyTxt    PolicyPreset = "txt"    // Escape anything non-printable, keeping a record on one line
	PolicyStrict PolicyPreset = "strict" // Hex-encode non-printables so no byte is lost or reinterpreted
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:    {},
	PolicyTxt:    {{filter: FilterNonPrintable | FilterLineBreak, transform: TransformEscape}},
	PolicyStrict: {{filter: FilterNonPrintable, transform: TransformHexEncode}},
}

// Sanitizer applies its rules in order; the first matching rule transforms a rune.
// A Sanitizer reuses an internal buffer and is not safe for concurrent use.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a passthrough Sanitizer
func New() *Sanitizer {
	return &Sanitizer{buf: make([]byte, 0, 256)}
}

// Rule appends a custom rule
func (s *Sanitizer) Rule(filter, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset; unknown presets are ignored
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize returns data with every matched rune transformed
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}

	s.buf = s.buf[:0]
	clean := true
	for _, r := range data {
		transform, ok := s.match(r)
		if !ok {
			s.buf = utf8.AppendRune(s.buf, r)
			continue
		}
		clean = false
		s.buf = appendTransformed(s.buf, r, transform)
	}

	if clean {
		return data
	}
	return string(s.buf)
}

func (s *Sanitizer) match(r rune) (uint64, bool) {
	for _, rl := range s.rules {
		if matches(r, rl.filter) {
			return rl.transform, true
		}
	}
	return 0, false
}

func matches(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterLineBreak != 0 {
		switch r {
		case '\n', '\r', '\u0085', '\u2028', '\u2029':
			return true
		}
	}
	return false
}

func appendTransformed(buf []byte, r rune, transform uint64) []byte {
	switch {
	case transform&TransformStrip != 0:
		return buf

	case transform&TransformHexEncode != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(runeBytes[:n])...)
		return append(buf, '>')

	case transform&TransformEscape != 0:
		quoted := strconv.QuoteRuneToASCII(r)
		// Drop the surrounding single quotes; a literal quote comes back as \'
		quoted = quoted[1 : len(quoted)-1]
		if quoted == `\'` {
			quoted = "'"
		}
		return append(buf, quoted...)

	default:
		return utf8.AppendRune(buf, r)
	}
}
