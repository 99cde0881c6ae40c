// Package sanitizer rewrites characters in log text according to ordered
// filter/transform rules, so that records cannot inject terminal control
// sequences or break the framing of the output format.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // unicode.IsControl
	FilterWhitespace                      // unicode.IsSpace
	FilterNewline                         // '\n' and '\r' only
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Removes the character
	TransformHexEncode                     // "<XXYY>" of the UTF-8 bytes
	TransformJSONEscape                    // '\n', '\u0000' style escapes
	TransformSpace                         // Replaces the character with a single space
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw      PolicyPreset = "raw"      // Passthrough
	PolicyJSON     PolicyPreset = "json"     // Escape control characters for JSON strings
	PolicyTxt      PolicyPreset = "txt"      // Hex encode anything unprintable
	PolicyOneLine  PolicyPreset = "oneline"  // Fold line breaks to spaces, hex encode the rest
	PolicyTerminal PolicyPreset = "terminal" // Strip control characters for console output
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:      {},
	PolicyTxt:      {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyJSON:     {{filter: FilterControl, transform: TransformJSONEscape}},
	PolicyOneLine:  {{filter: FilterNewline, transform: TransformSpace}, {filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyTerminal: {{filter: FilterControl, transform: TransformStrip}},
}

// filterCheckers is ordered so rule evaluation is deterministic
var filterCheckers = []struct {
	flag  uint64
	check func(rune) bool
}{
	{FilterNonPrintable, func(r rune) bool { return !strconv.IsPrint(r) }},
	{FilterControl, unicode.IsControl},
	{FilterWhitespace, unicode.IsSpace},
	{FilterNewline, func(r rune) bool { return r == '\n' || r == '\r' }},
}

// Sanitizer applies rules in insertion order; the first matching rule wins.
// A Sanitizer reuses an internal buffer and is not safe for concurrent use.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a passthrough sanitizer
func New() *Sanitizer {
	return &Sanitizer{
		buf: make([]byte, 0, 256),
	}
}

// ForPolicy creates a sanitizer with a single preset applied
func ForPolicy(preset PolicyPreset) *Sanitizer {
	return New().Policy(preset)
}

// Rule appends a custom rule
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// IsPassthrough reports whether no rule is configured
func (s *Sanitizer) IsPassthrough() bool {
	return len(s.rules) == 0
}

// Clone returns an independent copy sharing no buffer
func (s *Sanitizer) Clone() *Sanitizer {
	rules := make([]rule, len(s.rules))
	copy(rules, s.rules)
	return &Sanitizer{rules: rules, buf: make([]byte, 0, 256)}
}

// Sanitize applies all configured rules to data
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}
	s.buf = s.AppendSanitized(s.buf[:0], data)
	return string(s.buf)
}

// AppendSanitized appends the sanitized form of data to dst
func (s *Sanitizer) AppendSanitized(dst []byte, data string) []byte {
	if len(s.rules) == 0 {
		return append(dst, data...)
	}
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				dst = applyTransform(dst, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

func matchesFilter(r rune, filterMask uint64) bool {
	for _, fc := range filterCheckers {
		if filterMask&fc.flag != 0 && fc.check(r) {
			return true
		}
	}
	return false
}

func applyTransform(buf []byte, r rune, transformMask uint64) []byte {
	switch {
	case transformMask&TransformStrip != 0:
		return buf

	case transformMask&TransformSpace != 0:
		return append(buf, ' ')

	case transformMask&TransformHexEncode != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(runeBytes[:n])...)
		return append(buf, '>')

	case transformMask&TransformJSONEscape != 0:
		switch r {
		case '\n':
			return append(buf, '\\', 'n')
		case '\r':
			return append(buf, '\\', 'r')
		case '\t':
			return append(buf, '\\', 't')
		case '\b':
			return append(buf, '\\', 'b')
		case '\f':
			return append(buf, '\\', 'f')
		case '"':
			return append(buf, '\\', '"')
		case '\\':
			return append(buf, '\\', '\\')
		default:
			if r < 0x20 || r == 0x7f {
				return append(buf, fmt.Sprintf("\\u%04x", r)...)
			}
			return utf8.AppendRune(buf, r)
		}
	}
	return utf8.AppendRune(buf, r)
}
