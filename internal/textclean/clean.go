// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textclean turns markup-bearing title and abstract fragments into
// plain text. Cross-references and links are dropped, sub/superscripts become
// hyphen-prefixed text, remaining tags are stripped, numeric character
// references are decoded and citation leftovers are squeezed out.
package textclean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Whitespace classes include Unicode space separators so that runs of
// U+00A0 from "&#160;" collapse like ASCII spaces.
var (
	// emptyBracketsRe matches bracket groups left behind by stripped citation
	// markers: "[]", "[ , ]", "[12]", "[3-5]" with any leading whitespace, and
	// "( )", "(;)" preceded by at least one whitespace character.
	emptyBracketsRe = regexp.MustCompile(`([\s\p{Zs}]*?\[[\d \-–,;]*?\])|([\s\p{Zs}]+?\([ \-–,;]*?\))`)

	// delimiterRunRe matches a run of separators that are each preceded by
	// whitespace, with whitespace after the last one: " - ", " ; , ".
	delimiterRunRe = regexp.MustCompile(`([\s\p{Zs}]+[-,;])+[\s\p{Zs}]+`)

	whitespaceRe = regexp.MustCompile(`[\s\p{Zs}]{2,}`)

	// numericRefRe matches "&#NNN;" or "&#NNN" followed by whitespace.
	numericRefRe = regexp.MustCompile(`&#(\d+)(;|\s)`)
)

// removedTags are dropped together with everything inside them.
var removedTags = map[string]bool{
	"xref": true,
	"a":    true,
}

// scriptTags are replaced by their text prefixed with a hyphen.
var scriptTags = map[string]bool{
	"sub": true,
	"sup": true,
}

// Clean converts one markup fragment into normalized plain text. Escaped
// markup such as "&lt;b&gt;" or "&amp;#38;#65;" only becomes a tag or a
// reference after one pass, so passes repeat until the text is stable.
// Every pass only shortens the text or leaves it unchanged.
func Clean(fragment string) string {
	text := fragment
	for {
		next := cleanPass(text)
		if next == text {
			return next
		}
		text = next
	}
}

// cleanPass runs each normalization step once. Bracket cleanup depends on
// tags and references having been resolved first.
func cleanPass(text string) string {
	text = stripMarkup(text)
	text = DecodeNumericReferences(text)
	text = emptyBracketsRe.ReplaceAllString(text, "")
	text = delimiterRunRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stripMarkup tokenizes the fragment and returns its text content in
// document order, with removedTags elided and scriptTags rewritten.
func stripMarkup(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		b           strings.Builder
		removeDepth int
		scriptDepth int
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return b.String()

		case html.StartTagToken:
			name, _ := z.TagName()
			z.NextIsNotRawText()
			tag := string(name)
			switch {
			case removedTags[tag]:
				removeDepth++
			case scriptTags[tag]:
				if scriptDepth == 0 && removeDepth == 0 {
					b.WriteByte('-')
				}
				scriptDepth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case removedTags[tag] && removeDepth > 0:
				removeDepth--
			case scriptTags[tag] && scriptDepth > 0:
				scriptDepth--
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if scriptTags[string(name)] && scriptDepth == 0 && removeDepth == 0 {
				b.WriteByte('-')
			}

		case html.TextToken:
			if removeDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// DecodeNumericReferences replaces decimal character references with the
// character they name. A reference terminated by whitespace keeps that
// whitespace. When the number does not name a valid character the digits are
// left in place of the reference; this never fails.
func DecodeNumericReferences(text string) string {
	return numericRefRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := numericRefRe.FindStringSubmatch(match)
		digits, term := sub[1], sub[2]
		suffix := ""
		if term != ";" {
			suffix = term
		}

		n, err := strconv.ParseInt(digits, 10, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return digits + suffix
		}
		return string(rune(n)) + suffix
	})
}
