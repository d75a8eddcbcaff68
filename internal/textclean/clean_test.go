// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textclean

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inline tags, superscript and numeric citation",
			input: "<i>Background</i>: values were <sup>2</sup>elevated [12].",
			want:  "Background: values were -2elevated.",
		},
		{
			name:  "cross-reference removed with its text",
			input: `Shown previously<xref ref-type="bibr" rid="b1">1</xref>.`,
			want:  "Shown previously.",
		},
		{
			name:  "hyperlink removed with its text",
			input: `See <a href="http://example.org">here</a> for details`,
			want:  "See for details",
		},
		{
			name:  "subscript becomes hyphen-prefixed text",
			input: "CO<sub>2</sub> levels",
			want:  "CO-2 levels",
		},
		{
			name:  "superscript inside cross-reference is dropped",
			input: "a<xref><sup>1</sup></xref> b",
			want:  "a b",
		},
		{
			name:  "nested script tags emit one hyphen",
			input: "x<sup>a<sub>b</sub></sup>",
			want:  "x-ab",
		},
		{
			name:  "self-closing cross-reference keeps following text",
			input: `growth<xref rid="b2"/> was slow`,
			want:  "growth was slow",
		},
		{
			name:  "named and numeric entities decoded",
			input: "&#945;-helix and &amp;#946; strand",
			want:  "α-helix and β strand",
		},
		{
			name:  "whitespace-terminated reference keeps whitespace",
			input: "dose &amp;#8805 5 mg",
			want:  "dose ≥ 5 mg",
		},
		{
			name:  "undecodable reference leaves digits",
			input: "value &amp;#99999999; x",
			want:  "value 99999999 x",
		},
		{
			name:  "empty square and round brackets",
			input: "results [ ]. Also ( , ) here",
			want:  "results. Also here",
		},
		{
			name:  "numeric citation list in square brackets",
			input: "as reported [1, 3-5].",
			want:  "as reported.",
		},
		{
			name:  "parenthesised content kept",
			input: "cohort (n = 5) enrolled",
			want:  "cohort (n = 5) enrolled",
		},
		{
			name:  "round brackets glued to a word kept",
			input: "foo(;) bar",
			want:  "foo(;) bar",
		},
		{
			name:  "separator runs collapse to one space",
			input: "alpha , ; beta - gamma",
			want:  "alpha beta gamma",
		},
		{
			name:  "hyphen inside a word kept",
			input: "long-term follow-up",
			want:  "long-term follow-up",
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  a \n\t b  ",
			want:  "a b",
		},
		{
			name:  "escaped comparison stays as text",
			input: "p &lt; 0.05",
			want:  "p < 0.05",
		},
		{
			name:  "non-breaking space run collapses",
			input: "a\u00a0\u00a0b",
			want:  "a b",
		},
		{
			name:  "encoded non-breaking spaces collapse with spaces",
			input: "x &#160;&#160; y",
			want:  "x y",
		},
		{
			name:  "empty brackets after non-breaking space",
			input: "effect&#160;[ ] size",
			want:  "effect size",
		},
		{
			name:  "separator between non-breaking spaces",
			input: "alpha\u00a0;\u00a0beta",
			want:  "alpha beta",
		},
		{
			name:  "single non-breaking space kept",
			input: "10\u00a0mg",
			want:  "10\u00a0mg",
		},
		{
			name:  "escaped tags are stripped once unescaped",
			input: "the &lt;b&gt;bold&lt;/b&gt; text",
			want:  "the bold text",
		},
		{
			name:  "doubly escaped reference fully decoded",
			input: "amp &amp;#38;#65; end",
			want:  "amp A end",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "markup only",
			input: "<b></b><xref>1</xref>",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

var (
	tagDelimiterRe = regexp.MustCompile(`</?[A-Za-z]`)
	rawRefRe       = regexp.MustCompile(`&#\d+;`)
)

func TestCleanProperties(t *testing.T) {
	inputs := []string{
		"<i>Background</i>: values were <sup>2</sup>elevated [12].",
		"<AbstractText>Results <b>were</b> significant ( ; ) - and , stable</AbstractText>",
		"Levels of Ca<sup>2+</sup> and H<sub>2</sub>O [<xref>3</xref>] rose &amp;#8211; sharply",
		"<p>one</p>  <p>two</p> [ - ] (–) three",
		"mixed &#8805; 10 and &amp;#1114112; bad ref",
		"  leading and trailing  ",
		"A - ; , B",
		"nested <i>italic <b>bold <u>under</u></b></i> text",
		"<mml:math><mml:mi>x</mml:mi></mml:math> squared",
		"the &lt;b&gt;bold&lt;/b&gt; text",
		"amp &amp;#38;#65; end",
		"&amp;lt;i&amp;gt;twice escaped&amp;lt;/i&amp;gt;",
		"&amp;amp;#35;&amp;#51;&amp;#56;;#65; nested",
		"&lt;[ ]b&gt;bracket-split tag",
		"a\u00a0\u00a0b",
		"x &#160;&#160; y",
		"effect&#160;[ ] size",
		"\u2003 em space\u2003\u2003run \u00a0",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Clean(in)
			assert.Equal(t, once, Clean(once), "cleaning must be idempotent")
			assert.False(t, tagDelimiterRe.MatchString(once), "tag left in %q", once)
			assert.False(t, rawRefRe.MatchString(once), "numeric reference left in %q", once)
			assert.Equal(t, once, collapseCheck(once))
		})
	}
}

// collapseCheck returns s unchanged when it has no whitespace run and no
// surrounding whitespace, and "" otherwise.
func collapseCheck(s string) string {
	if whitespaceRe.MatchString(s) || strings.TrimSpace(s) != s {
		return ""
	}
	return s
}

func TestDecodeNumericReferences(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"&#65;BC", "ABC"},
		{"&#65 B", "A B"},
		{"&#65\tB", "A\tB"},
		{"trailing &#65", "trailing &#65"},
		{"&#1114112; beyond range", "1114112 beyond range"},
		{"&#55296; surrogate", "55296 surrogate"},
		{"&#99999999999; overflow", "99999999999 overflow"},
		{"&#x41; hex untouched", "&#x41; hex untouched"},
		{"no references", "no references"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeNumericReferences(tt.input))
		})
	}
}
