// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import "strings"

// reviewPhrases mark a review when found in an article's own text.
var reviewPhrases = []string{
	"systematic review",
}

// isReview reports whether the citation metadata labels the article a
// review: any publication type, MeSH descriptor or keyword mentioning
// "review". Absent lists simply don't match.
func isReview(mc *medlineCitation) bool {
	if mc.Article != nil && mc.Article.PublicationTypeList != nil {
		for _, pt := range mc.Article.PublicationTypeList.PublicationTypes {
			if mentionsReview(pt.Text) {
				return true
			}
		}
	}

	if mc.MeshHeadingList != nil {
		for _, mh := range mc.MeshHeadingList.MeshHeadings {
			if mentionsReview(mh.DescriptorName.value()) {
				return true
			}
		}
	}

	for _, kl := range mc.KeywordLists {
		for _, kw := range kl.Keywords {
			if mentionsReview(kw.Text) {
				return true
			}
		}
	}

	return false
}

// isReviewByPhrase reports whether cleaned text contains a review phrase.
func isReviewByPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range reviewPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func mentionsReview(s string) bool {
	return strings.Contains(strings.ToLower(s), "review")
}
