// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

// PubMed XML structures. Only the fields the extractor reads are mapped;
// pointer fields distinguish an absent element from an empty one.

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation *medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID            *textElement     `xml:"PMID"`
	DateCompleted   *dateElement     `xml:"DateCompleted"`
	DateRevised     *dateElement     `xml:"DateRevised"`
	Article         *articleElement  `xml:"Article"`
	MeshHeadingList *meshHeadingList `xml:"MeshHeadingList"`
	KeywordLists    []keywordList    `xml:"KeywordList"`
}

type articleElement struct {
	Journal             *journalElement      `xml:"Journal"`
	ArticleTitle        *markupElement       `xml:"ArticleTitle"`
	Abstract            *abstractElement     `xml:"Abstract"`
	AuthorList          *authorList          `xml:"AuthorList"`
	PublicationTypeList *publicationTypeList `xml:"PublicationTypeList"`
	ArticleDates        []dateElement        `xml:"ArticleDate"`
}

type journalElement struct {
	Title        *textElement         `xml:"Title"`
	JournalIssue *journalIssueElement `xml:"JournalIssue"`
}

type journalIssueElement struct {
	PubDate *pubDateElement `xml:"PubDate"`
}

type pubDateElement struct {
	Year        *textElement `xml:"Year"`
	MedlineDate *textElement `xml:"MedlineDate"`
}

type abstractElement struct {
	AbstractTexts []abstractTextElement `xml:"AbstractText"`
}

type abstractTextElement struct {
	NlmCategory string `xml:"NlmCategory,attr"`
	Inner       string `xml:",innerxml"`
}

// markupElement keeps the raw inner XML so inline tags reach the cleaner.
type markupElement struct {
	Inner string `xml:",innerxml"`
}

type authorList struct {
	Authors []authorElement `xml:"Author"`
}

type authorElement struct {
	ForeName       *textElement `xml:"ForeName"`
	LastName       *textElement `xml:"LastName"`
	Initials       *textElement `xml:"Initials"`
	Suffix         *textElement `xml:"Suffix"`
	CollectiveName *textElement `xml:"CollectiveName"`
}

type dateElement struct {
	Year  *textElement `xml:"Year"`
	Month *textElement `xml:"Month"`
	Day   *textElement `xml:"Day"`
}

type publicationTypeList struct {
	PublicationTypes []textElement `xml:"PublicationType"`
}

type meshHeadingList struct {
	MeshHeadings []meshHeading `xml:"MeshHeading"`
}

type meshHeading struct {
	DescriptorName *textElement `xml:"DescriptorName"`
}

type keywordList struct {
	Keywords []textElement `xml:"Keyword"`
}

type textElement struct {
	Text string `xml:",chardata"`
}

// value returns the element text, or "" when the element is absent.
func (e *textElement) value() string {
	if e == nil {
		return ""
	}
	return e.Text
}
