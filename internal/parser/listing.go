
package parser

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"speech-scraper/internal/models"
)

// PIDKey is the query key that marks a link to a single document.
const PIDKey = "index.php?pid="

// DocumentIDs returns the identifier of every document link on a listing
// page, in page order.
func DocumentIDs(htmlText, source string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, &ParseError{Source: source, Reason: "invalid html", Err: err}
	}
	var ids []string
	doc.Find(fmt.Sprintf(`a[href*=%q]`, PIDKey)).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		ids = append(ids, href[strings.LastIndex(href, "=")+1:])
	})
	return ids, nil
}

var candidateLabels = map[string]struct{}{
	"Candidacy Declared:": {},
	"Status:":             {},
	"":                    {},
}

// Candidates lazily parses the candidate cells of an election-cycle page.
// Cells without exactly two paragraphs are decoration and are skipped. A
// candidate cell whose info paragraph does not hold exactly four values
// yields an error and ends the sequence.
func Candidates(htmlText, source string) iter.Seq2[models.Candidate, error] {
	return func(yield func(models.Candidate, error) bool) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
		if err != nil {
			yield(models.Candidate{}, &ParseError{Source: source, Reason: "invalid html", Err: err})
			return
		}
		first := doc.Find("td.doctext").First()
		if first.Length() == 0 {
			yield(models.Candidate{}, &ParseError{Source: source, Reason: "no candidate cells"})
			return
		}
		container := first.Closest("table")
		if container.Length() == 0 {
			yield(models.Candidate{}, &ParseError{Source: source, Reason: "candidate cells are not inside a table"})
			return
		}

		for i, td := range container.Find("td.doctext").EachIter() {
			ps := td.Find("p")
			if ps.Length() != 2 {
				slog.Debug("skipping cell", "index", i, "paragraphs", ps.Length())
				continue
			}
			candidate, err := parseCandidate(ps.Eq(0), ps.Eq(1))
			if err != nil {
				yield(models.Candidate{}, &ParseError{Source: source, Reason: fmt.Sprintf("candidate cell %d", i), Err: err})
				return
			}
			if !yield(candidate, nil) {
				return
			}
		}
	}
}

func parseCandidate(info, links *goquery.Selection) (models.Candidate, error) {
	n, _ := toNode(info.Get(0))
	var lines []string
	for _, line := range infoLines(n.(elementNode)) {
		line = strings.TrimSpace(line)
		if _, label := candidateLabels[line]; label {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != 4 {
		return models.Candidate{}, fmt.Errorf("want 4 info lines, got %d: %q", len(lines), lines)
	}

	candidate := models.Candidate{
		Name:              lines[0],
		Title:             lines[1],
		CandidacyDeclared: lines[2],
		Status:            lines[3],
	}
	links.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		candidate.Categories = append(candidate.Categories, models.CategoryLink{
			Name: strings.TrimSpace(a.Text()),
			Href: a.AttrOr("href", ""),
		})
	})
	return candidate, nil
}

// infoLines returns one entry per child of p, skipping <br> separators.
func infoLines(p elementNode) []string {
	var out []string
	for _, child := range p.children {
		switch child := child.(type) {
		case textNode:
			out = append(out, child.content)
		case elementNode:
			if child.tag == "br" {
				continue
			}
			out = append(out, text(child, ""))
		}
	}
	return out
}
