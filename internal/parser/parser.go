
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"speech-scraper/internal/models"
)

const dateLayout = "January 2, 2006"

var notePrefixRe = regexp.MustCompile(`(?i)^note:(\s+|$)`)

// ParseDocument normalizes one decoded document page. source is copied into
// the record verbatim.
func ParseDocument(htmlText, source string) (models.SpeechRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "invalid html", Err: err}
	}

	title := doc.Find("title").First()
	if title.Length() == 0 {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "missing <title>"}
	}
	author, heading, ok := strings.Cut(strings.TrimSpace(title.Text()), ": ")
	if !ok {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: `title has no ": " separator`}
	}
	if author == "" {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "title has no author"}
	}

	docdate := doc.Find("span.docdate").First()
	if docdate.Length() == 0 {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "missing document date"}
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(docdate.Text()))
	if err != nil {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "invalid document date", Err: err}
	}

	display := doc.Find("span.displaytext").First()
	if display.Length() == 0 {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "missing document text"}
	}
	body, _ := toNode(display.Get(0))

	var lines []string
	for _, p := range paragraphs(body.(elementNode)) {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, dropBlankLines(p))
		}
	}

	heading = strings.TrimRight(heading, ".")
	if heading == "" {
		return models.SpeechRecord{}, &ParseError{Source: source, Reason: "title has no heading"}
	}

	record := models.SpeechRecord{
		Author:    author,
		Title:     heading,
		Timestamp: date.Format(time.DateOnly),
		Source:    source,
		Text:      strings.Join(lines, "\n"),
	}

	if notes := doc.Find("span.displaynotes").First(); notes.Length() > 0 {
		n, _ := toNode(notes.Get(0))
		note := notePrefixRe.ReplaceAllString(strings.TrimSpace(text(n, " ")), "")
		record.Note = strings.TrimSpace(note)
	}

	return record, nil
}

// dropBlankLines removes whitespace-only lines inside a single paragraph.
func dropBlankLines(p string) string {
	if !strings.Contains(p, "\n") {
		return p
	}
	kept := make([]string, 0, strings.Count(p, "\n")+1)
	for _, line := range strings.Split(p, "\n") {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
