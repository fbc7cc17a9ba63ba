
// Package tapp drives the American Presidency Project archive: it turns
// document identifiers and listing pages into a lazy stream of records.
package tapp

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strings"

	"speech-scraper/internal/crawler"
	"speech-scraper/internal/models"
	"speech-scraper/internal/parser"
)

const DefaultBaseURL = "http://www.presidency.ucsb.edu"

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (crawler.Response, error)
}

type Scraper struct {
	fetcher Fetcher
	baseURL string
}

func New(fetcher Fetcher, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{fetcher: fetcher, baseURL: strings.TrimRight(baseURL, "/")}
}

// DocumentURL is the canonical fetch URL of a document identifier.
func (s *Scraper) DocumentURL(pid string) string {
	return s.baseURL + "/ws/" + parser.PIDKey + pid
}

func (s *Scraper) resolve(href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href
	}
	return s.baseURL + "/" + strings.TrimLeft(href, "/")
}

// page fetches rawURL and decodes it to UTF-8.
func (s *Scraper) page(ctx context.Context, rawURL string) (string, error) {
	res, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	text, err := parser.Decode(res.Body, res.DeclaredEncoding)
	if err != nil {
		return "", &parser.ParseError{Source: rawURL, Reason: "undecodable body", Err: err}
	}
	return text, nil
}

func (s *Scraper) FetchDocument(ctx context.Context, pid string) (models.SpeechRecord, error) {
	source := s.DocumentURL(pid)
	text, err := s.page(ctx, source)
	if err != nil {
		return models.SpeechRecord{}, fmt.Errorf("pid %s: %w", pid, err)
	}
	record, err := parser.ParseDocument(text, source)
	if err != nil {
		return models.SpeechRecord{}, fmt.Errorf("pid %s: %w", pid, err)
	}
	return record, nil
}

// Documents fetches each identifier as it is pulled from ids. The sequence
// ends after the first error.
func (s *Scraper) Documents(ctx context.Context, ids iter.Seq2[string, error]) iter.Seq2[models.SpeechRecord, error] {
	return func(yield func(models.SpeechRecord, error) bool) {
		for pid, err := range ids {
			if err != nil {
				yield(models.SpeechRecord{}, err)
				return
			}
			record, err := s.FetchDocument(ctx, pid)
			if err != nil {
				yield(models.SpeechRecord{}, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// DocumentIDs yields the identifiers linked from a listing page in page order.
func (s *Scraper) DocumentIDs(ctx context.Context, listingURL string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		text, err := s.page(ctx, listingURL)
		if err != nil {
			yield("", err)
			return
		}
		ids, err := parser.DocumentIDs(text, listingURL)
		if err != nil {
			yield("", err)
			return
		}
		for _, id := range ids {
			if !yield(id, nil) {
				return
			}
		}
	}
}

// ElectionCandidateIDs walks an election-cycle page: every candidate's
// category links are fetched in turn and their identifiers yielded.
func (s *Scraper) ElectionCandidateIDs(ctx context.Context, cycleURL string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		text, err := s.page(ctx, cycleURL)
		if err != nil {
			yield("", err)
			return
		}
		for candidate, err := range parser.Candidates(text, cycleURL) {
			if err != nil {
				yield("", err)
				return
			}
			slog.InfoContext(ctx, "fetching papers for candidate",
				"name", candidate.Name,
				"title", candidate.Title,
				"candidacy_declared", candidate.CandidacyDeclared,
				"status", candidate.Status,
			)
			for _, category := range candidate.Categories {
				slog.InfoContext(ctx, "fetching papers from category", "category", category.Name)
				for id, err := range s.DocumentIDs(ctx, s.resolve(category.Href)) {
					if !yield(id, err) || err != nil {
						return
					}
				}
			}
		}
	}
}

// Fetch streams the given identifiers.
func (s *Scraper) Fetch(ctx context.Context, pids []string) iter.Seq2[models.SpeechRecord, error] {
	ids := func(yield func(string, error) bool) {
		for _, pid := range pids {
			if !yield(pid, nil) {
				return
			}
		}
	}
	return s.Documents(ctx, ids)
}

func (s *Scraper) Inaugurals(ctx context.Context) iter.Seq2[models.SpeechRecord, error] {
	return s.Documents(ctx, s.DocumentIDs(ctx, s.baseURL+"/inaugurals.php"))
}

func (s *Scraper) Election(ctx context.Context, year string) iter.Seq2[models.SpeechRecord, error] {
	return s.Documents(ctx, s.ElectionCandidateIDs(ctx, fmt.Sprintf("%s/%s_election.php", s.baseURL, year)))
}

func (s *Scraper) Transition(ctx context.Context, year string) iter.Seq2[models.SpeechRecord, error] {
	return s.Documents(ctx, s.DocumentIDs(ctx, fmt.Sprintf("%s/transition%s.php", s.baseURL, year)))
}

// Listing streams every document the archive lists for a year, or for a
// single month when month is between 1 and 12.
func (s *Scraper) Listing(ctx context.Context, year, month int) iter.Seq2[models.SpeechRecord, error] {
	return s.Documents(ctx, s.DocumentIDs(ctx, s.ListingURL(year, month)))
}

func (s *Scraper) ListingURL(year, month int) string {
	query := url.Values{}
	query.Set("includepress", "1")
	query.Set("year", fmt.Sprintf("%d", year))
	if month >= 1 && month <= 12 {
		query.Set("month", fmt.Sprintf("%02d", month))
	}
	return s.baseURL + "/ws/index.php?" + query.Encode()
}
