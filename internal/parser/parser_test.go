
package parser

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"speech-scraper/internal/models"
)

const sampleHTML = `<html><head>
<title>Abraham Lincoln: Second Inaugural Address..</title>
</head><body>
<span class="docdate">March 4, 1865</span>
<span class="displaytext">Intro.<p>Point A.<b>Point B.</b>
</p>   <p>  </p></span>
<span class="displaynotes"><b>Note:</b> Delivered at the Capitol.</span>
</body></html>`

func TestParseDocument(t *testing.T) {
	const source = "http://www.presidency.ucsb.edu/ws/index.php?pid=25819"
	got, err := ParseDocument(sampleHTML, source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := models.SpeechRecord{
		Author:    "Abraham Lincoln",
		Title:     "Second Inaugural Address",
		Timestamp: "1865-03-04",
		Source:    source,
		Text:      "Intro.\nPoint A.\nPoint B.",
		Note:      "Delivered at the Capitol.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocumentProperties(t *testing.T) {
	got, err := ParseDocument(sampleHTML, "http://example.com/ws/index.php?pid=1")
	require.NoError(t, err)

	require.NotEmpty(t, got.Author)
	require.NotEmpty(t, got.Title)
	require.NotContains(t, got.Author, ": ")
	require.NotContains(t, got.Title, ": ")

	require.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), got.Timestamp)
	parsed, err := time.Parse(time.DateOnly, got.Timestamp)
	require.NoError(t, err)
	require.Equal(t, got.Timestamp, parsed.Format(time.DateOnly))

	for _, line := range strings.Split(got.Text, "\n") {
		require.NotEmpty(t, strings.TrimSpace(line))
	}
}

func TestParagraphReconstruction(t *testing.T) {
	page := `<title>A: B</title><span class="docdate">January 20, 2009</span>
<span class="displaytext">Intro.<span>Point A.<i>Point B.</i></span></span>`
	got, err := ParseDocument(page, "src")
	require.NoError(t, err)
	require.Equal(t, "Intro.\nPoint A.\nPoint B.", got.Text)
}

func TestParagraphsStopAtTwoLevels(t *testing.T) {
	// the third level is flattened into a single paragraph
	page := `<title>A: B</title><span class="docdate">May 1, 2000</span>
<span class="displaytext"><span><p>One <b>bold</b> line<br>continued</p></span></span>`
	got, err := ParseDocument(page, "src")
	require.NoError(t, err)
	require.Equal(t, "One bold linecontinued", got.Text)
}

func TestParagraphsDropBlankLines(t *testing.T) {
	page := "<title>A: B</title><span class=\"docdate\">May 1, 2000</span>" +
		"<span class=\"displaytext\">  first\n\n  \nsecond  <br><p> </p><p>\r\n</p>third</span>"
	got, err := ParseDocument(page, "src")
	require.NoError(t, err)
	require.Equal(t, "first\nsecond\nthird", got.Text)
}

func TestNoteStripping(t *testing.T) {
	base := `<title>A: B</title><span class="docdate">May 1, 2000</span><span class="displaytext">x</span>`

	got, err := ParseDocument(base+`<span class="displaynotes">Note: He later revised this.</span>`, "src")
	require.NoError(t, err)
	require.Equal(t, "He later revised this.", got.Note)

	got, err = ParseDocument(base+`<span class="displaynotes">NOTE:   Lowercase prefix handled.</span>`, "src")
	require.NoError(t, err)
	require.Equal(t, "Lowercase prefix handled.", got.Note)

	got, err = ParseDocument(base+`<span class="displaynotes">Note: </span>`, "src")
	require.NoError(t, err)
	require.Empty(t, got.Note)

	got, err = ParseDocument(base+`<span class="displaynotes"></span>`, "src")
	require.NoError(t, err)
	require.Empty(t, got.Note)

	got, err = ParseDocument(base, "src")
	require.NoError(t, err)
	require.Empty(t, got.Note)
}

func TestParseDocumentErrors(t *testing.T) {
	testCases := []struct {
		name string
		html string
	}{
		{
			name: "no separator",
			html: `<title>Inaugural Address</title><span class="docdate">May 1, 2000</span><span class="displaytext">x</span>`,
		},
		{
			name: "empty author",
			html: `<title>: Inaugural Address</title><span class="docdate">May 1, 2000</span><span class="displaytext">x</span>`,
		},
		{
			name: "heading of only dots",
			html: `<title>Abraham Lincoln: ...</title><span class="docdate">May 1, 2000</span><span class="displaytext">x</span>`,
		},
		{
			name: "bad date",
			html: `<title>A: B</title><span class="docdate">2000-05-01</span><span class="displaytext">x</span>`,
		},
		{
			name: "missing date",
			html: `<title>A: B</title><span class="displaytext">x</span>`,
		},
		{
			name: "missing text",
			html: `<title>A: B</title><span class="docdate">May 1, 2000</span>`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseDocument(test.html, "http://example.com/ws/index.php?pid=7")
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			require.Contains(t, err.Error(), "pid=7")
		})
	}
}
