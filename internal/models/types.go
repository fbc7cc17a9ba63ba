
package models

// SpeechRecord is the normalized output unit. Fields are declared in
// lexicographic key order so encoding/json emits sorted keys.
type SpeechRecord struct {
	Author    string `json:"author"`
	Note      string `json:"note,omitempty"`
	Source    string `json:"source"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
}

type CategoryLink struct {
	Name string
	Href string
}

// Candidate is one block of an election-cycle page. It is never emitted.
type Candidate struct {
	Name              string
	Title             string
	CandidacyDeclared string
	Status            string
	Categories        []CategoryLink
}
