package domain

// Article is the normalized daily article produced by the fetch pipeline.
// It is immutable once constructed: a new daily fetch produces a new value
// that supersedes the previous one wholesale.
type Article struct {
	Title    string
	Link     string
	Summary  string
	Excerpt  string
	KeyTerms []TermEntry
}

// TermEntry carries one uncommon term selected from the article body
// together with its dictionary lookup results.
type TermEntry struct {
	Term        string
	Definitions []string
	Frequency   float64
}
