package wiki

// Constants for request limits
const (
	// DefaultSearchLimit is used when a search does not specify a limit,
	// and for the follow-up query after a spelling suggestion.
	DefaultSearchLimit = 5

	// MaxLinksPerRequest is the hard cap MediaWiki places on pllimit.
	MaxLinksPerRequest = 500
)

// ========== Search Types ==========

type SearchArgs struct {
	Query string `json:"query" jsonschema:"required,description=Guessed page title to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results to return (default 5)"`
}

// SearchResult is the outcome of a title search. A nil *SearchResult
// (with a nil error) means the wiki had no hits and offered no spelling
// suggestion; this is deliberately distinct from a result with zero hits,
// which is never produced.
type SearchResult struct {
	Query      string      `json:"query"`
	Suggestion string      `json:"suggestion,omitempty"`
	TotalHits  int         `json:"total_hits"`
	Hits       []SearchHit `json:"hits"`
}

// SearchHit is one search match. Snippet has HTML markup stripped;
// the remaining fields are passed through from the API unchanged.
type SearchHit struct {
	PageID    int    `json:"page_id"`
	Namespace int    `json:"namespace"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Size      int    `json:"size"`
	WordCount int    `json:"word_count"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ========== Links Types ==========

type GetLinksArgs struct {
	Page  string `json:"page" jsonschema:"required,description=Exact page title (resolve it with wikipedia_search_title first)"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=How many links to return; 0 fetches every link on the page"`
}

type GetLinksResult struct {
	Page  string   `json:"page"`
	Links []string `json:"links"`
	Count int      `json:"count"`
}
