package wiki

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
)

// htmlTagRegex matches a minimal angle-bracket tag: everything from a '<'
// to the nearest following '>', with no nested-tag awareness.
var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// CleanSnippet removes HTML tags from a search snippet. Text outside tags
// is preserved verbatim and in order; a string without tags comes back
// unchanged.
func CleanSnippet(raw string) string {
	return htmlTagRegex.ReplaceAllString(raw, "")
}

// maxSuggestionFollows bounds how many times a zero-hit search chases the
// API's spelling suggestion. MediaWiki does not suggest corrections for
// its own corrections, so one hop covers the real case; the bound keeps a
// looping suggestion from querying forever.
const maxSuggestionFollows = 1

// SearchTitle searches the wiki for pages matching a guessed title.
//
// Three outcomes are possible:
//  1. The wiki has hits: they are returned in the API's ranking order,
//     snippets stripped of HTML, at most args.Limit of them.
//  2. The wiki has no hits but suggests an alternative spelling: the
//     suggestion is queried once more with the default limit, and that
//     outcome is returned as-is.
//  3. The wiki has no hits and no suggestion: the result is nil with a
//     nil error. Callers must treat nil as "no such page", not as an
//     empty hit list.
func (c *Client) SearchTitle(ctx context.Context, args SearchArgs) (*SearchResult, error) {
	if args.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	limit := args.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := args.Query
	followed := ""

	for follows := 0; ; follows++ {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("list", "search")
		params.Set("srlimit", strconv.Itoa(limit))
		params.Set("srsearch", normalizeTitle(query))

		resp, err := c.apiRequest(ctx, params)
		if err != nil {
			return nil, err
		}

		queryObj := getMap(resp["query"])
		if queryObj == nil {
			return nil, &MalformedResponseError{Field: "query"}
		}
		searchInfo := getMap(queryObj["searchinfo"])
		if searchInfo == nil {
			return nil, &MalformedResponseError{Field: "query.searchinfo"}
		}

		if getInt(searchInfo["totalhits"]) == 0 {
			suggestion := getString(searchInfo["suggestion"])
			if suggestion == "" || follows >= maxSuggestionFollows {
				c.logger.Info("No results and no usable suggestion", "query", query)
				return nil, nil
			}
			c.logger.Info("No results, following suggestion",
				"query", query,
				"suggestion", suggestion)
			metrics.SuggestionFollows.Inc()
			query = suggestion
			followed = suggestion
			limit = DefaultSearchLimit
			continue
		}

		hits := getSlice(queryObj["search"])
		if hits == nil {
			return nil, &MalformedResponseError{Field: "query.search"}
		}

		result := &SearchResult{
			Query:      args.Query,
			Suggestion: followed,
			TotalHits:  getInt(searchInfo["totalhits"]),
			Hits:       make([]SearchHit, 0, len(hits)),
		}

		for _, h := range hits {
			if len(result.Hits) == limit {
				break
			}
			item := getMap(h)
			if item == nil {
				return nil, &MalformedResponseError{Field: "query.search[]", Reason: "entry is not an object"}
			}
			result.Hits = append(result.Hits, SearchHit{
				PageID:    getInt(item["pageid"]),
				Namespace: getInt(item["ns"]),
				Title:     getString(item["title"]),
				Snippet:   CleanSnippet(getString(item["snippet"])),
				Size:      getInt(item["size"]),
				WordCount: getInt(item["wordcount"]),
				Timestamp: getString(item["timestamp"]),
			})
		}

		return result, nil
	}
}
