package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCleanSnippet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips highlight spans",
			input: `<span class="searchmatch">Elon</span> Reeve <span class="searchmatch">Musk</span> is a businessman`,
			want:  "Elon Reeve Musk is a businessman",
		},
		{
			name:  "no tags unchanged",
			input: "plain snippet text",
			want:  "plain snippet text",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "entities left alone",
			input: "AT&amp;T <b>history</b>",
			want:  "AT&amp;T history",
		},
		{
			name:  "whitespace preserved",
			input: "  <i>leading</i> and trailing  ",
			want:  "  leading and trailing  ",
		},
		{
			name:  "adjacent tags",
			input: "<p><b>bold</b></p>",
			want:  "bold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanSnippet(tt.input); got != tt.want {
				t.Errorf("CleanSnippet(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// searchResponse builds a list=search response body
func searchResponse(totalHits int, suggestion string, titles ...string) map[string]interface{} {
	searchInfo := map[string]interface{}{"totalhits": totalHits}
	if suggestion != "" {
		searchInfo["suggestion"] = suggestion
	}
	hits := make([]interface{}, 0, len(titles))
	for i, title := range titles {
		hits = append(hits, map[string]interface{}{
			"pageid":    float64(1000 + i),
			"ns":        float64(0),
			"title":     title,
			"snippet":   `<span class="searchmatch">` + title + `</span> snippet`,
			"size":      float64(2048),
			"wordcount": float64(300),
			"timestamp": "2026-08-01T12:00:00Z",
		})
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"searchinfo": searchInfo,
			"search":     hits,
		},
	}
}

func TestSearchTitle_Success(t *testing.T) {
	var gotParams []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotParams = append(gotParams, q.Get("srsearch"))
		if q.Get("action") != "query" || q.Get("list") != "search" {
			t.Errorf("unexpected query params: %v", q)
		}
		writeJSON(t, w, searchResponse(3, "", "Elon Musk", "Elon Musk filmography", "Views of Elon Musk"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SearchTitle(context.Background(), SearchArgs{Query: "Elon Musk"})
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if result == nil {
		t.Fatal("Expected a result, got nil")
	}

	if len(gotParams) != 1 || gotParams[0] != "Elon_Musk" {
		t.Errorf("srsearch requests = %v, want single Elon_Musk", gotParams)
	}
	if result.TotalHits != 3 {
		t.Errorf("TotalHits = %d, want 3", result.TotalHits)
	}
	if result.Suggestion != "" {
		t.Errorf("Suggestion = %q, want empty", result.Suggestion)
	}

	wantOrder := []string{"Elon Musk", "Elon Musk filmography", "Views of Elon Musk"}
	if len(result.Hits) != len(wantOrder) {
		t.Fatalf("Got %d hits, want %d", len(result.Hits), len(wantOrder))
	}
	for i, want := range wantOrder {
		if result.Hits[i].Title != want {
			t.Errorf("Hits[%d].Title = %q, want %q", i, result.Hits[i].Title, want)
		}
	}
	if result.Hits[0].Snippet != "Elon Musk snippet" {
		t.Errorf("Snippet = %q, tags should be stripped", result.Hits[0].Snippet)
	}
}

func TestSearchTitle_LimitCapsHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchResponse(5, "", "A", "B", "C", "D", "E"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SearchTitle(context.Background(), SearchArgs{Query: "letters", Limit: 3})
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if len(result.Hits) != 3 {
		t.Errorf("Got %d hits, want 3", len(result.Hits))
	}
}

func TestSearchTitle_FollowsSuggestion(t *testing.T) {
	var requests []struct{ srsearch, srlimit string }
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests = append(requests, struct{ srsearch, srlimit string }{q.Get("srsearch"), q.Get("srlimit")})
		if q.Get("srsearch") == "elon_muskk" {
			writeJSON(t, w, searchResponse(0, "elon musk"))
			return
		}
		writeJSON(t, w, searchResponse(2, "", "Elon Musk", "Musk family"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SearchTitle(context.Background(), SearchArgs{Query: "elon muskk", Limit: 2})
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if result == nil {
		t.Fatal("Expected a result after following the suggestion")
	}

	if len(requests) != 2 {
		t.Fatalf("Got %d requests, want 2", len(requests))
	}
	if requests[0].srsearch != "elon_muskk" || requests[0].srlimit != "2" {
		t.Errorf("first request = %+v, want srsearch=elon_muskk srlimit=2", requests[0])
	}
	// The requery for a suggestion goes out with the default limit, not the
	// caller's original one.
	if requests[1].srsearch != "elon_musk" || requests[1].srlimit != "5" {
		t.Errorf("second request = %+v, want srsearch=elon_musk srlimit=5", requests[1])
	}

	if result.Query != "elon muskk" {
		t.Errorf("Query = %q, want the original guess", result.Query)
	}
	if result.Suggestion != "elon musk" {
		t.Errorf("Suggestion = %q, want elon musk", result.Suggestion)
	}
	if len(result.Hits) != 2 || result.Hits[0].Title != "Elon Musk" {
		t.Errorf("Hits = %+v, want the suggestion's results", result.Hits)
	}
}

func TestSearchTitle_NoResultsNoSuggestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchResponse(0, ""))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SearchTitle(context.Background(), SearchArgs{Query: "xyzzyplugh"})
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil for a page that does not exist", result)
	}
}

func TestSearchTitle_SuggestionFollowBounded(t *testing.T) {
	// A server that always answers zero hits with yet another suggestion.
	// The client must give up after one follow instead of looping.
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		writeJSON(t, w, searchResponse(0, "another spelling"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.SearchTitle(context.Background(), SearchArgs{Query: "typo"})
	if err != nil {
		t.Fatalf("SearchTitle failed: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if requestCount != 2 {
		t.Errorf("Got %d requests, want 2 (original plus one follow)", requestCount)
	}
}

func TestSearchTitle_EmptyQuery(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.SearchTitle(context.Background(), SearchArgs{})
	if err == nil {
		t.Fatal("Expected error for empty query")
	}
}

func TestSearchTitle_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing query",
			body: map[string]interface{}{"batchcomplete": ""},
		},
		{
			name: "missing searchinfo",
			body: map[string]interface{}{
				"query": map[string]interface{}{"search": []interface{}{}},
			},
		},
		{
			name: "missing search list",
			body: map[string]interface{}{
				"query": map[string]interface{}{
					"searchinfo": map[string]interface{}{"totalhits": float64(7)},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server)
			_, err := client.SearchTitle(context.Background(), SearchArgs{Query: "anything"})
			if err == nil {
				t.Fatal("Expected error for malformed response")
			}
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Errorf("error = %v, want MalformedResponseError", err)
			}
		})
	}
}
