package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
)

// articleNamespace is MediaWiki's namespace id for main-content pages.
// Links into any other namespace (talk, user, file, ...) are excluded.
const articleNamespace = 0

// GetLinks fetches the outbound links of a single page, following the
// plcontinue pagination cursor until either args.Limit links have been
// collected or the API reports no further pages. A Limit of 0 fetches
// every link on the page.
//
// Only one page is requested at a time, one request per pagination slice,
// to keep the load on the wiki servers low.
//
// A page that exists but carries no links data is a soft failure: it is
// logged and whatever has been collected so far is returned without an
// error. Transport faults and unexpected response shapes are errors.
func (c *Client) GetLinks(ctx context.Context, args GetLinksArgs) (GetLinksResult, error) {
	if args.Page == "" {
		return GetLinksResult{}, fmt.Errorf("page is required")
	}

	perRequest := args.Limit
	if args.Limit <= 0 || args.Limit > MaxLinksPerRequest {
		perRequest = MaxLinksPerRequest
	}

	result := GetLinksResult{
		Page:  args.Page,
		Links: make([]string, 0), // empty slice, not nil, to avoid JSON null
	}

	cursor := ""
	for {
		params := url.Values{}
		params.Set("action", "query")
		params.Set("titles", normalizeTitle(args.Page))
		params.Set("prop", "links")
		params.Set("pllimit", strconv.Itoa(perRequest))
		if cursor != "" {
			params.Set("plcontinue", cursor)
		}

		resp, err := c.apiRequest(ctx, params)
		if err != nil {
			return GetLinksResult{}, err
		}
		metrics.LinkPagesFetched.Inc()

		queryObj := getMap(resp["query"])
		if queryObj == nil {
			return GetLinksResult{}, &MalformedResponseError{Field: "query"}
		}
		pages := getMap(queryObj["pages"])
		if pages == nil {
			return GetLinksResult{}, &MalformedResponseError{Field: "query.pages"}
		}
		// Exactly one title was queried, so the pages map must hold exactly
		// one entry. Anything else means the request and response are out of
		// step, and silently picking an arbitrary entry would hide that.
		if len(pages) != 1 {
			return GetLinksResult{}, &MalformedResponseError{
				Field:  "query.pages",
				Reason: fmt.Sprintf("expected 1 page, got %d", len(pages)),
			}
		}

		var page map[string]interface{}
		for _, p := range pages {
			page = getMap(p)
		}
		if page == nil {
			return GetLinksResult{}, &MalformedResponseError{Field: "query.pages", Reason: "page entry is not an object"}
		}

		links := getSlice(page["links"])
		if links == nil {
			c.logger.Error("Unable to get links for page", "page", args.Page)
			result.Count = len(result.Links)
			return result, nil
		}

		for _, l := range links {
			link := getMap(l)
			if link == nil {
				return GetLinksResult{}, &MalformedResponseError{Field: "links[]", Reason: "entry is not an object"}
			}
			if getInt(link["ns"]) != articleNamespace {
				continue
			}
			result.Links = append(result.Links, getString(link["title"]))
			if args.Limit > 0 && len(result.Links) == args.Limit {
				result.Count = len(result.Links)
				return result, nil
			}
		}

		cont := getMap(resp["continue"])
		cursor = getString(cont["plcontinue"])
		if cursor == "" {
			c.logger.Info("Page links exhausted",
				"page", args.Page,
				"collected", len(result.Links),
				"requested", args.Limit)
			result.Count = len(result.Links)
			return result, nil
		}
		c.logger.Info("Continuing link pagination", "page", args.Page, "plcontinue", cursor)
	}
}
