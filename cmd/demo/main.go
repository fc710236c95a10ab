// Command demo exercises the wiki client from the command line without an
// MCP host: resolve a (possibly misspelled) title guess, and optionally
// enumerate links from a resolved page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/olgasafonova/wikipedia-mcp-server/wiki"
)

func main() {
	query := flag.String("query", "elon muskk", "title guess to search for")
	linksFor := flag.String("links", "", "page title to fetch links from (skipped when empty)")
	numLinks := flag.Int("num-links", 15, "how many links to fetch; 0 fetches all")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	config, err := wiki.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	client := wiki.NewClient(config, logger)
	ctx := context.Background()

	result, err := client.SearchTitle(ctx, wiki.SearchArgs{Query: *query})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}

	if result == nil {
		fmt.Printf("The page %q does not exist.\n\nThere were no results matching the query\n", *query)
	} else {
		if result.Suggestion != "" {
			fmt.Printf("Showing results for %q:\n", result.Suggestion)
		}
		for _, hit := range result.Hits {
			fmt.Printf("%s: %s\n", hit.Title, hit.Snippet)
		}
	}

	if *linksFor != "" {
		links, err := client.GetLinks(ctx, wiki.GetLinksArgs{Page: *linksFor, Limit: *numLinks})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Links error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%d links from %s:\n", links.Count, links.Page)
		for _, l := range links.Links {
			fmt.Println(l)
		}
	}
}
