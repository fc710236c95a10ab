// Wikipedia MCP Server - A Model Context Protocol server for the Wikipedia
// query API. Provides tools for resolving guessed page titles and for
// enumerating a page's outbound links.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
	"github.com/olgasafonova/wikipedia-mcp-server/tracing"
	"github.com/olgasafonova/wikipedia-mcp-server/wiki"
)

const (
	ServerName    = "wikipedia-mcp-server"
	ServerVersion = "1.0.0"
)

// recoverPanic wraps a handler with panic recovery so a bad response shape
// cannot crash the server
func recoverPanic(logger *slog.Logger, tool string) {
	if r := recover(); r != nil {
		metrics.PanicsRecovered.WithLabelValues(tool).Inc()
		logger.Error("Panic recovered",
			"tool", tool,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

func main() {
	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Load configuration from environment
	config, err := wiki.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize tracing (no-op unless OTEL_ENABLED or an OTLP endpoint is set)
	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	// Create Wikipedia client
	client := wiki.NewClient(config, logger)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger: logger,
		Instructions: `Wikipedia MCP Server provides tools for querying Wikipedia.

Available tools:
- wikipedia_search_title: Resolve a guessed title into matching pages
- wikipedia_get_links: List the article links going out from a page

A typical flow is to resolve an ambiguous title with
wikipedia_search_title first, then pass one of the returned titles to
wikipedia_get_links.

Configure via environment variables:
- WIKIPEDIA_API_URL: Wiki API URL (default https://en.wikipedia.org/w/api.php)
- WIKIPEDIA_TIMEOUT: HTTP timeout as a Go duration (default 30s)
- WIKIPEDIA_USER_AGENT: User-Agent header sent to the wiki`,
	})

	registerTools(server, client, logger)

	logger.Info("Starting Wikipedia MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"wiki_url", config.BaseURL,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *wiki.Client, logger *slog.Logger) {
	// Title search tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "wikipedia_search_title",
		Description: "Search Wikipedia for pages matching a guessed title. Zero-hit queries follow the wiki's spelling suggestion once; a query with no hits and no suggestion reports that the page does not exist.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Wikipedia Titles",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(true),
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args wiki.SearchArgs) (*mcp.CallToolResult, wiki.SearchResult, error) {
		defer recoverPanic(logger, "wikipedia_search_title")

		ctx, span := tracing.StartSpan(ctx, "mcp.tool.wikipedia_search_title")
		defer span.End()
		tracing.AddWikiAttributes(span, "query/search", args.Query)

		metrics.RequestInFlight.WithLabelValues("wikipedia_search_title").Inc()
		defer metrics.RequestInFlight.WithLabelValues("wikipedia_search_title").Dec()

		start := time.Now()
		result, err := client.SearchTitle(ctx, args)
		duration := time.Since(start).Seconds()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest("wikipedia_search_title", duration, false)
			return nil, wiki.SearchResult{}, fmt.Errorf("search failed: %w", err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest("wikipedia_search_title", duration, true)

		if result == nil {
			// No hits and no suggestion: the page does not exist.
			logger.Info("Tool executed",
				"tool", "wikipedia_search_title",
				"query", args.Query,
				"exists", false)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{
					Text: fmt.Sprintf("The page %q does not exist.\n\nThere were no results matching the query.", args.Query),
				}},
			}, wiki.SearchResult{Query: args.Query}, nil
		}

		logger.Info("Tool executed",
			"tool", "wikipedia_search_title",
			"query", args.Query,
			"hits", len(result.Hits),
			"total_hits", result.TotalHits,
			"suggestion", result.Suggestion,
		)
		return nil, *result, nil
	})

	// Links tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "wikipedia_get_links",
		Description: "List the article-namespace links going out from a Wikipedia page, following pagination until the requested count is reached. Limit 0 fetches every link.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Page Links",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(true),
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args wiki.GetLinksArgs) (*mcp.CallToolResult, wiki.GetLinksResult, error) {
		defer recoverPanic(logger, "wikipedia_get_links")

		ctx, span := tracing.StartSpan(ctx, "mcp.tool.wikipedia_get_links")
		defer span.End()
		tracing.AddWikiAttributes(span, "query/links", args.Page)

		metrics.RequestInFlight.WithLabelValues("wikipedia_get_links").Inc()
		defer metrics.RequestInFlight.WithLabelValues("wikipedia_get_links").Dec()

		start := time.Now()
		result, err := client.GetLinks(ctx, args)
		duration := time.Since(start).Seconds()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest("wikipedia_get_links", duration, false)
			return nil, wiki.GetLinksResult{}, fmt.Errorf("failed to get links: %w", err)
		}

		span.SetStatus(codes.Ok, "")
		span.SetAttributes(attribute.Int("wiki.links.count", result.Count))
		metrics.RecordRequest("wikipedia_get_links", duration, true)
		logger.Info("Tool executed",
			"tool", "wikipedia_get_links",
			"page", args.Page,
			"links", result.Count,
		)
		return nil, result, nil
	})
}

func ptr[T any](v T) *T {
	return &v
}
