// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes synced cards to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/guru-sync/internal/apperr"
	"github.com/starford/guru-sync/internal/cardservice"
)

// Server wraps the MCP server with the card tools.
type Server struct {
	mcp *server.MCPServer
	svc *cardservice.Service
}

// New creates a new MCP server with all card tools registered.
func New(svc *cardservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"guru-sync",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Full-text search through synced card titles and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCards)

	s.mcp.AddTool(mcp.NewTool("read_card",
		mcp.WithDescription("Read a synced card as Markdown."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Card slug, as returned by search_cards or list_cards")),
	), s.readCard)

	s.mcp.AddTool(mcp.NewTool("list_cards",
		mcp.WithDescription("List all synced cards as slug and title."),
	), s.listCards)

	s.mcp.AddTool(mcp.NewTool("list_boards",
		mcp.WithDescription("List all synced boards with their parent folders."),
	), s.listBoards)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no cards found"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := s.svc.GetCard(ctx, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", card.Title)
	fmt.Fprintf(&b, "Owner: %s\n", card.Owner)
	if card.VerificationState != "" {
		fmt.Fprintf(&b, "Verification: %s\n", card.VerificationState)
	}
	if len(card.Boards) > 0 {
		titles := make([]string, 0, len(card.Boards))
		for _, bd := range card.Boards {
			titles = append(titles, bd.Title)
		}
		fmt.Fprintf(&b, "Boards: %s\n", strings.Join(titles, ", "))
	}
	b.WriteString("\n")
	b.WriteString(card.Content)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) listCards(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListCards(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Slug+"\t"+it.Title)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listBoards(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boards, err := s.svc.ListBoards(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(boards, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
