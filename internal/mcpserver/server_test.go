package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/guru-sync/internal/cardservice"
	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/sink"
	"github.com/starford/guru-sync/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db := testutil.TestDB(t)
	ctx := context.Background()

	card := models.CardRecord{
		Card:    models.Card{ID: "c1", VerificationState: models.VerificationTrusted},
		Title:   "VPN Setup",
		Content: "Reset your VPN token.",
		Slug:    "vpn-setup",
		Boards:  []models.Board{{ID: "b1", Title: "IT"}},
		Owner:   "Ada Lovelace",
	}
	rec, err := sink.NewRecord(sink.KindCard, "c1", card.Slug, card.Title, card.Content, card)
	if err != nil {
		t.Fatal(err)
	}
	board, err := sink.NewRecord(sink.KindBoard, "b1", "", "IT", "", models.BoardRecord{Board: card.Boards[0]})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []sink.Record{rec, board} {
		if err := db.Emit(ctx, r); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	return New(cardservice.NewService(db))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_cards":
		result, err = srv.searchCards(ctx, req)
	case "read_card":
		result, err = srv.readCard(ctx, req)
	case "list_cards":
		result, err = srv.listCards(ctx, req)
	case "list_boards":
		result, err = srv.listBoards(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestReadCard(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_card", map[string]interface{}{"slug": "vpn-setup"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	text := resultText(r)
	for _, want := range []string{"# VPN Setup", "Owner: Ada Lovelace", "Verification: TRUSTED", "Boards: IT", "Reset your VPN token."} {
		if !strings.Contains(text, want) {
			t.Errorf("read result missing %q:\n%s", want, text)
		}
	}
}

func TestReadCardMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_card", map[string]interface{}{"slug": "nope"})
	if !r.IsError {
		t.Error("expected error for missing card")
	}
}

func TestReadCardRequiresSlug(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_card", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without slug")
	}
}

func TestSearchCards(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_cards", map[string]interface{}{"query": "VPN"})
	if !strings.Contains(resultText(r), "vpn-setup") {
		t.Errorf("search result = %q", resultText(r))
	}

	r = callTool(t, srv, "search_cards", map[string]interface{}{"query": "kubernetes"})
	if resultText(r) != "no cards found" {
		t.Errorf("empty search result = %q", resultText(r))
	}
}

func TestListCardsAndBoards(t *testing.T) {
	srv := testServer(t)
	if got := resultText(callTool(t, srv, "list_cards", map[string]interface{}{})); got != "vpn-setup\tVPN Setup" {
		t.Errorf("list_cards = %q", got)
	}
	if got := resultText(callTool(t, srv, "list_boards", map[string]interface{}{})); !strings.Contains(got, `"title": "IT"`) {
		t.Errorf("list_boards = %q", got)
	}
}
