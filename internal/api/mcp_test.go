package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avellar/docask/internal/composer"
	"github.com/avellar/docask/internal/document"
	"github.com/avellar/docask/internal/generate"
	"github.com/avellar/docask/internal/profile"
	"github.com/avellar/docask/internal/rag"
)

// --- helpers ---

func newTestMCPDeps(stub *stubCompleter) MCPDeps {
	svc := rag.New("test-model", profile.NewStore(&profile.MemoryBackend{}), generate.New(stub), nil)
	return MCPDeps{Service: svc}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPTool_AskWithoutDocuments(t *testing.T) {
	stub := &stubCompleter{answer: "unreachable"}
	deps := newTestMCPDeps(stub)
	state := &mcpState{sess: rag.NewSession()}
	handler := mcpAsk(deps, state)

	req := makeCallToolRequest("ask", map[string]interface{}{
		"question": "What is x?",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := toolText(t, result); got != composer.NoDocumentsMessage {
		t.Errorf("expected no-documents sentinel, got %q", got)
	}
	if stub.calls != 0 {
		t.Errorf("generator invoked with no documents: %d calls", stub.calls)
	}
}

func TestMCPTool_AskRequiresQuestion(t *testing.T) {
	deps := newTestMCPDeps(&stubCompleter{})
	state := &mcpState{sess: rag.NewSession()}
	handler := mcpAsk(deps, state)

	result, err := handler(context.Background(), makeCallToolRequest("ask", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing question")
	}
}

func TestMCPTool_Ask(t *testing.T) {
	stub := &stubCompleter{answer: "the answer"}
	deps := newTestMCPDeps(stub)
	state := &mcpState{sess: rag.NewSession()}
	state.sess.Docs.Append(document.Document{Name: "doc.pdf", Text: "T"})
	handler := mcpAsk(deps, state)

	req := makeCallToolRequest("ask", map[string]interface{}{
		"question": "What is x?",
		"user_id":  "u1",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := toolText(t, result); got != "the answer" {
		t.Errorf("expected generated answer, got %q", got)
	}
	if state.sess.UserID != "u1" {
		t.Errorf("user_id not applied to session: %q", state.sess.UserID)
	}
}

func TestMCPTool_UpsertProfile(t *testing.T) {
	deps := newTestMCPDeps(&stubCompleter{})
	handler := mcpUpsertProfile(deps)

	req := makeCallToolRequest("upsert_profile", map[string]interface{}{
		"id":          "u1",
		"name":        "Ann",
		"preferences": []string{"x", "y"},
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", toolText(t, result))
	}

	p, ok := deps.Service.Profiles().Get("u1")
	if !ok {
		t.Fatal("profile not stored")
	}
	if p.Name != "Ann" || len(p.Preferences) != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
	if !strings.Contains(toolText(t, result), `"id":"u1"`) {
		t.Errorf("result should carry the profile JSON, got %s", toolText(t, result))
	}
}

func TestMCPTool_UpsertProfileRequiresID(t *testing.T) {
	deps := newTestMCPDeps(&stubCompleter{})
	handler := mcpUpsertProfile(deps)

	result, err := handler(context.Background(), makeCallToolRequest("upsert_profile", map[string]interface{}{
		"name": "Ann",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing id")
	}
}

func TestMCPTool_LoadDocumentRequiresSource(t *testing.T) {
	deps := newTestMCPDeps(&stubCompleter{})
	state := &mcpState{sess: rag.NewSession()}
	handler := mcpLoadDocument(deps, state)

	result, err := handler(context.Background(), makeCallToolRequest("load_document", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result without path or url")
	}
}

func TestMCPTool_ClearDocuments(t *testing.T) {
	deps := newTestMCPDeps(&stubCompleter{})
	state := &mcpState{sess: rag.NewSession()}
	state.sess.Docs.Append(document.Document{Name: "doc.pdf"})
	handler := mcpClearDocuments(deps, state)

	if _, err := handler(context.Background(), makeCallToolRequest("clear_documents", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.sess.Docs.Len() != 0 {
		t.Errorf("expected empty collection, got %d documents", state.sess.Docs.Len())
	}
}

func TestMCPResource_Documents(t *testing.T) {
	state := &mcpState{sess: rag.NewSession()}
	state.sess.Docs.Append(document.Document{Name: "doc.pdf", Text: "T", Pages: 2, CharCount: 1})
	handler := mcpResourceDocuments(state)

	contents, err := handler(context.Background(), makeReadResourceRequest("docs://loaded"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var docs []struct {
		Name  string `json:"name"`
		Pages int    `json:"pages"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &docs); err != nil {
		t.Fatalf("decoding resource: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "doc.pdf" || docs[0].Pages != 2 {
		t.Errorf("unexpected resource content: %s", tc.Text)
	}
	if strings.Contains(tc.Text, `"text"`) {
		t.Error("resource must not expose raw document text")
	}
}

func TestMCPResource_RecentWithoutLog(t *testing.T) {
	deps := newTestMCPDeps(&stubCompleter{})
	handler := mcpResourceRecent(deps)

	contents, err := handler(context.Background(), makeReadResourceRequest("log://recent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if tc.Text != "[]" {
		t.Errorf("expected empty listing, got %s", tc.Text)
	}
}
