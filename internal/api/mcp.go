package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avellar/docask/internal/document"
	"github.com/avellar/docask/internal/rag"
	"github.com/avellar/docask/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Service *rag.Service
	Log     *storage.Store // optional; nil hides the recent-interactions resource content
}

// mcpState is the session the stdio transport's single client works in.
type mcpState struct {
	mu   sync.Mutex
	sess *rag.Session
}

// NewMCPServer creates an MCP server exposing document loading,
// question answering, and profile management as tools, plus profile
// and document listings as resources.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"docask",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("docask — ask questions over loaded documents, personalized by stored user profiles."),
		server.WithRecovery(),
	)

	state := &mcpState{sess: rag.NewSession()}

	s.AddTool(
		mcp.NewTool("load_document",
			mcp.WithDescription("Load a PDF file or a web page into the document collection."),
			mcp.WithString("path", mcp.Description("Path to a PDF file")),
			mcp.WithString("url", mcp.Description("URL of a web page to fetch")),
		),
		mcpLoadDocument(deps, state),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Answer a question from the loaded documents, personalized for the given profile."),
			mcp.WithString("question", mcp.Description("The question to answer"), mcp.Required()),
			mcp.WithString("user_id", mcp.Description("Profile id for personalization")),
		),
		mcpAsk(deps, state),
	)

	s.AddTool(
		mcp.NewTool("upsert_profile",
			mcp.WithDescription("Create a profile or update its non-empty fields."),
			mcp.WithString("id", mcp.Description("Stable profile identifier"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Display name")),
			mcp.WithArray("preferences", mcp.Description("Preference tags")),
			mcp.WithArray("history", mcp.Description("Interaction history entries, most recent last")),
		),
		mcpUpsertProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("clear_documents",
			mcp.WithDescription("Remove all loaded documents and reset the conversation."),
		),
		mcpClearDocuments(deps, state),
	)

	s.AddResource(
		mcp.NewResource(
			"user://profiles",
			"User Profiles",
			mcp.WithResourceDescription("All stored user profiles as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfiles(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"docs://loaded",
			"Loaded Documents",
			mcp.WithResourceDescription("Currently loaded documents with metadata"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceDocuments(state),
	)

	s.AddResource(
		mcp.NewResource(
			"log://recent",
			"Recent Interactions",
			mcp.WithResourceDescription("Last 10 recorded question/answer pairs"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpLoadDocument(deps MCPDeps, state *mcpState) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		url := req.GetString("url", "")
		if path == "" && url == "" {
			return mcpError("one of path or url is required"), nil
		}

		state.mu.Lock()
		defer state.mu.Unlock()

		var (
			doc document.Document
			err error
		)
		if path != "" {
			doc, err = deps.Service.LoadPDF(state.sess, path)
		} else {
			doc, err = deps.Service.LoadURL(ctx, state.sess, url)
		}
		if err != nil {
			return mcpError(fmt.Sprintf("loading document failed: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Loaded %s (%d pages, %d characters)", doc.Name, doc.Pages, doc.CharCount)), nil
	}
}

func mcpAsk(deps MCPDeps, state *mcpState) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		state.mu.Lock()
		state.sess.UserID = req.GetString("user_id", "")
		answer := deps.Service.Ask(ctx, state.sess, question)
		state.mu.Unlock()

		return mcpText(answer), nil
	}
}

func mcpUpsertProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		name := req.GetString("name", "")
		preferences := req.GetStringSlice("preferences", nil)
		history := req.GetStringSlice("history", nil)

		p := deps.Service.Profiles().Upsert(id, name, preferences, history)

		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpClearDocuments(deps MCPDeps, state *mcpState) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state.mu.Lock()
		deps.Service.ClearDocuments(state.sess)
		state.mu.Unlock()
		return mcpText("All documents cleared."), nil
	}
}

func mcpResourceProfiles(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Service.Profiles().List())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profiles: %w", err)
		}
		return jsonResource(req.Params.URI, string(b)), nil
	}
}

func mcpResourceDocuments(state *mcpState) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		state.mu.Lock()
		docs := state.sess.Docs.List()
		state.mu.Unlock()

		type docSummary struct {
			Name      string `json:"name"`
			Pages     int    `json:"pages"`
			CharCount int    `json:"char_count"`
		}
		summaries := make([]docSummary, len(docs))
		for i, d := range docs {
			summaries[i] = docSummary{Name: d.Name, Pages: d.Pages, CharCount: d.CharCount}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal documents: %w", err)
		}
		return jsonResource(req.Params.URI, string(b)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if deps.Log == nil {
			return jsonResource(req.Params.URI, "[]"), nil
		}

		interactions, err := deps.Log.GetRecentInteractions(10)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent interactions: %w", err)
		}

		type interactionSummary struct {
			ID        string `json:"id"`
			CreatedAt string `json:"created_at"`
			UserID    string `json:"user_id"`
			Question  string `json:"question"`
		}
		summaries := make([]interactionSummary, len(interactions))
		for i, ix := range interactions {
			summaries[i] = interactionSummary{
				ID:        ix.ID,
				CreatedAt: ix.CreatedAt.Format(time.RFC3339),
				UserID:    ix.UserID,
				Question:  ix.Question,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal interactions: %w", err)
		}
		return jsonResource(req.Params.URI, string(b)), nil
	}
}

func jsonResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
