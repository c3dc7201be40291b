// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the star ledger to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/models"
)

const snapshotURI = "goldstar://snapshot"

// Server wraps the MCP server with ledger tools.
type Server struct {
	mcp   *server.MCPServer
	store *ledger.Store
}

// New creates a new MCP server with all ledger tools registered.
func New(store *ledger.Store, version string) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Gold Star Ledger",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_people",
		mcp.WithDescription("List tracked people with their star counts."),
		mcp.WithString("sort_by", mcp.Description("Sort key"), mcp.Enum("name", "stars", "dateAdded", "lastStarDate")),
		mcp.WithString("order", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
	), s.listPeople)

	s.mcp.AddTool(mcp.NewTool("add_person",
		mcp.WithDescription("Start tracking a person. Returns the new person's id."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
	), s.addPerson)

	s.mcp.AddTool(mcp.NewTool("remove_person",
		mcp.WithDescription("Stop tracking a person and delete their star history."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id")),
	), s.removePerson)

	s.mcp.AddTool(mcp.NewTool("grant_star",
		mcp.WithDescription("Give a person one gold star."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id")),
		mcp.WithString("reason", mcp.Description("Optional note explaining the star")),
	), s.grantStar)

	s.mcp.AddTool(mcp.NewTool("revoke_star",
		mcp.WithDescription("Take one gold star away. Has no effect when the person has none."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id")),
		mcp.WithString("reason", mcp.Description("Optional note explaining the revocation")),
	), s.revokeStar)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Totals, average stars, actions in the last 7 days and the top performer."),
	), s.getStats)

	s.mcp.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("The star audit log, optionally for one person."),
		mcp.WithString("person_id", mcp.Description("Only actions for this person")),
	), s.listActions)

	s.mcp.AddResource(
		mcp.NewResource(snapshotURI, "Ledger Snapshot",
			mcp.WithResourceDescription("The full persisted state: people and star actions."),
			mcp.WithMIMEType("application/json"),
		),
		s.readSnapshotResource,
	)

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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPeople(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := s.store.View()
	if v := req.GetString("sort_by", ""); v != "" {
		by, err := models.ParseSortBy(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view.By = by
	}
	if v := req.GetString("order", ""); v != "" {
		order, err := models.ParseSortOrder(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view.Order = order
	}
	return jsonResult(s.store.SortedPeople(view.By, view.Order))
}

func (s *Server) addPerson(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.store.AddPerson(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s", id)), nil
}

func (s *Server) removePerson(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.store.RemovePerson(id) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
}

func (s *Server) grantStar(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.star(req, s.store.GrantStar)
}

func (s *Server) revokeStar(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.star(req, s.store.RevokeStar)
}

func (s *Server) star(req mcp.CallToolRequest, apply func(id, reason string) ledger.Outcome) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	switch apply(id, req.GetString("reason", "")) {
	case ledger.UnknownPerson:
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	case ledger.NoStars:
		return mcp.NewToolResultText(fmt.Sprintf("unchanged: %s has no stars to revoke", id)), nil
	}
	p, _ := s.store.Person(id)
	return mcp.NewToolResultText(fmt.Sprintf("%s now has %d star(s)", p.Name, p.Stars)), nil
}

func (s *Server) getStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Stats())
}

func (s *Server) listActions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("person_id", ""); id != "" {
		return jsonResult(s.store.ActionsFor(id))
	}
	return jsonResult(s.store.Actions())
}

func (s *Server) readSnapshotResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := ledger.Encode(s.store.Snapshot())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      snapshotURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
