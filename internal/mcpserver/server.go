// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Larder tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/larder/internal/index"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/navigate"
	"github.com/starford/larder/internal/parser"
	"github.com/starford/larder/internal/store"
	"github.com/starford/larder/internal/visibility"
)

// Server wraps the MCP server with Larder tools.
type Server struct {
	mcp        *server.MCPServer
	db         *index.DB
	resolver   *navigate.Resolver
	propagator *visibility.Propagator
}

// New creates a new MCP server with all Larder tools registered.
func New(db *index.DB, resolver *navigate.Resolver, propagator *visibility.Propagator) *Server {
	s := &Server{db: db, resolver: resolver, propagator: propagator}

	s.mcp = server.NewMCPServer(
		"Larder",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Full-text search through recipe titles and ingredient lines."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecipes)

	s.mcp.AddTool(mcp.NewTool("read_recipe",
		mcp.WithDescription("Read one recipe as YAML, including ingredients and visibility flags."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id")),
	), s.readRecipe)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List recipe ids and titles. Without an audience the whole corpus is listed."),
		mcp.WithString("audience", mcp.Description("Optional audience filter: public or enterprise")),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("resolve_reference",
		mcp.WithDescription("Resolve an ingredient reference label to the recipe it points at. "+
			"Reports whether the match is direct or only a weak suggestion."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Reference label text (without the marker)")),
	), s.resolveReference)

	s.mcp.AddTool(mcp.NewTool("propagate_visibility",
		mcp.WithDescription("Set a visibility flag on the seed recipes and every recipe connected "+
			"to them through ingredient references. Returns the updated and related id lists."),
		mcp.WithString("seeds", mcp.Required(), mcp.Description("Comma-separated seed recipe ids")),
		mcp.WithString("audience", mcp.Required(), mcp.Description("Audience to change: public or enterprise")),
		mcp.WithBoolean("value", mcp.Required(), mcp.Description("Target flag value")),
	), s.propagateVisibility)

	s.mcp.AddTool(mcp.NewTool("get_recipe_contract",
		mcp.WithDescription("Returns the canonical Larder recipe format contract. "+
			"Call this before authoring recipe files to ensure correct structure."),
	), s.getRecipeContract)

	// Resource: recipe format contract.
	s.mcp.AddResource(
		mcp.NewResource("larder://recipe-format", "Recipe Format Contract",
			mcp.WithResourceDescription("Canonical YAML recipe format that all corpus files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecipeFormatResource,
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

func (s *Server) searchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recipe, err := s.db.GetRecipe(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	data, err := parser.Encode(recipe)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := store.Scope{All: true}
	if a, err := req.RequireString("audience"); err == nil && a != "" {
		audience, err := models.ParseAudience(a)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		scope = store.Scope{Audience: audience}
	}

	recipes, err := s.db.ListRecipes(ctx, scope)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, r := range recipes {
		lines = append(lines, fmt.Sprintf("%s\t%s", r.ID, r.Title))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) resolveReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resolutions, err := s.resolver.Resolve(ctx, []string{label}, store.Scope{All: true})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(resolutions[label], "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) propagateVisibility(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seeds, err := req.RequireString("seeds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	audienceArg, err := req.RequireString("audience")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireBool("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	audience, err := models.ParseAudience(audienceArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.propagator.Propagate(ctx, visibility.Request{
		SeedIDs:  strings.Split(seeds, ","),
		Audience: audience,
		Value:    value,
	})
	if err != nil {
		// A partial result is still worth reporting alongside the failure.
		out, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultError(fmt.Sprintf("%v\n%s", err, out)), nil
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecipeContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecipeFormatContract), nil
}

func (s *Server) readRecipeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "larder://recipe-format",
			MIMEType: "text/markdown",
			Text:     RecipeFormatContract,
		},
	}, nil
}
