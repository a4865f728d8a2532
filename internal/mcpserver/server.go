// Package mcpserver exposes a session as MCP tools over stdio, so an agent
// can browse the backend with the same cd/list commands as the shell.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/restcli/internal/session"
)

const instructions = `restcli presents a REST backend as a directory tree.
Use "list" to print the records under the current directory and "cd" to move.
Paths are slash separated; ".." moves up. Use "refresh" to fetch fresh data.`

type Server struct {
	mcpServer *server.MCPServer
	session   *session.Session
}

func NewServer(sess *session.Session, version string) *Server {
	s := &Server{session: sess}
	s.mcpServer = server.NewMCPServer(
		"restcli",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("cd",
			mcp.WithDescription("Change the current directory. Accepts '..', absolute paths starting with '/', or paths relative to the current directory. Returns the new directory."),
			mcp.WithString("path",
				mcp.Description("Target directory"),
				mcp.Required(),
			),
		),
		s.handleCd,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("list",
			mcp.WithDescription("List the records under the current directory as an indented tree."),
		),
		s.handleList,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("refresh",
			mcp.WithDescription("Fetch all endpoints again, expanding entities under the current directory."),
		),
		s.handleRefresh,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Show the current directory, record count and lazy expansion state."),
		),
		s.handleStatus,
	)
}

// MCPServer returns the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) handleCd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	if err := s.session.ChangeDirectory(ctx, path); err != nil {
		if errors.Is(err, session.ErrNoSuchPath) {
			return mcp.NewToolResultError(fmt.Sprintf("no such path: %s", path)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("request backend failed: %v", err)), nil
	}
	return mcp.NewToolResultText(s.session.Cursor()), nil
}

func (s *Server) handleList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.session.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleRefresh(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.Refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("request backend failed: %v", err)), nil
	}
	return mcp.NewToolResultText(s.session.Status().String()), nil
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.session.Status().String()), nil
}
