package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/service/debate"
	"github.com/sandevgo/verdictbot/pkg/log"
)

// Server exposes the debate surface over MCP stdio: ask drives a turn,
// get_participants reads the scoreboard. Sessions are created lazily on
// first ask.
type Server struct {
	svc *debate.Service
	mcp *server.MCPServer
}

func NewServer(svc *debate.Service) *Server {
	s := &Server{
		svc: svc,
		mcp: server.NewMCPServer(core.BotName, core.BotVersion),
	}

	askTool := mcpproto.NewTool("ask",
		mcpproto.WithDescription("Send one utterance of a debate to the judge. Returns the response envelope as JSON."),
		mcpproto.WithString("session_id", mcpproto.Required(), mcpproto.Description("Opaque session identifier chosen by the caller")),
		mcpproto.WithString("prompt", mcpproto.Required(), mcpproto.Description("The utterance to process")),
	)
	s.mcp.AddTool(askTool, s.handleAsk)

	participantsTool := mcpproto.NewTool("get_participants",
		mcpproto.WithDescription("Read-only scoreboard snapshot for a session."),
		mcpproto.WithString("session_id", mcpproto.Required(), mcpproto.Description("Opaque session identifier chosen by the caller")),
	)
	s.mcp.AddTool(participantsTool, s.handleGetParticipants)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp server on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) handleAsk(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	if err := s.svc.Setup(ctx, id); err != nil && !errors.Is(err, core.ErrDuplicateSession) {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	env, err := s.svc.Turn(ctx, id, prompt)
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return mcpproto.NewToolResultText(string(payload)), nil
}

func (s *Server) handleGetParticipants(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	participants, err := s.svc.Participants(ctx, id)
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(participants)
	if err != nil {
		return nil, fmt.Errorf("marshal participants: %w", err)
	}
	return mcpproto.NewToolResultText(string(payload)), nil
}
