// Package mcp exposes the fork-node store operations over the Model
// Context Protocol, so agent hosts can read and write branch links
// through the same narrow interface the CLI uses.
package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kokistudios/forkline/internal/forkgraph"
	"github.com/kokistudios/forkline/internal/store"
	"github.com/kokistudios/forkline/internal/transcript"
)

// Server wraps the MCP server with forkline's store.
type Server struct {
	store  *store.Store
	server *mcp.Server
}

// NewServer creates a new forkline MCP server.
func NewServer(st *store.Store, version string) *Server {
	s := &Server{store: st}

	impl := &mcp.Implementation{
		Name:    "forkline",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// Run starts the MCP server on stdio.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "fork_plan",
		Description: "Resolve the fork plan for branching a conversation at a turn: which fork group the " +
			"new branch joins and which indices the source and the new branch receive. Read-only; " +
			"use fork_record to persist the resulting nodes.",
	}, s.handlePlan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "fork_record",
		Description: "Record one fork node (one endpoint of a branch link). A fork action records two nodes: " +
			"one for the source conversation and one for the new conversation, both with the group and " +
			"indices returned by fork_plan. Returns added=false when the node already exists.",
	}, s.handleRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "fork_remove",
		Description: "Remove a recorded branch link. Returns removed=false when no matching node exists. " +
			"This prunes the link only; the linked conversation itself is untouched.",
	}, s.handleRemove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "fork_branches",
		Description: "List the deduplicated, ordered branch nodes related to a conversation, optionally " +
			"scoped to one turn. Position in the result is the 1-based branch number shown to users.",
	}, s.handleBranches)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "fork_transcript",
		Description: "Compose the seed input for a new branch: a markdown transcript of the turns up to " +
			"the fork point wrapped in a localized continuation preamble. The final turn's assistant " +
			"text is dropped unless keep_last_assistant is set.",
	}, s.handleTranscript)
}

// PlanArgs defines the input for fork_plan.
type PlanArgs struct {
	ConversationID string `json:"conversation_id" jsonschema:"The conversation being branched"`
	TurnID         string `json:"turn_id" jsonschema:"The turn where branching occurs (e.g. u-3)"`
}

func (s *Server) handlePlan(ctx context.Context, req *mcp.CallToolRequest, args PlanArgs) (*mcp.CallToolResult, any, error) {
	data, err := s.store.LoadForkNodes()
	if err != nil {
		return nil, nil, fmt.Errorf("fork plan failed: %w", err)
	}

	convNodes := data.Nodes[args.ConversationID]
	groups := forkgraph.GroupIndex(data.Nodes, convNodes)
	plan := forkgraph.ResolvePlan(args.ConversationID, args.TurnID, convNodes, groups, uuid.NewString)
	return nil, plan, nil
}

// RecordArgs defines the input for fork_record.
type RecordArgs struct {
	ConversationID    string `json:"conversation_id" jsonschema:"Conversation that owns this node"`
	TurnID            string `json:"turn_id" jsonschema:"Turn where branching occurred"`
	ForkGroupID       string `json:"fork_group_id" jsonschema:"Group id from fork_plan"`
	ForkIndex         int    `json:"fork_index" jsonschema:"Node position within the group (0 = source branch)"`
	CreatedAt         int64  `json:"created_at,omitempty" jsonschema:"Epoch millis; defaults to now"`
	ConversationURL   string `json:"conversation_url,omitempty" jsonschema:"Display metadata, not identity-bearing"`
	ConversationTitle string `json:"conversation_title,omitempty" jsonschema:"Display metadata, not identity-bearing"`
}

// RecordResult reports whether the node was newly added.
type RecordResult struct {
	Added bool `json:"added"`
}

func (s *Server) handleRecord(ctx context.Context, req *mcp.CallToolRequest, args RecordArgs) (*mcp.CallToolResult, any, error) {
	node := forkgraph.ForkNode{
		ConversationID:    args.ConversationID,
		TurnID:            args.TurnID,
		ForkGroupID:       args.ForkGroupID,
		ForkIndex:         args.ForkIndex,
		CreatedAt:         args.CreatedAt,
		ConversationURL:   args.ConversationURL,
		ConversationTitle: args.ConversationTitle,
	}
	if node.CreatedAt == 0 {
		node.CreatedAt = nowMillis()
	}

	added, err := s.store.AddForkNode(node)
	if err != nil {
		return nil, nil, fmt.Errorf("fork record failed: %w", err)
	}
	return nil, RecordResult{Added: added}, nil
}

// RemoveArgs defines the input for fork_remove.
type RemoveArgs struct {
	ConversationID string `json:"conversation_id" jsonschema:"Conversation that owns the node"`
	TurnID         string `json:"turn_id" jsonschema:"Turn of the recorded link"`
	ForkGroupID    string `json:"fork_group_id" jsonschema:"Group the link belongs to"`
}

// RemoveResult reports whether a matching node was removed.
type RemoveResult struct {
	Removed bool `json:"removed"`
}

func (s *Server) handleRemove(ctx context.Context, req *mcp.CallToolRequest, args RemoveArgs) (*mcp.CallToolResult, any, error) {
	removed, err := s.store.RemoveForkNode(args.ConversationID, args.TurnID, args.ForkGroupID)
	if err != nil {
		return nil, nil, fmt.Errorf("fork remove failed: %w", err)
	}
	return nil, RemoveResult{Removed: removed}, nil
}

// BranchesArgs defines the input for fork_branches.
type BranchesArgs struct {
	ConversationID string `json:"conversation_id" jsonschema:"Conversation whose branches to list"`
	TurnID         string `json:"turn_id,omitempty" jsonschema:"Restrict to groups anchored at this turn (optional)"`
}

// BranchesResult lists display branch nodes in order.
type BranchesResult struct {
	Branches []forkgraph.ForkNode `json:"branches"`
	Message  string               `json:"message,omitempty"`
}

func (s *Server) handleBranches(ctx context.Context, req *mcp.CallToolRequest, args BranchesArgs) (*mcp.CallToolResult, any, error) {
	data, err := s.store.LoadForkNodes()
	if err != nil {
		return nil, nil, fmt.Errorf("fork branches failed: %w", err)
	}

	nodes := forkgraph.DisplayForConversation(data, args.ConversationID, args.TurnID)
	out := BranchesResult{Branches: nodes}
	if len(nodes) == 0 {
		out.Message = "No branches recorded for this conversation."
	}
	return nil, out, nil
}

// TranscriptTurn is one exchange in the fork_transcript input.
type TranscriptTurn struct {
	TurnID    string `json:"turn_id,omitempty" jsonschema:"Stable turn id (optional)"`
	User      string `json:"user" jsonschema:"User message text"`
	Assistant string `json:"assistant,omitempty" jsonschema:"Assistant response text"`
}

// TranscriptArgs defines the input for fork_transcript.
type TranscriptArgs struct {
	Title             string           `json:"title,omitempty" jsonschema:"Conversation title for the heading"`
	Turns             []TranscriptTurn `json:"turns" jsonschema:"Ordered turns up to and including the fork point"`
	KeepLastAssistant bool             `json:"keep_last_assistant,omitempty" jsonschema:"Keep the final turn's assistant text instead of dropping it"`
	Language          string           `json:"language,omitempty" jsonschema:"Preamble locale hint (e.g. en, zh-CN); defaults to the configured language"`
}

// TranscriptResult carries the composed seed input.
type TranscriptResult struct {
	Input string `json:"input"`
}

func (s *Server) handleTranscript(ctx context.Context, req *mcp.CallToolRequest, args TranscriptArgs) (*mcp.CallToolResult, any, error) {
	turns := make([]transcript.Turn, len(args.Turns))
	for i, t := range args.Turns {
		turns[i] = transcript.Turn{TurnID: t.TurnID, User: t.User, Assistant: t.Assistant}
	}

	md := transcript.BuildMarkdown(args.Title, turns, !args.KeepLastAssistant)
	if md == "" {
		return nil, TranscriptResult{}, nil
	}

	lang := args.Language
	if lang == "" {
		lang = s.store.Config.Language
	}
	return nil, TranscriptResult{Input: transcript.ComposeWithContext(md, lang)}, nil
}
