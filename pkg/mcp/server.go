package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/duynguyendang/formalmath/internal/manager"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

// MCPServer exposes formal system verification via MCP.
type MCPServer struct {
	manager *manager.SystemManager
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, mgr *manager.SystemManager) error {
	s := server.NewMCPServer(
		"Formalmath-Checker",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{manager: mgr}

	// --- Resources ---

	// Resource: Available Systems
	s.AddResource(
		mcp.NewResource(
			"formalmath://systems",
			"Formal Systems",
			mcp.WithResourceDescription("The formal system databases available for verification"),
			mcp.WithMIMEType("application/json"),
		),
		ms.handleSystemList,
	)

	// --- Tools ---

	// Tool: Verify Theorem
	s.AddTool(
		mcp.NewTool(
			"verify_theorem",
			mcp.WithDescription("Replay a theorem's proof script against its formal system's axioms and report the verdict."),
			mcp.WithString("system", mcp.Required(), mcp.Description("The formal system ID")),
			mcp.WithString("theorem", mcp.Required(), mcp.Description("The theorem label to verify")),
			mcp.WithBoolean("detailed", mcp.Description("Include the full step-by-step trace")),
		),
		ms.handleVerifyTheorem,
	)

	// Tool: List Assertions
	s.AddTool(
		mcp.NewTool(
			"list_assertions",
			mcp.WithDescription("List the axioms and theorems of a formal system in declaration order."),
			mcp.WithString("system", mcp.Required(), mcp.Description("The formal system ID")),
		),
		ms.handleListAssertions,
	)

	// Tool: Search Labels
	s.AddTool(
		mcp.NewTool(
			"search_labels",
			mcp.WithDescription("Find assertion labels similar to a query string."),
			mcp.WithString("system", mcp.Required(), mcp.Description("The formal system ID")),
			mcp.WithString("query", mcp.Required(), mcp.Description("The search query string")),
		),
		ms.handleSearchLabels,
	)

	// Start the server on Stdio
	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

// --- Resource Handlers ---

func (ms *MCPServer) handleSystemList(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	systems, err := ms.manager.ListSystems()
	if err != nil {
		return nil, fmt.Errorf("failed to list systems: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(systems, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal systems: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// --- Tool Handlers ---

func (ms *MCPServer) handleVerifyTheorem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	systemID, ok := args["system"].(string)
	if !ok {
		return mcp.NewToolResultError("system argument required"), nil
	}
	theorem, ok := args["theorem"].(string)
	if !ok {
		return mcp.NewToolResultError("theorem argument required"), nil
	}
	detailed, _ := args["detailed"].(bool)

	sys, err := ms.manager.GetSystem(systemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("system not available: %v", err)), nil
	}

	result, err := sys.Verify(theorem, detailed)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("verification failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Theorem %s verified in %d steps, conclusion: %s", result.Theorem, result.Steps, result.Conclusion)
	if detailed {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(result.TraceStrings(), "\n"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (ms *MCPServer) handleListAssertions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	systemID, ok := args["system"].(string)
	if !ok {
		return mcp.NewToolResultError("system argument required"), nil
	}

	sys, err := ms.manager.GetSystem(systemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("system not available: %v", err)), nil
	}

	var formatted []string
	for _, label := range sys.Axioms() {
		a, err := sys.Assertion(label)
		if err != nil {
			continue
		}
		formatted = append(formatted, fmt.Sprintf("axiom %s: %s", label, a.Conclusion()))
	}
	for _, label := range sys.Theorems() {
		a, err := sys.Assertion(label)
		if err != nil {
			continue
		}
		formatted = append(formatted, fmt.Sprintf("theorem %s: %s", label, a.Conclusion()))
	}

	if len(formatted) == 0 {
		return mcp.NewToolResultText("No assertions found."), nil
	}
	return mcp.NewToolResultText(strings.Join(formatted, "\n")), nil
}

func (ms *MCPServer) handleSearchLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	systemID, ok := args["system"].(string)
	if !ok {
		return mcp.NewToolResultError("system argument required"), nil
	}
	query, ok := args["query"].(string)
	if !ok {
		return mcp.NewToolResultError("query argument required"), nil
	}

	sys, err := ms.manager.GetSystem(systemID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("system not available: %v", err)), nil
	}

	results := proof.Suggest(query, sys.Labels())
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching labels."), nil
	}
	return mcp.NewToolResultText(strings.Join(results, "\n")), nil
}
