package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all numerics tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("numerics", "1.0.0")
	h := NewHandlers(cfg, NewAPIClient(cfg))

	s.AddTool(ToolFormatNumber, h.HandleFormatNumber)
	s.AddTool(ToolConvertNumber, h.HandleConvertNumber)
	s.AddTool(ToolFilterNumber, h.HandleFilterNumber)
	s.AddTool(ToolLocaleInfo, h.HandleLocaleInfo)
	s.AddTool(ToolFormatTemplate, h.HandleFormatTemplate)
	s.AddTool(ToolListPresets, h.HandleListPresets)
	s.AddTool(ToolFormatWithPreset, h.HandleFormatWithPreset)

	return s
}
