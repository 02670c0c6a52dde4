// Package mcp exposes the link validator as Model Context Protocol tools, so
// agents can inspect the URLs of a site and check its documents.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"

	"github.com/abdul-hamid-achik/validlink/internal/version"
)

// Server serves validlink tools over MCP.
type Server struct {
	workdir   string
	fs        afero.Fs
	mcpServer *server.MCPServer
}

// NewServer creates a server whose relative paths resolve against workdir.
func NewServer(workdir string) *Server {
	s := &Server{
		workdir: workdir,
		fs:      afero.NewOsFs(),
	}

	s.mcpServer = server.NewMCPServer(
		"validlink",
		version.GetVersion(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// ServeStdio serves requests on stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	projectArgs := []mcp.ToolOption{
		mcp.WithString("cwd",
			mcp.Description("Project directory, relative to the server working directory"),
		),
		mcp.WithString("config",
			mcp.Description("Path to a validlink config file (default: validlink.yaml in cwd)"),
		),
		mcp.WithString("preset",
			mcp.Description("Routing convention overriding the config"),
			mcp.Enum("next", "app-router", "astro", "nuxt", "waku", "tanstack-start", "react-router"),
		),
	}

	s.mcpServer.AddTool(mcp.NewTool("scan_urls", append([]mcp.ToolOption{
		mcp.WithDescription("List the URLs of a site, derived from its routing files and the populate settings of its config"),
	}, projectArgs...)...), s.handleScanURLs)

	s.mcpServer.AddTool(mcp.NewTool("validate_links", append([]mcp.ToolOption{
		mcp.WithDescription("Check the links of the site's Markdown and MDX documents and report invalid ones with their position"),
		mcp.WithString("files",
			mcp.Description("Comma-separated glob patterns of documents to check, replacing the configured files"),
		),
		mcp.WithBoolean("check_external",
			mcp.Description("Send a HEAD request to every external link"),
		),
	}, projectArgs...)...), s.handleValidateLinks)

	s.mcpServer.AddTool(mcp.NewTool("project_info", append([]mcp.ToolOption{
		mcp.WithDescription("Show the resolved validlink configuration of a project"),
	}, projectArgs...)...), s.handleProjectInfo)

	s.mcpServer.AddTool(mcp.NewTool("document_headings",
		mcp.WithDescription("List the headings of a Markdown document with their fragment ids"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Document path, relative to the server working directory"),
		),
	), s.handleDocumentHeadings)
}
