// Package mcp exposes catalog lookups and structured-data generation to
// MCP clients over stdio.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
)

type Server struct {
	site domain.Business
	cat  *catalog.Catalog
	mcp  *sdk.Server
}

func NewServer(site domain.Business, c *catalog.Catalog, version string) *Server {
	s := &Server{
		site: site,
		cat:  c,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "essex-sitegen",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// RunStdio serves on stdin/stdout until ctx is done or the client leaves.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &sdk.StdioTransport{})
}
