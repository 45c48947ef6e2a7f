// Numerics MCP Server - Exposes the number formatting engine as MCP tools for LLMs
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mbd888/numerics/internal/mcpserver"
	"github.com/mbd888/numerics/pkg/locale"
)

func main() {
	_ = godotenv.Load()

	cfg := mcpserver.Config{
		DefaultLocale:   envOrDefault("DEFAULT_LOCALE", locale.Canonical),
		DefaultCurrency: strings.ToUpper(envOrDefault("DEFAULT_CURRENCY", locale.DefaultCurrency)),
		APIURL:          os.Getenv("NUMERICS_API_URL"),
		APIKey:          os.Getenv("NUMERICS_API_KEY"),
	}

	if _, err := locale.Parse(cfg.DefaultLocale); err != nil {
		fmt.Fprintf(os.Stderr, "DEFAULT_LOCALE: %v\n", err)
		os.Exit(1)
	}
	if _, err := locale.ParseCurrency(cfg.DefaultCurrency); err != nil {
		fmt.Fprintf(os.Stderr, "DEFAULT_CURRENCY: %v\n", err)
		os.Exit(1)
	}

	s := mcpserver.NewMCPServer(cfg)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
