package mcpserver

import (
	"os"
	"strconv"
)

// serverConfig holds configurable MCP server defaults.
// Loaded once at startup from OASDICT_* environment variables.
type serverConfig struct {
	// RowLimit is the default page size for dictionary rows.
	RowLimit int
	// MaxLimit caps any client-requested page size.
	MaxLimit int
	// MaxDepth is the default schema nesting depth guard (0 keeps the
	// dictionary package default).
	MaxDepth int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

func loadConfig() *serverConfig {
	return &serverConfig{
		RowLimit: envInt("OASDICT_ROW_LIMIT", 200),
		MaxLimit: envInt("OASDICT_MAX_LIMIT", 1000),
		MaxDepth: envInt("OASDICT_MAX_DEPTH", 0),
	}
}

// envInt reads a non-negative integer from the environment, falling back on
// missing or invalid values.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
