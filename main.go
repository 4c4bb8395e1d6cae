package main

import (
	"log/slog"
	"os"

	"github.com/dtnitsch/stealth-fetch-mcp/internal/fetch"
)

func main() {
	if err := fetch.NewApp().Run(os.Args); err != nil {
		slog.Error("stealth-fetch-mcp failed", "error", err)
		os.Exit(1)
	}
}
