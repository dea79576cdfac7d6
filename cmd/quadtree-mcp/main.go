package main

import (
	"fmt"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/ironsheep/quadtree-tools/internal/server"
	"github.com/segmentio/encoding/json"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("quadtree-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("quadtree-mcp - MCP server for quadtree image compression and edge detection")
			fmt.Println()
			fmt.Println("Usage: quadtree-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  QUADTREE_LOG_LEVEL=debug    Log level (debug, info, warning, error)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Logs go to stderr; stdout is for the MCP protocol.
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal
	logs.SetLogger(func(e logs.Entry) {
		fmt.Fprintln(os.Stderr, e)
	})

	logLevel := os.Getenv("QUADTREE_LOG_LEVEL")
	if logLevel == "" {
		logLevel = logs.InfoLevel.String()
	}
	logs.SetLevel(logs.ParseLevel(logLevel))

	logs.WithTag("version", Version).
		WithTag("build_time", BuildTime).
		WithTag("git_commit", GitCommit).
		Debug("starting quadtree MCP server")

	srv := server.New(Version)
	if err := srv.Run(); err != nil {
		logs.Fatal(err)
	}
}
