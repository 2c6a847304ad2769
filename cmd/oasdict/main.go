package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasdict"
	"github.com/erraggy/oasdict/cmd/oasdict/commands"
	"github.com/erraggy/oasdict/internal/mcpserver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasdict v%s\n%s\n", oasdict.Version(), oasdict.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "dict":
		if err := commands.HandleDict(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "errors":
		if err := commands.HandleErrors(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "batch":
		if err := commands.HandleBatch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := mcpserver.Run(ctx)
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("oasdict v%s - OpenAPI data dictionary generator\n\n", oasdict.Version())
	fmt.Println("Usage: oasdict <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  dict      Flatten an OpenAPI document into a data dictionary (CSV or XLSX)")
	fmt.Println("  errors    Summarize the HTTP error surface of an OpenAPI document")
	fmt.Println("  batch     Build dictionaries for many documents into one workbook")
	fmt.Println("  mcp       Serve dict and errors as MCP tools over stdio")
	fmt.Println("  version   Show version information")
	fmt.Println("  help      Show this help message")
	fmt.Println()
	fmt.Println("Run 'oasdict <command> -h' for command-specific flags.")
}
