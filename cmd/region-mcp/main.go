package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/region-tools-mcp/internal/config"
	"github.com/ironsheep/region-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("region-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("region-tools-mcp - MCP server for boundary-encoded mask regions")
			fmt.Println()
			fmt.Println("Usage: region-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  REGION_MCP_LOG_LEVEL=debug   Log every tool call to stderr")
			fmt.Println("  REGION_MCP_CONFIG=<file>     YAML file overriding tool defaults")
			fmt.Println("                               (threshold, tolerance, min_pixels, max_pixels)")
			fmt.Println()
			fmt.Println("Tools: region_info, region_contains, region_adjacent,")
			fmt.Println("       region_to_mask, region_components")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s (try --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("REGION_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Region MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	defaults := config.Default()
	if path := os.Getenv("REGION_MCP_CONFIG"); path != "" {
		d, err := config.Load(path)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		defaults = d
		if debug {
			log.Printf("Loaded tool defaults from %s: %+v", path, defaults)
		}
	}

	srv := server.New(server.Config{
		Debug:    debug,
		Version:  Version,
		Defaults: defaults,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
