package config

import (
	"flag"
	"os"
)

// parses CLI flags for the docs subcommand
func ParseDocsFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("docs", flag.ExitOnError)
	path := fs.String("path", "./docs/health", "path to document directory")
	clearFlag := fs.Bool("clear", false, "clear existing chunks before ingesting")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Path: *path, Clear: *clearFlag}
}

// returns default flags for docs ingestion
func DefaultDocsFlags() Flags {
	return Flags{Path: "./docs/health", Clear: false}
}
