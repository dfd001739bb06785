// Command racectl queries the race sheet from the terminal. It reads the
// source directly on every run; no server or database is involved.
//
// Usage:
//
//	racectl --source races.xlsx list --status scheduled
//	racectl --source https://example.com/pub?output=csv show 42 -o json
//	racectl stats "City Marathon"      # source from SOURCE_URL / SOURCE_FILE
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
