package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// printJSON writes a value to stdout as indented JSON
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// output prints a value in the configured format: JSON, or the given text
// rendering for text mode
func output(v any, text func()) {
	if cfg.Output == "json" {
		printJSON(v)
		return
	}
	text()
}

// errorf prints an error message to stderr
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
