package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FayezBast/jarvis/internal/core"
	"github.com/FayezBast/jarvis/internal/db"
	"github.com/FayezBast/jarvis/internal/memory"
)

// REPL is the interactive command loop. Built-ins (logs, facts, exit,
// quit) are handled locally; everything else, help included, goes to
// the core.
type REPL struct {
	core     *core.Core
	database *db.DB
	memory   *memory.Store
	in       io.Reader
	out      io.Writer
}

// NewREPL creates the interactive interface.
func NewREPL(c *core.Core, database *db.DB, mem *memory.Store) *REPL {
	return &REPL{
		core:     c,
		database: database,
		memory:   mem,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Start runs the interactive loop until exit or EOF.
func (r *REPL) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "JARVIS - personal assistant")
	fmt.Fprintln(r.out, "Type 'help' for examples, 'exit' to quit")
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		input, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		switch input {
		case "exit", "quit":
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case "logs":
			r.showLogs()
			continue
		case "facts":
			fmt.Fprintln(r.out, r.processBuiltinFacts())
			continue
		}

		response := r.core.ProcessCommand(ctx, input)
		fmt.Fprintf(r.out, "%s\n\n", response)
	}
}

// ExecuteNonInteractive runs a single command and prints the response.
func (r *REPL) ExecuteNonInteractive(ctx context.Context, command string) {
	fmt.Fprintln(r.out, r.core.ProcessCommand(ctx, command))
}

func (r *REPL) processBuiltinFacts() string {
	facts, err := r.memory.Facts()
	if err != nil {
		return fmt.Sprintf("Failed to read facts: %v", err)
	}
	if len(facts) == 0 {
		return "No stored facts yet."
	}
	var b strings.Builder
	for _, f := range facts {
		fmt.Fprintf(&b, "- %s: %s\n", f.Type, f.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *REPL) showLogs() {
	rows, err := r.database.Conn().Query(`
		SELECT input, intent, action, confidence, method, status, duration_ms
		FROM analysis_logs ORDER BY ts DESC LIMIT 20
	`)
	if err != nil {
		fmt.Fprintf(r.out, "Failed to query logs: %v\n", err)
		return
	}
	defer rows.Close()

	fmt.Fprintln(r.out, "\nRecent commands:")
	for rows.Next() {
		var input, intent, action, method, status string
		var confidence float64
		var duration *int64
		if err := rows.Scan(&input, &intent, &action, &confidence, &method, &status, &duration); err != nil {
			continue
		}
		durationStr := "n/a"
		if duration != nil {
			durationStr = fmt.Sprintf("%dms", *duration)
		}
		fmt.Fprintf(r.out, "• %q -> %s/%s (%.2f via %s, %s, %s)\n",
			input, intent, action, confidence, method, status, durationStr)
	}
	fmt.Fprintln(r.out)
}
