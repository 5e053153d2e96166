package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Command is one devtool subcommand. Run receives the arguments after the command name
// and a context that is cancelled on interrupt.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, args []string) error
}

// errUsage means the invocation itself was wrong and help should be shown
var errUsage = errors.New("usage")

// Registry dispatches devtool invocations to commands, listed in registration order
type Registry struct {
	order  []Command
	byName map[string]Command
}

// NewRegistry creates a registry holding cmds
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{byName: make(map[string]Command, len(cmds))}
	for _, cmd := range cmds {
		r.Register(cmd)
	}
	return r
}

// Register adds a command; a later command with the same name replaces the earlier one
func (r *Registry) Register(cmd Command) {
	if _, exists := r.byName[cmd.Name()]; !exists {
		r.order = append(r.order, cmd)
	} else {
		for i, c := range r.order {
			if c.Name() == cmd.Name() {
				r.order[i] = cmd
			}
		}
	}
	r.byName[cmd.Name()] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// List returns the commands in registration order
func (r *Registry) List() []Command {
	return append([]Command(nil), r.order...)
}

// Dispatch runs the command named by args[0] and returns the process exit code
func (r *Registry) Dispatch(ctx context.Context, args []string, out io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		r.WriteHelp(out)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := r.Get(args[0])
	if !ok {
		PrintError("Unknown command: %s", args[0])
		r.WriteHelp(out)
		return 2
	}

	if err := cmd.Run(ctx, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			PrintError("%v", err)
			return 2
		}
		if ctx.Err() != nil {
			PrintWarning("%s interrupted", cmd.Name())
			return 130
		}
		PrintError("%s failed: %v", cmd.Name(), err)
		return 1
	}
	return 0
}

// WriteHelp writes the usage summary to out
func (r *Registry) WriteHelp(out io.Writer) {
	width := 0
	for _, cmd := range r.order {
		width = max(width, len(cmd.Name()))
	}

	var b strings.Builder
	b.WriteString("Usage: devtool <command> [flags]\n\nCommands:\n")
	for _, cmd := range r.order {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, cmd.Name(), cmd.Description())
	}
	_, _ = io.WriteString(out, b.String())
}
