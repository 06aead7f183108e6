// Package rebuild regenerates the tag index by running the external indexer
// over the configured source folders, debouncing bursts of save events.
package rebuild

import (
	"context"
	"os/exec"
	"strings"
)

const DefaultIndexer = "ctags"

// Command is one indexer invocation rooted at Dir.
type Command struct {
	Dir  string
	Name string
	Args []string
}

// BuildCommand assembles a recursive index run over dirs. The tag file is
// only named explicitly when it differs from the indexer default.
func BuildCommand(indexer, folder, tagFile string, dirs []string) Command {
	if indexer == "" {
		indexer = DefaultIndexer
	}
	args := []string{"-R", "--fields=n"}
	if tagFile != "" && tagFile != "tags" {
		args = append(args, "-f", tagFile)
	}
	args = append(args, dirs...)
	return Command{Dir: folder, Name: indexer, Args: args}
}

// String renders the command the way a shell would run it.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString("cd ")
	b.WriteString(c.Dir)
	b.WriteString("; ")
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	return b.String()
}

// Runner executes an indexer command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes with output discarded.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	return c.Run()
}
