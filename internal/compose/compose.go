// Package compose knows how to talk to docker compose: it builds argument
// vectors for the compose CLI and reads the project's compose file to
// validate what the recipes reference.
package compose

import (
	"strings"

	"github.com/dvoss/devrig/internal/shell"
)

// Client builds docker compose invocations for a single project.
type Client struct {
	// Binary overrides the compose entrypoint. Empty means "docker compose".
	Binary string
	// File is the compose file path passed via -f. Empty lets compose use
	// its own lookup rules.
	File string
	// ProjectName is passed via -p when set.
	ProjectName string
}

// Command assembles a shell.Command for a compose subcommand, e.g.
// Command("run", "--rm", "app", "flake8").
func (c *Client) Command(args ...string) shell.Command {
	name := "docker"
	base := []string{"compose"}

	if c.Binary != "" {
		// A single-word override ("podman-compose") replaces the whole
		// entrypoint; a multi-word one ("docker compose") is split.
		parts := strings.Fields(c.Binary)
		name = parts[0]
		base = parts[1:]
	}

	if c.File != "" {
		base = append(base, "-f", c.File)
	}
	if c.ProjectName != "" {
		base = append(base, "-p", c.ProjectName)
	}

	return shell.Command{Name: name, Args: append(base, args...)}
}
