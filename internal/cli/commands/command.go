package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"ImageLibrary/internal/config"

	"go.uber.org/zap"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "sync".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "show <id>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// Log — логгер команд; main заменяет его через SetLogger.
var Log = zap.NewNop().Sugar()

// SetLogger sets the logger used by commands and the services they build.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		Log = l
	}
}

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// helpSections группирует команды в общей справке; порядок внутри раздела — порядок работы.
var helpSections = []struct {
	title string
	names []string
}{
	{"Working set", []string{"load", "list", "show", "stats"}},
	{"Changes (pushed by sync)", []string{"stage", "edit", "delete", "restore"}},
	{"Sync", []string{"sync"}},
	{"Backend catalog", []string{"categories", "tags", "tag-add", "products", "links"}},
	{"Settings, export, API", []string{"settings", "export", "serve"}},
}

// FormatGlobalUsage builds the help text: sections first, then any command
// that no section names.
func FormatGlobalUsage() string {
	lines := []string{
		"ImageLibrary CLI",
		"",
		"Usage:",
		"  ilcli [--base-url <host:port>|URL] [--apps A,B] <command> [args]",
	}
	listed := map[string]bool{}
	section := func(title string, cmds []Command) {
		if len(cmds) == 0 {
			return
		}
		lines = append(lines, "", title+":")
		for _, c := range cmds {
			listed[c.Name()] = true
			lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
		}
	}
	for _, s := range helpSections {
		var cmds []Command
		for _, n := range s.names {
			if c, ok := Get(n); ok {
				cmds = append(cmds, c)
			}
		}
		section(s.title, cmds)
	}
	var rest []Command
	for _, c := range List() {
		if !listed[c.Name()] {
			rest = append(rest, c)
		}
	}
	section("Other", rest)
	lines = append(lines, "",
		"Staged images get negative ids until sync assigns backend ids.",
		"Run 'ilcli help <command>' for command usage.")
	return strings.Join(lines, "\n") + "\n"
}
