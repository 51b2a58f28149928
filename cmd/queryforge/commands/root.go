// Package commands provides the CLI command definitions for queryforge.
package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// App holds the shared application state across subcommands.
type App struct {
	Version string
	Commit  string
	Date    string
}

// New creates the root CLI command with all subcommands.
func New(version, commit, date string) *cli.Command {
	app := &App{Version: version, Commit: commit, Date: date}

	return &cli.Command{
		Name:  "queryforge",
		Usage: "compile PostgREST-style query strings into parameterized SQL",
		Description: `queryforge translates a table name plus a PostgREST-style query
string into a parameterized PostgreSQL SELECT statement.

   Use 'queryforge compile' to emit full SELECT statements, or
   'queryforge filter-clause' to emit just a WHERE-body for
   subscription-style filters.`,
		Version: version,
		Commands: []*cli.Command{
			app.compileCommand(),
			app.filterClauseCommand(),
			app.versionCommand(),
		},
	}
}

func (a *App) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "show version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Printf("%s version %s\n", logoStyle.Render("queryforge"), a.Version)
			fmt.Printf("  commit: %s\n", mutedStyle.Render(a.Commit))
			fmt.Printf("  built:  %s\n", mutedStyle.Render(a.Date))
			return nil
		},
	}
}
