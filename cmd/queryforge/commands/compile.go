package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/queryforge/queryforge/internal/ast"
	"github.com/queryforge/queryforge/internal/dispatch"
	"github.com/queryforge/queryforge/internal/sqlemitter"
)

// compileCommand emits a full SELECT statement for a table + query
// string, with no relation embedding (the schema cache a live embed
// needs is an external collaborator per spec.md §1).
func (a *App) compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile a table and PostgREST-style query string into SQL",
		ArgsUsage: "<table> <query-string>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("expected exactly two arguments: <table> <query-string>")
			}
			table := cmd.Args().Get(0)
			qs := cmd.Args().Get(1)

			params, err := parseQueryString(qs)
			if err != nil {
				log.Error("parse failed", "error", err)
				return err
			}

			result, err := sqlemitter.Emit(table, params)
			if err != nil {
				log.Error("emit failed", "error", err)
				return err
			}

			return printResult(result)
		},
	}
}

func (a *App) filterClauseCommand() *cli.Command {
	return &cli.Command{
		Name:      "filter-clause",
		Usage:     "compile a PostgREST-style query string into a bare WHERE body",
		ArgsUsage: "<query-string>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one argument: <query-string>")
			}

			params, err := parseQueryString(cmd.Args().Get(0))
			if err != nil {
				log.Error("parse failed", "error", err)
				return err
			}

			result, err := sqlemitter.EmitFilterClause(params)
			if err != nil {
				log.Error("emit failed", "error", err)
				return err
			}

			enc, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}

func parseQueryString(qs string) (*ast.ParsedParams, error) {
	return dispatch.Parse(qs)
}

func printResult(result *sqlemitter.Result) error {
	enc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}
