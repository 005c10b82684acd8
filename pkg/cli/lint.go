package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/getmockd/wirecheck/pkg/stub"
)

var lintCmd = &cobra.Command{
	Use:   "lint <path>...",
	Short: "Check stub files against the WireMock mapping schema",
	Long: `Check stub files against the WireMock mapping schema without contacting
the server. Paths are resolved like "load": a file, a directory or a glob,
relative to the stubs directory. Every problem in every file is reported.`,
	Example: `  wirecheck lint checkout "users/**/*.json"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := stub.NewLoader(cfg.StubsDir)

		var problems []lintProblem
		checked := 0
		for _, path := range args {
			files, err := loader.Load(path)
			if err != nil {
				return err
			}
			for _, f := range files {
				checked++
				problems = append(problems, lintFile(f)...)
			}
		}
		logger.Debug("linted stubs", "files", checked, "problems", len(problems))

		err := printResult(cmd.OutOrStdout(), map[string]any{"files": checked, "problems": problems}, func() {
			if len(problems) == 0 {
				passColor.Fprint(cmd.OutOrStdout(), "OK")
				fmt.Fprintf(cmd.OutOrStdout(), " %d stub file(s) checked\n", checked)
				return
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("File", "Location", "Problem")
			for _, p := range problems {
				_ = table.Append([]string{p.File, p.Location, p.Message})
			}
			_ = table.Render()
			failColor.Fprintf(cmd.OutOrStdout(), "%d problem(s)", len(problems))
			fmt.Fprintf(cmd.OutOrStdout(), " in %d stub file(s) checked\n", checked)
		})
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d stub problem(s) found", len(problems))}
		}
		return nil
	},
}

type lintProblem struct {
	File     string `json:"file"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

func lintFile(f stub.File) []lintProblem {
	name := f.Path
	if rel, err := filepath.Rel(cfg.StubsDir, f.Path); err == nil && !filepath.IsAbs(rel) && rel[0] != '.' {
		name = rel
	}

	err := stub.Validate(f.Data)
	if err == nil {
		return nil
	}
	var se *stub.SchemaError
	if !errors.As(err, &se) {
		return []lintProblem{{File: name, Location: "/", Message: err.Error()}}
	}
	problems := make([]lintProblem, 0, len(se.Violations))
	for _, v := range se.Violations {
		loc := v.Location
		if loc == "" {
			loc = "/"
		}
		problems = append(problems, lintProblem{File: name, Location: loc, Message: v.Message})
	}
	return problems
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
