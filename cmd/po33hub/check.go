package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/satindergrewal/po33hub/internal/sample"
)

var errCheckFailed = errors.New("one or more samples failed validation")

type checkResult struct {
	path   string
	format string
	length float64
	err    error
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate local pack sample recordings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]checkResult, 0, len(args))
			failed := false
			for _, path := range args {
				res := a.checkFile(path)
				if res.err != nil {
					failed = true
				}
				results = append(results, res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderResults(results))
			if failed {
				return errCheckFailed
			}
			return nil
		},
	}
}

func (a *app) checkFile(path string) checkResult {
	res := checkResult{path: path}
	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	format, err := a.validator.Load(f)
	if err != nil {
		res.err = err
		return res
	}
	res.format = format.Name
	res.length = format.Length
	res.err = sample.ValidateLength(format.Length)

	a.logger.Debug("sample checked", "path", path, "format", format.Name, "length", format.Length, "ok", res.err == nil)
	return res
}

func renderResults(results []checkResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Format", "Length", "Result"})
	for _, res := range results {
		length := "-"
		if res.format != "" {
			length = formatLength(res.length)
		}
		format := res.format
		if format == "" {
			format = "-"
		}
		result := "ok"
		if res.err != nil {
			result = res.err.Error()
		}
		tw.AppendRow(table.Row{filepath.Base(res.path), format, length, result})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// formatLength renders seconds as m:ss.mmm.
func formatLength(seconds float64) string {
	ms := int64(seconds*1000 + 0.5)
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
