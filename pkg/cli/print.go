package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/getmockd/wirecheck/pkg/verify"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// printResult outputs a single operation result.
//
// When --json is active, ONLY the JSON encoding of data is written to w.
// textFn is called only in text mode.
func printResult(w io.Writer, data any, textFn func()) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	textFn()
	return nil
}

// printSummary renders per-stub hit counts, the requests no stub served,
// and a PASS/FAIL line.
func printSummary(w io.Writer, s verify.Summary) error {
	return printResult(w, summaryJSON{Summary: s, Passed: s.Passed()}, func() {
		if len(s.Stubs) > 0 {
			table := tablewriter.NewWriter(w)
			table.Header("Stub ID", "Name", "Hits")
			for _, h := range s.Stubs {
				hits := strconv.Itoa(h.Count)
				if h.Count == 0 {
					hits = failColor.Sprint(hits)
				}
				_ = table.Append([]string{h.ID, h.Name, hits})
			}
			_ = table.Render()
		}

		if len(s.Unmatched) > 0 {
			fmt.Fprintln(w)
			warnColor.Fprintf(w, "Unexpected requests (%d):\n", len(s.Unmatched))
			for _, u := range s.Unmatched {
				fmt.Fprintf(w, "  %s %s\n", u.Method, u.URL)
			}
		}

		fmt.Fprintln(w)
		if s.Passed() {
			passColor.Fprint(w, "PASS")
		} else {
			failColor.Fprint(w, "FAIL")
		}
		fmt.Fprintf(w, " %d stub(s), %d unused, %d request(s), %d unexpected\n",
			len(s.Stubs), s.Unused(), s.Requests, len(s.Unmatched))
	})
}

type summaryJSON struct {
	verify.Summary
	Passed bool `json:"passed"`
}
