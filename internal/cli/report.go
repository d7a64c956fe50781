package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/ruffel/shellmock"
	"github.com/ruffel/shellmock/internal/mockfile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.On, BetweenRows: tw.Off},
			},
			Symbols: tw.NewSymbolCustom("markdown").
				WithColumn("|").
				WithRow("-").
				WithCenter("|").
				WithHeaderMid("-").
				WithTopMid("-").
				WithBottomMid("-"),
		}),
	)
}

// writeReport prints the intercepted calls of res followed by a summary line.
func writeReport(w io.Writer, res *shellmock.Result) error {
	p := message.NewPrinter(language.English)

	if len(res.Calls) > 0 {
		table := newTable(w)
		table.Header("#", "Command", "Args", "Code")

		for i, call := range res.Calls {
			_ = table.Append(strconv.Itoa(i+1), call.Cmd, quoteArgs(call.Args), strconv.Itoa(call.Output.Code))
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
	}

	_, err := p.Fprintf(w, "%d intercepted calls in %dms\n", len(res.Calls), res.Duration.Milliseconds())

	return err
}

// writeMockTable lists the mocks of every file in paths order.
func writeMockTable(w io.Writer, paths []string, files map[string]*mockfile.File) error {
	table := newTable(w)
	table.Header("File", "Command", "Responses", "Codes")

	for _, path := range paths {
		f := files[path]

		for _, name := range slices.Sorted(maps.Keys(f.Mocks)) {
			entry := f.Mocks[name]

			responses := entry.Responses
			if len(responses) == 0 {
				responses = []mockfile.Response{entry.Response}
			}

			codes := make([]string, 0, len(responses))
			for _, r := range responses {
				codes = append(codes, strconv.Itoa(r.Code))
			}

			_ = table.Append(path, name, strconv.Itoa(len(responses)), strings.Join(codes, ","))
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render mock table: %w", err)
	}

	return nil
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))

	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'") {
			quoted[i] = strconv.Quote(arg)
		} else {
			quoted[i] = arg
		}
	}

	return strings.Join(quoted, " ")
}
