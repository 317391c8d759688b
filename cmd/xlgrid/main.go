// Command xlgrid builds an xlsx report from a YAML report definition and a
// YAML or JSON list of records.
//
//	xlgrid -report def.yaml -data records.json -out report.xlsx
//	xlgrid -report def.yaml -db scores.db -query "SELECT * FROM scores"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/javajack/xlgrid"
	"github.com/javajack/xlgrid/report"
	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("xlgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		defPath  = fs.String("report", "", "report definition (YAML or JSON)")
		dataPath = fs.String("data", "", "records (YAML or JSON list)")
		dbPath   = fs.String("db", "", "SQLite database to read records from")
		query    = fs.String("query", "", "SQL query selecting the records (with -db)")
		outPath  = fs.String("out", "report.xlsx", "output xlsx file")
		policy   = fs.String("merge-policy", "trailing", "merged border policy: trailing, oriented or leading")
		strict   = fs.Bool("strict", false, "fail on style keys the writer does not understand")
		show     = fs.Bool("show", false, "print every table as text")
		describe = fs.Bool("describe", false, "print the sheet layout and exit")
		validate = fs.Bool("validate", false, "check the layout and exit")
		verbose  = fs.Bool("v", false, "log progress to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *defPath == "" {
		fs.Usage()
		return fmt.Errorf("missing -report")
	}

	mp, err := xlgrid.ParseMergePolicy(*policy)
	if err != nil {
		return err
	}

	logger := ll.New("xlgrid").Handler(lh.NewTextHandler(stderr))
	if !*verbose {
		logger.Disable()
	}

	def, err := report.LoadDefinition(*defPath)
	if err != nil {
		return err
	}
	var records []map[string]any
	switch {
	case *dbPath != "":
		if *query == "" {
			return fmt.Errorf("-db needs -query")
		}
		if records, err = report.LoadSQLiteRecords(context.Background(), *dbPath, *query); err != nil {
			return err
		}
	case *dataPath != "":
		if records, err = report.LoadRecords(*dataPath); err != nil {
			return err
		}
	}
	logger.Infof("loaded %d records", len(records))

	sheet, err := report.Build(def, records)
	if err != nil {
		return err
	}

	if *describe {
		fmt.Fprint(stdout, xlgrid.Describe(sheet))
		return nil
	}

	issues := xlgrid.Validate(sheet)
	for _, is := range issues {
		fmt.Fprintln(stderr, is)
	}
	if *validate {
		if xlgrid.HasErrors(issues) {
			return fmt.Errorf("%d validation issues", len(issues))
		}
		return nil
	}

	if *show {
		for _, t := range sheet.Tables() {
			if err := t.Show(stdout); err != nil {
				return err
			}
		}
	}

	err = xlgrid.WriteFile(*outPath, []*xlgrid.Sheet{sheet},
		xlgrid.WithLogger(logger),
		xlgrid.WithMergePolicy(mp),
		xlgrid.WithStrictStyles(*strict),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", *outPath)
	return nil
}
