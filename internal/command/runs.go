package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/docketops/packetsplit/internal/catalog"
)

func newRunsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "list recorded split runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "catalog database `FILE` (default ~/.packetsplit/catalog.db)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "number of runs to show (0 means all)",
			},
			&cli.Int64Flag{
				Name:  "id",
				Usage: "show the documents written by one run",
			},
		},
		Action: runsAction,
	}
}

func runsAction(c *cli.Context) error {
	path := c.String("catalog")
	if path == "" {
		var err error
		path, err = catalog.DefaultPath()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	store, err := catalog.NewSQLiteStore(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open catalog: %v", err), 1)
	}
	defer store.Close()

	if c.IsSet("id") {
		return printRunDocuments(c, store, c.Int64("id"))
	}

	runs, err := store.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to list runs: %v", err), 1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	fmt.Printf("%-5s %-20s %-7s %-6s %-7s %-8s %s\n",
		"ID", "Finished", "Pages", "Docs", "Copied", "Skipped", "Source")
	fmt.Println(strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-7d %-6d %-7d %-8d %s\n",
			r.ID,
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			r.TotalPages,
			r.Documents,
			r.PagesCopied,
			r.Skipped,
			r.Source,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}

func printRunDocuments(c *cli.Context, store catalog.Store, runID int64) error {
	docs, err := store.RunDocuments(c.Context, runID)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load documents for run %d: %v", runID, err), 1)
	}

	if len(docs) == 0 {
		fmt.Printf("No documents recorded for run %d\n", runID)
		return nil
	}

	fmt.Printf("%-5s %-12s %-6s %s\n", "#", "Pages", "Count", "Document")
	fmt.Println(strings.Repeat("-", 80))

	for _, d := range docs {
		fmt.Printf("%-5d %-12s %-6d %s\n",
			d.Position,
			fmt.Sprintf("%d-%d", d.StartPage, d.EndPage),
			d.Pages,
			d.Name,
		)
	}

	fmt.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}
