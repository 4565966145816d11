package command

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/docketops/packetsplit/internal/catalog"
	"github.com/docketops/packetsplit/internal/sidecar"
	"github.com/docketops/packetsplit/internal/span"
	"github.com/docketops/packetsplit/internal/splitter"
	"github.com/docketops/packetsplit/models"
)

func newSplitCommand() *cli.Command {
	return &cli.Command{
		Name:  "split",
		Usage: "split the source PDF into one file per bookmarked document",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "source PDF `FILE`",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "sidecar",
				Aliases: []string{"s"},
				Value:   sidecar.DefaultPath,
				Usage:   "sidecar `FILE` to read",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Value:   splitter.DefaultOutputDir,
				Usage:   "directory the per-document PDFs are written to",
			},
			&cli.StringFlag{
				Name:  "record-label",
				Value: models.DefaultRecordLabel,
				Usage: "title of the container section whose children become record items",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "catalog database `FILE` (default ~/.packetsplit/catalog.db)",
			},
			&cli.BoolFlag{
				Name:  "no-catalog",
				Usage: "do not record this run in the catalog",
			},
		}, verbosityFlags()...),
		Action: splitAction,
	}
}

func splitAction(c *cli.Context) error {
	log, err := newActionLogger(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to set up logging: %v", err), 1)
	}

	fmt.Println("Loading bookmark data...")
	sc, err := sidecar.Load(c.String("sidecar"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("Total pages: %d\n", sc.TotalPages)
	fmt.Printf("Top-level items: %d\n", len(sc.TopLevel))
	fmt.Printf("Record items: %d\n", len(sc.RecordItems))

	spans, err := span.Plan(sc, c.String("record-label"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("planning failed: %v", err), 1)
	}

	outputDir := c.String("output-dir")
	fmt.Printf("Output directory: %s\n", outputDir)
	fmt.Printf("\nLoading source PDF...\n")

	fmt.Printf("\nTotal documents to extract: %d\n", len(spans))

	started := time.Now()
	result, err := splitter.Split(c.String("input"), spans, splitter.Options{
		OutputDir: outputDir,
		Progress:  os.Stdout,
		Logger:    log,
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	finished := time.Now()

	banner := strings.Repeat("=", 50)
	fmt.Printf("\n%s\n", banner)
	fmt.Printf("COMPLETE! Extracted %d documents to '%s/'\n", result.Written, result.OutputDir)
	fmt.Println(banner)

	tally := result.Tally()
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  - Memo: %d\n", tally.Memo)
	fmt.Printf("  - Briefs: %d\n", tally.Briefs)
	fmt.Printf("  - ROA: %d\n", tally.ROA)
	fmt.Printf("  - Record items: %d\n", tally.RecordItems)
	fmt.Printf("  - Total: %d\n", tally.Total)
	if result.Skipped > 0 {
		fmt.Printf("  - Skipped (empty ranges): %d\n", result.Skipped)
	}

	if c.Bool("no-catalog") {
		return nil
	}
	if err := recordRun(c, sc, result, started, finished); err != nil {
		// The catalog is history, not output. A failed write must not
		// fail a split that already produced its files.
		log.Warn("failed to record run in catalog: %v", err)
	}
	return nil
}

func recordRun(c *cli.Context, sc *models.Sidecar, result *splitter.Result, started, finished time.Time) error {
	path := c.String("catalog")
	if path == "" {
		var err error
		path, err = catalog.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := catalog.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	run := &models.RunRecord{
		Source:      c.String("input"),
		Sidecar:     c.String("sidecar"),
		OutputDir:   result.OutputDir,
		TotalPages:  sc.TotalPages,
		Documents:   len(result.Documents),
		PagesCopied: result.PagesCopied,
		Skipped:     result.Skipped,
		StartedAt:   started,
		FinishedAt:  finished,
	}

	_, err = store.RecordRun(c.Context, run, result.Documents)
	return err
}
