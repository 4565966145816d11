package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/docketops/packetsplit/internal/outline"
	"github.com/docketops/packetsplit/internal/sidecar"
	"github.com/docketops/packetsplit/models"
)

// recordElideAbove caps how many record items the text summary prints
// in full. Past it only the first ten and last five entries show.
const recordElideAbove = 15

func newBookmarksCommand() *cli.Command {
	return &cli.Command{
		Name:  "bookmarks",
		Usage: "extract the outline of a PDF into a bookmarks sidecar",
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
				Usage:   "sidecar `FILE` to write",
			},
			&cli.StringFlag{
				Name:  "backend",
				Value: outline.BackendPdfcpu,
				Usage: "extraction backend: pdfcpu or native",
			},
			&cli.StringFlag{
				Name:  "record-label",
				Value: models.DefaultRecordLabel,
				Usage: "title of the container section whose children become record items",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "summary format: text, json or yaml",
			},
		}, verbosityFlags()...),
		Action: bookmarksAction,
	}
}

func bookmarksAction(c *cli.Context) error {
	if err := checkFormat(c.String("format")); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	log, err := newActionLogger(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to set up logging: %v", err), 1)
	}

	ext, err := outline.ForBackend(c.String("backend"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	input := c.String("input")
	log.Info("extracting bookmarks from %s with the %s backend", input, c.String("backend"))

	sc, err := ext.Extract(input, outline.Options{
		RecordLabel: c.String("record-label"),
		Logger:      log,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("bookmark extraction failed: %v", err), 1)
	}

	path := c.String("sidecar")
	if err := sidecar.Save(path, sc); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if !c.Bool("quiet") {
		if err := printSidecar(sc, c.String("format")); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	fmt.Printf("\nBookmark data saved to %s\n", path)
	return nil
}

// printSidecar writes the extraction summary to stdout. Text mode
// shows every top-level entry and elides long record lists; json and
// yaml dump the full sidecar.
func printSidecar(sc *models.Sidecar, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render sidecar as JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(sc)
		if err != nil {
			return fmt.Errorf("failed to render sidecar as YAML: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	fmt.Printf("Total pages: %d\n", sc.TotalPages)

	fmt.Printf("\nTop-level documents:\n")
	for _, b := range sc.TopLevel {
		printBookmark(b)
	}

	fmt.Printf("\nRecord items (%d):\n", len(sc.RecordItems))
	if len(sc.RecordItems) > recordElideAbove {
		for _, b := range sc.RecordItems[:10] {
			printBookmark(b)
		}
		fmt.Println("  ...")
		for _, b := range sc.RecordItems[len(sc.RecordItems)-5:] {
			printBookmark(b)
		}
	} else {
		for _, b := range sc.RecordItems {
			printBookmark(b)
		}
	}
	return nil
}

func printBookmark(b models.Bookmark) {
	if b.Page != nil {
		fmt.Printf("  %s -> Page %d\n", b.Name, *b.Page)
		return
	}
	fmt.Printf("  %s -> Page ?\n", b.Name)
}
