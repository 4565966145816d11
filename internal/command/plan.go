package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/docketops/packetsplit/internal/sidecar"
	"github.com/docketops/packetsplit/internal/span"
	"github.com/docketops/packetsplit/models"
)

func newPlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "show the page ranges a sidecar implies without writing any PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sidecar",
				Aliases: []string{"s"},
				Value:   sidecar.DefaultPath,
				Usage:   "sidecar `FILE` to read",
			},
			&cli.StringFlag{
				Name:  "record-label",
				Value: models.DefaultRecordLabel,
				Usage: "title of the container section whose children become record items",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "output format: text, json or yaml",
			},
		},
		Action: planAction,
	}
}

func planAction(c *cli.Context) error {
	if err := checkFormat(c.String("format")); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	sc, err := sidecar.Load(c.String("sidecar"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	spans, err := span.Plan(sc, c.String("record-label"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("planning failed: %v", err), 1)
	}

	switch c.String("format") {
	case "json":
		data, err := json.MarshalIndent(spans, "", "  ")
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to render plan as JSON: %v", err), 1)
		}
		fmt.Println(string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(spans)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to render plan as YAML: %v", err), 1)
		}
		fmt.Print(string(data))
		return nil
	}

	if len(spans) == 0 {
		fmt.Println("No documents to extract")
		return nil
	}

	fmt.Printf("%-5s %-12s %-6s %s\n", "#", "Pages", "Count", "Document")
	fmt.Println(strings.Repeat("-", 80))

	totalPages := 0
	for i, sp := range spans {
		pages := fmt.Sprintf("%d-%d", sp.Start, sp.End)
		if sp.End < sp.Start {
			pages = "(empty)"
		}
		fmt.Printf("%-5d %-12s %-6d %s\n", i+1, pages, sp.Pages(), sp.Name)
		totalPages += sp.Pages()
	}

	fmt.Printf("\nTotal: %d documents, %d pages\n", len(spans), totalPages)
	return nil
}
