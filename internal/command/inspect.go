package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/docketops/packetsplit/internal/inspect"
)

func newInspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "summarize a PDF's size, page count and outline shape",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "source PDF `FILE`",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "output format: text, json or yaml",
			},
			&cli.IntFlag{
				Name:  "max-entries",
				Value: 40,
				Usage: "cap on outline entries printed in text mode (0 means all)",
			},
		},
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if err := checkFormat(c.String("format")); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	summary, err := inspect.Describe(c.String("input"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("inspection failed: %v", err), 1)
	}

	switch c.String("format") {
	case "json":
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to render summary as JSON: %v", err), 1)
		}
		fmt.Println(string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(summary)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to render summary as YAML: %v", err), 1)
		}
		fmt.Print(string(data))
		return nil
	}

	fmt.Printf("File:  %s\n", summary.Path)
	fmt.Printf("Size:  %d bytes\n", summary.SizeBytes)
	fmt.Printf("Pages: %d\n", summary.Pages)

	if len(summary.Outline) == 0 {
		fmt.Println("\nNo outline")
		return nil
	}

	fmt.Printf("\nOutline (%d entries, depth %d):\n", len(summary.Outline), summary.MaxDepth()+1)
	limit := c.Int("max-entries")
	for i, e := range summary.Outline {
		if limit > 0 && i == limit {
			fmt.Printf("  ... %d more\n", len(summary.Outline)-limit)
			break
		}
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s%s\n", strings.Repeat("  ", e.Depth), title)
	}
	return nil
}
