package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/amazonia-pds/amazonia-stac/pkg/amazonia"
	"github.com/amazonia-pds/amazonia-stac/pkg/stac"
)

var (
	collectionOutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output path, '-' for stdout (default: collection.json)",
		Value:   "collection.json",
	}
	extentFromFlag = &cli.StringSliceFlag{
		Name:  "extent-from",
		Usage: "item JSON file whose bbox and datetime grow the extent (repeatable)",
	}
)

func newCreateCollectionCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-collection",
		Usage:     "Emit the AMAZONIA1-WFI collection document",
		ArgsUsage: "[<collection-json>]",
		Flags:     []cli.Flag{collectionOutputFlag, extentFromFlag},
		Action:    createCollectionAction,
	}
}

func createCollectionAction(_ context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}

	col := amazonia.BuildCollection(cfg)

	itemPaths := cmd.StringSlice(extentFromFlag.Name)
	if len(itemPaths) > 0 {
		// Replace the mission-wide default extent with one derived
		// from the given items.
		col.Extent = &stac.Extent{}
		for _, path := range itemPaths {
			item, err := readItem(path)
			if err != nil {
				return err
			}
			if err := amazonia.UpdateExtent(col, item); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Debugf("folded %s into the extent", item.Id)
		}
	}

	if err := col.Validate(); err != nil {
		return err
	}

	output := cmd.Args().First()
	if output == "" {
		output = cmd.String(collectionOutputFlag.Name)
	}
	return writeJSON(output, col)
}

func readItem(path string) (*stac.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var item stac.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &item, nil
}
