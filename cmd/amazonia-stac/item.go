package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amazonia-pds/amazonia-stac/pkg/amazonia"
	"github.com/amazonia-pds/amazonia-stac/pkg/resolver"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output path, '-' for stdout (default: <scene-id>.json)",
	}
	cogBucketFlag = &cli.StringFlag{
		Name:  "cog-bucket",
		Usage: "bucket holding band imagery and metadata XML",
	}
	metadataBucketFlag = &cli.StringFlag{
		Name:  "metadata-bucket",
		Usage: "bucket holding quicklook PNGs",
	}
	regionFlag = &cli.StringFlag{
		Name:  "region",
		Usage: "bucket region, empty for us-east-1",
	}
	skipAssetCheckFlag = &cli.BoolFlag{
		Name:  "skip-asset-check",
		Usage: "emit the item without confirming that asset objects exist",
	}
)

func newCreateItemCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-item",
		Usage:     "Convert an INPE scene metadata XML file into a STAC item",
		ArgsUsage: "<metadata-xml> [<item-json>]",
		Flags: []cli.Flag{
			outputFlag,
			cogBucketFlag,
			metadataBucketFlag,
			regionFlag,
			skipAssetCheckFlag,
		},
		Action: createItemAction,
	}
}

func createItemAction(ctx context.Context, cmd *cli.Command) error {
	if n := cmd.Args().Len(); n < 1 || n > 2 {
		return fmt.Errorf("expected arguments: metadata XML path and optional output path")
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	if v := cmd.String(cogBucketFlag.Name); v != "" {
		cfg.Buckets.COG = v
	}
	if v := cmd.String(metadataBucketFlag.Name); v != "" {
		cfg.Buckets.Metadata = v
	}
	if v := cmd.String(regionFlag.Name); v != "" {
		cfg.Region = v
	}

	meta, err := amazonia.ParseFile(cmd.Args().First())
	if err != nil {
		return err
	}
	logger.Debugf("parsed scene %s", meta.SceneID())

	item, err := amazonia.BuildItem(meta, cfg)
	if err != nil {
		return err
	}

	if !cmd.Bool(skipAssetCheckFlag.Name) {
		checker, err := resolver.New(
			resolver.WithRegion(cfg.Region),
			resolver.WithLogger(logger),
			resolver.WithTimeout(cmd.Duration(timeoutFlag.Name)),
		)
		if err != nil {
			return err
		}
		if err := checker.ResolveAssets(ctx, item); err != nil {
			return err
		}
	}

	output := cmd.Args().Get(1)
	if output == "" {
		output = cmd.String(outputFlag.Name)
	}
	if output == "" {
		output = item.Id + ".json"
	}
	if err := writeJSON(output, item); err != nil {
		return err
	}
	if output != "-" {
		logger.Debugf("wrote %s", output)
	}
	return nil
}
