package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	gostac "github.com/planetlabs/go-stac"
	"github.com/urfave/cli/v3"

	"github.com/amazonia-pds/amazonia-stac/pkg/stac"
)

func newValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check STAC item and collection documents for structural problems",
		ArgsUsage: "<file>...",
		Action:    validateAction,
	}
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("expected at least 1 file to validate")
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	for _, path := range cmd.Args().Slice() {
		if err := validateFile(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debugf("%s is valid", path)
	}
	return nil
}

func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Documents must survive a round trip through the common interop
	// model before the structural checks run.
	switch docType(data) {
	case "Feature":
		var interop gostac.Item
		if err := json.Unmarshal(data, &interop); err != nil {
			return err
		}
		var item stac.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		return item.Validate()
	case "Collection":
		var interop gostac.Collection
		if err := json.Unmarshal(data, &interop); err != nil {
			return err
		}
		var col stac.Collection
		if err := json.Unmarshal(data, &col); err != nil {
			return err
		}
		return col.Validate()
	default:
		return fmt.Errorf("document type is neither Feature nor Collection")
	}
}

// docType peeks at the top-level "type" member without decoding the
// whole document.
func docType(data []byte) string {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.Type
}
