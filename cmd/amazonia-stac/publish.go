package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	stacclient "github.com/amazonia-pds/amazonia-stac/pkg/client"
)

var (
	publishURLFlag = &cli.StringFlag{
		Name:     "url",
		Aliases:  []string{"u"},
		Usage:    "STAC API base URL",
		Required: true,
	}
	tokenFlag = &cli.StringFlag{
		Name:  "token",
		Usage: "bearer token sent with every request",
	}
	apiKeyFlag = &cli.StringFlag{
		Name:  "api-key",
		Usage: "API key sent in the X-Api-Key header",
	}
)

func newPublishCommand() *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Push item and collection documents to a STAC API",
		ArgsUsage: "<file>...",
		Flags:     []cli.Flag{publishURLFlag, tokenFlag, apiKeyFlag},
		Action:    publishAction,
	}
}

func publishAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("expected at least 1 file to publish")
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	httpClient := &http.Client{Timeout: cmd.Duration(timeoutFlag.Name)}
	if token := cmd.String(tokenFlag.Name); token != "" {
		httpClient.Transport = stacclient.BearerAuth(token, nil)
	} else if key := cmd.String(apiKeyFlag.Name); key != "" {
		httpClient.Transport = stacclient.APIKeyAuth(key, "", nil)
	}

	client, err := stacclient.New(
		stacclient.WithBaseURL(cmd.String(publishURLFlag.Name)),
		stacclient.WithHTTPClient(httpClient),
		stacclient.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	pub := &publisher{client: client, verified: map[string]bool{}}
	for _, path := range cmd.Args().Slice() {
		if err := pub.publishFile(ctx, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debugf("published %s", path)
	}
	return nil
}

// publisher pushes documents in order, remembering which target
// collections it has already confirmed on the service.
type publisher struct {
	client   *stacclient.Client
	verified map[string]bool
}

func (p *publisher) publishFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch docType(data) {
	case "Feature":
		var probe struct {
			Collection string `json:"collection"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		if probe.Collection == "" {
			return fmt.Errorf("item has no collection to publish into")
		}
		if err := p.verifyCollection(ctx, probe.Collection); err != nil {
			return err
		}
		return p.client.PublishItem(ctx, probe.Collection, data)
	case "Collection":
		if err := p.client.PublishCollection(ctx, data); err != nil {
			return err
		}
		var probe struct {
			Id string `json:"id"`
		}
		if err := json.Unmarshal(data, &probe); err == nil && probe.Id != "" {
			p.verified[probe.Id] = true
		}
		return nil
	default:
		return fmt.Errorf("document type is neither Feature nor Collection")
	}
}

// verifyCollection confirms the target collection exists before any
// item is posted into it, once per collection per run.
func (p *publisher) verifyCollection(ctx context.Context, id string) error {
	if p.verified[id] {
		return nil
	}
	if _, err := p.client.GetCollection(ctx, id); err != nil {
		return fmt.Errorf("target collection %s is not on the service: %w", id, err)
	}
	p.verified[id] = true
	return nil
}
