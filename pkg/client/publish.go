package stacclient

import (
	"context"
	"fmt"

	gostac "github.com/planetlabs/go-stac"
)

// PublishItem creates or replaces an item in a collection via the STAC
// Transaction extension. The body is the already-serialized item so the
// document on the wire is byte-identical to the document on disk.
func (c *Client) PublishItem(ctx context.Context, collectionID string, body []byte) error {
	endpoint := fmt.Sprintf("/collections/%s/items", collectionID)
	return c.doJSON(ctx, "POST", endpoint, body, nil)
}

// PublishCollection creates or replaces a collection.
func (c *Client) PublishCollection(ctx context.Context, body []byte) error {
	return c.doJSON(ctx, "POST", "/collections", body, nil)
}

// GetCollection fetches a collection from the service. Publishing uses
// it to confirm the target collection exists before posting items.
func (c *Client) GetCollection(ctx context.Context, id string) (*gostac.Collection, error) {
	var collection gostac.Collection
	endpoint := fmt.Sprintf("/collections/%s", id)
	if err := c.doJSON(ctx, "GET", endpoint, nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}
