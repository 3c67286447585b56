package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
)

// AuditIndexer stores events as documents of an Elasticsearch index.
type AuditIndexer struct {
	Client *elasticsearch.Client
	Index  string
}

func (a *AuditIndexer) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: marshal: %w", err)
	}

	res, err := a.Client.Index(
		a.Index,
		bytes.NewReader(body),
		a.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("audit: index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("audit: index returned %s: %s", res.Status(), msg)
	}
	return nil
}
