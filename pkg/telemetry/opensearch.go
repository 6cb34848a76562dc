package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/courier/pkg/event"
)

// OpenSearchAdapter indexes events into one index.
type OpenSearchAdapter struct {
	client *opensearch.Client
	index  string
}

func NewOpenSearchAdapter(client *opensearch.Client, index string) *OpenSearchAdapter {
	if client == nil {
		panic("telemetry: opensearch client cannot be nil")
	}
	if index == "" {
		panic("telemetry: opensearch index cannot be empty")
	}
	return &OpenSearchAdapter{client: client, index: index}
}

func (a *OpenSearchAdapter) Publish(ctx context.Context, ev event.Event) error {
	doc, err := json.Marshal(ev)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      a.index,
		DocumentID: ev.ID,
		Body:       bytes.NewReader(doc),
	}
	res, err := req.Do(ctx, a.client)
	if err != nil {
		return errors.Join(ErrIndex, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.Join(ErrIndex, fmt.Errorf("status %s: %s", res.Status(), bytes.TrimSpace(body)))
	}
	return nil
}
