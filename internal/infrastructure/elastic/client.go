package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/analoghub/backend/internal/domain"
)

// Config holds the connection settings of the search cluster
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Client runs queries and bulk loads against Elasticsearch
type Client struct {
	es        *elasticsearch.Client
	transport *http.Transport
}

// NewClient creates a new Elasticsearch client. No request is made until first use.
func NewClient(cfg Config) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Client{es: es, transport: transport}, nil
}

// searchResponse is the subset of a _search response we read
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs query against index. Zero hits returns an empty result, not an error.
func (c *Client) Search(ctx context.Context, index string, query domain.Query) (*domain.SearchHits, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", domain.ErrBadQuery, err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		log.Printf("[ELASTIC] Search transport error on %s: %v", index, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrBadQuery, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg := readError(res)
		log.Printf("[ELASTIC] Search rejected on %s - Status: %d, Body: %s", index, res.StatusCode, msg)
		return nil, fmt.Errorf("%w: status %d", domain.ErrBadQuery, res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrBadQuery, err)
	}

	hits := &domain.SearchHits{
		Total:   sr.Hits.Total.Value,
		Sources: make([]json.RawMessage, 0, len(sr.Hits.Hits)),
	}
	for _, h := range sr.Hits.Hits {
		hits.Sources = append(hits.Sources, h.Source)
	}
	return hits, nil
}

// FetchByID returns the _source of one document. The document may be
// deleted between the existence check and the read; that case is reported
// as not found too.
func (c *Client) FetchByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	exists, err := c.es.Exists(index, id, c.es.Exists.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadQuery, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if exists.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrBadQuery, exists.StatusCode)
	}

	res, err := c.es.Get(index, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadQuery, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrBadQuery, res.StatusCode)
	}

	var doc struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", domain.ErrBadQuery, err)
	}
	if !doc.Found {
		return nil, domain.ErrNotFound
	}
	return doc.Source, nil
}

// bulkResponse is the subset of a _bulk response we read
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// BulkIndex writes docs to index in a single _bulk request keyed by document id
func (c *Client) BulkIndex(ctx context.Context, index string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": index, "_id": doc.DocumentID()},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encode bulk meta: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode bulk document: %w", err)
		}
	}

	res, err := c.es.Bulk(&buf, c.es.Bulk.WithContext(ctx), c.es.Bulk.WithIndex(index))
	if err != nil {
		return fmt.Errorf("%w: bulk: %v", domain.ErrBadQuery, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: bulk status %d: %s", domain.ErrBadQuery, res.StatusCode, readError(res))
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return fmt.Errorf("%w: decode bulk response: %v", domain.ErrBadQuery, err)
	}
	if br.Errors {
		failed := 0
		first := ""
		for _, item := range br.Items {
			for _, r := range item {
				if r.Status >= 300 {
					failed++
					if first == "" {
						first = r.Error.Type + ": " + r.Error.Reason
					}
				}
			}
		}
		return fmt.Errorf("%w: bulk rejected %d of %d documents (%s)", domain.ErrBadQuery, failed, len(docs), first)
	}
	return nil
}

// EnsureIndex creates index with the given settings and mappings when it does not exist
func (c *Client) EnsureIndex(ctx context.Context, index, mapping string) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: status %d", index, res.StatusCode)
	}

	created, err := c.es.Indices.Create(index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer created.Body.Close()

	if created.IsError() {
		return fmt.Errorf("create index %s: status %d: %s", index, created.StatusCode, readError(created))
	}

	log.Printf("[ELASTIC] Created index %s", index)
	return nil
}

// Ping checks that the cluster answers
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: status %d", res.StatusCode)
	}
	return nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func readError(res *esapi.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return string(body)
}
