// Package search keeps an Elasticsearch index of notes for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type NoteIndex struct {
	ES   *elasticsearch.Client
	Name string
}

func NewNoteIndex(es *elasticsearch.Client, name string) *NoteIndex {
	return &NoteIndex{ES: es, Name: name}
}

// indexMapping keeps owner_id a keyword so the owner filter matches the whole
// id instead of analyzed fragments.
var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":         map[string]any{"type": "keyword"},
			"owner_id":   map[string]any{"type": "keyword"},
			"title":      map[string]any{"type": "text"},
			"content":    map[string]any{"type": "text"},
			"created_at": map[string]any{"type": "date"},
			"updated_at": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping. An index that already
// exists is left as is.
func (x *NoteIndex) EnsureIndex(ctx context.Context) error {
	b, err := json.Marshal(indexMapping)
	if err != nil {
		return err
	}
	req := esapi.IndicesCreateRequest{Index: x.Name, Body: bytes.NewReader(b)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if !res.IsError() {
		return nil
	}
	var eb struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	_ = json.NewDecoder(res.Body).Decode(&eb)
	if res.StatusCode == http.StatusBadRequest && eb.Error.Type == "resource_already_exists_exception" {
		return nil
	}
	return fmt.Errorf("es create index %s: %s", x.Name, res.Status())
}

type noteDoc struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (x *NoteIndex) Index(ctx context.Context, n entity.Note) error {
	b, err := json.Marshal(noteDoc{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Name, DocumentID: n.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", n.ID, res.Status())
	}
	return nil
}

// Remove treats a missing document as already removed.
func (x *NoteIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Name, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Search matches title (boosted) and content, filtered to one owner.
func (x *NoteIndex) Search(ctx context.Context, ownerID, q string, size int) ([]string, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	b, err := json.Marshal(buildQuery(ownerID, q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Name),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return parseHits(res.Body)
}

func buildQuery(ownerID, q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "content"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID},
				},
			},
		},
		"size":    size,
		"_source": false,
	}
}

func parseHits(r io.Reader) ([]string, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
