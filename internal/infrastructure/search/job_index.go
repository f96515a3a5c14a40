// Package search keeps an Elasticsearch index of job postings.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/hireboard/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// JobIndex indexes jobs into a single Elasticsearch index.
type JobIndex struct {
	ES   *elasticsearch.Client
	Name string
}

func NewJobIndex(es *elasticsearch.Client, index string) *JobIndex {
	return &JobIndex{ES: es, Name: index}
}

type jobDoc struct {
	ID             string    `json:"id"`
	RecruiterID    string    `json:"recruiter_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CompanyName    string    `json:"company_name"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type"`
	Skills         []string  `json:"skills"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

const mapping = `{
  "mappings": {
    "properties": {
      "id":              {"type": "keyword"},
      "recruiter_id":    {"type": "keyword"},
      "title":           {"type": "text"},
      "description":     {"type": "text"},
      "company_name":    {"type": "text"},
      "location":        {"type": "text"},
      "employment_type": {"type": "keyword"},
      "skills":          {"type": "text"},
      "status":          {"type": "keyword"},
      "created_at":      {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping if it does not exist.
func (x *JobIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.Name}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	res, err = esapi.IndicesCreateRequest{Index: x.Name, Body: strings.NewReader(mapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", x.Name, res.Status())
	}
	return nil
}

func (x *JobIndex) Index(ctx context.Context, j *entity.Job) error {
	b, err := json.Marshal(jobDoc{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		Description:    j.Description,
		CompanyName:    j.CompanyName,
		Location:       j.Location,
		EmploymentType: string(j.EmploymentType),
		Skills:         j.Skills,
		Status:         string(j.Status),
		CreatedAt:      j.CreatedAt,
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndexRequest{Index: x.Name, DocumentID: j.ID, Body: bytes.NewReader(b), Refresh: "false"}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index job %s: %s", j.ID, res.Status())
	}
	return nil
}

// Remove deletes a job document; a missing document is not an error.
func (x *JobIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: x.Name, DocumentID: id}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete job %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over the text fields restricted to open jobs and
// returns matching ids by relevance.
func (x *JobIndex) Search(ctx context.Context, q string, limit, offset int) ([]string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^3", "skills^2", "company_name", "description", "location"},
					},
				},
				"filter": map[string]any{"term": map[string]any{"status": string(entity.JobOpen)}},
			},
		},
		"from":    offset,
		"size":    limit,
		"_source": false,
	}
	b, _ := json.Marshal(query)

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
		return nil, fmt.Errorf("search jobs: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	return string(b)
}
