// Package airtable implements the tabular.Store contract over the Airtable
// REST API using a Personal Access Token.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/tabular"
)

// RecordIDColumn is the synthetic column carrying the Airtable record ID in
// rows returned by this store. Discovery skips it; synthesis uses it as the
// customer ID of last resort.
const RecordIDColumn = "_record_id"

const defaultEndpoint = "https://api.airtable.com"

// Base is one Airtable base visible to the token.
type Base struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permissionLevel,omitempty"`
}

// Client is a thin Airtable REST client shared by stores and by base
// discovery.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient builds a client for the given endpoint and token. An empty
// endpoint selects the public API.
func NewClient(endpoint, token string, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger.Named("airtable"),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request failed: %w: %v", apperrors.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("airtable rejected token (status %d): %w", resp.StatusCode, apperrors.ErrConnectivity)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("airtable status %d: %s: %w", resp.StatusCode, string(body), apperrors.ErrConnectivity)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode airtable response: %w", err)
	}
	return nil
}

// Bases lists every base the token can reach.
func (c *Client) Bases(ctx context.Context) ([]Base, error) {
	var payload struct {
		Bases  []Base `json:"bases"`
		Offset string `json:"offset"`
	}
	if err := c.get(ctx, "/v0/meta/bases", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Bases, nil
}

// Store reads one Airtable base through the shared client.
type Store struct {
	client *Client
	baseID string
}

var _ tabular.Store = (*Store)(nil)

// NewStore binds a client to one base.
func NewStore(client *Client, baseID string) *Store {
	return &Store{client: client, baseID: baseID}
}

// BaseID returns the bound base.
func (s *Store) BaseID() string { return s.baseID }

// ListTables returns the base schema from the metadata API.
func (s *Store) ListTables(ctx context.Context) ([]tabular.TableInfo, error) {
	var payload struct {
		Tables []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Fields []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"fields"`
		} `json:"tables"`
	}
	if err := s.client.get(ctx, "/v0/meta/bases/"+url.PathEscape(s.baseID)+"/tables", nil, &payload); err != nil {
		return nil, err
	}

	tables := make([]tabular.TableInfo, 0, len(payload.Tables))
	for _, t := range payload.Tables {
		info := tabular.TableInfo{ID: t.ID, Name: t.Name}
		for _, f := range t.Fields {
			info.Fields = append(info.Fields, tabular.FieldInfo{ID: f.ID, Name: f.Name, Type: f.Type})
		}
		tables = append(tables, info)
	}
	return tables, nil
}

type recordsPayload struct {
	Records []struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	} `json:"records"`
}

// ReadRows fetches up to limit records from the named table.
func (s *Store) ReadRows(ctx context.Context, table string, limit int) ([]tabular.Row, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("maxRecords", strconv.Itoa(limit))
	}
	return s.fetch(ctx, table, query)
}

// ReadRowsMatching fetches records whose field contains value, matched
// case-insensitively with an Airtable SEARCH formula.
func (s *Store) ReadRowsMatching(ctx context.Context, table, field, value string, limit int) ([]tabular.Row, error) {
	if err := tabular.CheckPredicateValue(value); err != nil {
		return nil, err
	}

	formula := fmt.Sprintf(
		"SEARCH('%s', LOWER({%s}&''))",
		tabular.EscapeFormulaString(strings.ToLower(value)), field,
	)
	query := url.Values{}
	query.Set("filterByFormula", formula)
	if limit > 0 {
		query.Set("maxRecords", strconv.Itoa(limit))
	}
	return s.fetch(ctx, table, query)
}

func (s *Store) fetch(ctx context.Context, table string, query url.Values) ([]tabular.Row, error) {
	var payload recordsPayload
	path := "/v0/" + url.PathEscape(s.baseID) + "/" + url.PathEscape(table)
	if err := s.client.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}

	rows := make([]tabular.Row, 0, len(payload.Records))
	for _, rec := range payload.Records {
		row := make(tabular.Row, len(rec.Fields)+1)
		for k, v := range rec.Fields {
			row[k] = v
		}
		row[RecordIDColumn] = rec.ID
		rows = append(rows, tabular.NormalizeRow(row))
	}
	s.client.logger.Debug("fetched rows",
		zap.String("table", table),
		zap.Int("count", len(rows)))
	return rows, nil
}

// Close is a no-op; the HTTP client holds no per-base resources.
func (s *Store) Close() error { return nil }
