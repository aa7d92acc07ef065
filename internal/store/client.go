package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
)

// Client talks to a remote larder content store over HTTP. One Client holds
// one credential; the write chain layers multiple Clients in priority order.
type Client struct {
	baseURL string
	project string
	dataset string
	token   string
	http    *http.Client
}

// NewClient creates a Client for one project/dataset. token may be empty for
// unauthenticated reads.
func NewClient(baseURL, project, dataset, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		project: project,
		dataset: dataset,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Project returns the project id this client is configured for.
func (c *Client) Project() string { return c.project }

var _ Reader = (*Client)(nil)
var _ Writer = (*Client)(nil)
var _ Searcher = (*Client)(nil)

func (c *Client) endpoint(parts ...string) string {
	return c.baseURL + "/v1/data/" + c.project + "/" + c.dataset + "/" + strings.Join(parts, "/")
}

// errBody is the error payload shape of the content store API.
type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// classify maps an HTTP failure to the shared error taxonomy:
// 403 means the credential is recognised but lacks update rights; 401 and a
// project-not-found 404 mean the credential or path does not belong to the
// target project. Everything else is an unclassified (fatal) store error.
func classify(status int, body errBody) error {
	switch status {
	case http.StatusForbidden:
		return fmt.Errorf("store: %s: %w", body.Error, apperr.ErrPermissionDenied)
	case http.StatusUnauthorized:
		return fmt.Errorf("store: %s: %w", body.Error, apperr.ErrProjectMismatch)
	case http.StatusNotFound:
		if body.Code == "recipe-not-found" {
			return fmt.Errorf("store: %s: %w", body.Error, apperr.ErrNotFound)
		}
		return fmt.Errorf("store: %s: %w", body.Error, apperr.ErrProjectMismatch)
	}
	return fmt.Errorf("store: unexpected status %d: %s", status, body.Error)
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("store: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("store: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return classify(resp.StatusCode, eb)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("store: decode response: %w", err)
	}
	return nil
}

// ListRecipes implements Reader.
func (c *Client) ListRecipes(ctx context.Context, scope Scope) ([]models.Recipe, error) {
	q := url.Values{}
	if scope.All {
		q.Set("all", "true")
	} else if scope.Audience != "" {
		q.Set("audience", string(scope.Audience))
	}
	u := c.endpoint("recipes")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var out struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

// GetRecipe implements Reader.
func (c *Client) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.do(ctx, http.MethodGet, c.endpoint("recipes", url.PathEscape(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchVisibility implements Reader.
func (c *Client) FetchVisibility(ctx context.Context, ids []string) (map[string]models.Visibility, error) {
	if len(ids) == 0 {
		return map[string]models.Visibility{}, nil
	}
	q := url.Values{"ids": []string{strings.Join(ids, ",")}}
	var out struct {
		Visibility map[string]models.Visibility `json:"visibility"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("visibility")+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Visibility, nil
}

// PatchVisibility implements Writer.
func (c *Client) PatchVisibility(ctx context.Context, id string, vis models.Visibility) error {
	return c.do(ctx, http.MethodPost, c.endpoint("visibility", url.PathEscape(id)), vis, nil)
}

// Search implements Searcher.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	q := url.Values{"q": []string{query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("search")+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}
