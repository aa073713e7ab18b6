package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teemow/linearcal/internal/logging"
)

const (
	// DefaultEndpoint is the Linear GraphQL API endpoint.
	DefaultEndpoint = "https://api.linear.app/graphql"

	// DefaultPageSize is the number of records requested per GraphQL page.
	// Linear caps page sizes at 250.
	DefaultPageSize = 100

	// defaultTimeout bounds a single GraphQL request.
	defaultTimeout = 30 * time.Second
)

// issuesQuery selects issues together with their scheduling date. Cursor
// pagination via pageInfo keeps the client correct for workspaces larger
// than one page.
const issuesQuery = `
query($first: Int, $after: String) {
  issues(first: $first, after: $after) {
    nodes {
      id
      identifier
      title
      description
      url
      dueDate
      state { name }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// projectsQuery selects projects with their target date.
const projectsQuery = `
query($first: Int, $after: String) {
  projects(first: $first, after: $after) {
    nodes {
      id
      name
      description
      url
      targetDate
      state
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// Client provides read-only access to the Linear GraphQL API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	pageSize   int
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize overrides the GraphQL page size.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new Linear client authenticated with the given API key.
// The key is sent as the Authorization header on every request; the rest of
// the application never sees it.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey cannot be empty")
	}

	c := &Client{
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		pageSize:   DefaultPageSize,
		logger:     logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// graphqlRequest is the JSON body of a GraphQL POST.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlError is a single error entry in a GraphQL response.
type graphqlError struct {
	Message string `json:"message"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type issueNode struct {
	ID          string `json:"id"`
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	DueDate     string `json:"dueDate"`
	State       struct {
		Name string `json:"name"`
	} `json:"state"`
}

type projectNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	TargetDate  string `json:"targetDate"`
	State       string `json:"state"`
}

// query executes a single GraphQL request and decodes the data payload into out.
func (c *Client) query(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return &Error{Op: "query", Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return &Error{Op: "query", Err: fmt.Errorf("failed to build request: %w", err)}
	}
	// Linear expects the raw API key, not a Bearer prefix.
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: "query", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: "query", Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{Op: "query", Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 512))}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &Error{Op: "query", Err: fmt.Errorf("malformed response: %w", err)}
	}
	if len(envelope.Errors) > 0 {
		return &Error{Op: "query", Err: fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)}
	}
	if len(envelope.Data) == 0 {
		return &Error{Op: "query", Err: fmt.Errorf("response contains no data")}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &Error{Op: "query", Err: fmt.Errorf("malformed data payload: %w", err)}
	}
	return nil
}

// Issues fetches all issues, following cursor pagination.
func (c *Client) Issues(ctx context.Context) ([]Item, error) {
	var items []Item
	cursor := ""
	for {
		vars := map[string]interface{}{"first": c.pageSize}
		if cursor != "" {
			vars["after"] = cursor
		}

		var data struct {
			Issues struct {
				Nodes    []issueNode `json:"nodes"`
				PageInfo pageInfo    `json:"pageInfo"`
			} `json:"issues"`
		}
		if err := c.query(ctx, issuesQuery, vars, &data); err != nil {
			return nil, &Error{Op: "issues", Err: err}
		}

		for _, n := range data.Issues.Nodes {
			items = append(items, Item{
				ID:          n.ID,
				Kind:        KindIssue,
				Identifier:  n.Identifier,
				Title:       n.Title,
				Description: n.Description,
				URL:         n.URL,
				DueDate:     n.DueDate,
				State:       n.State.Name,
			})
		}

		if !data.Issues.PageInfo.HasNextPage {
			break
		}
		cursor = data.Issues.PageInfo.EndCursor
	}

	c.logger.Debug("fetched Linear issues", "count", len(items))
	return items, nil
}

// Projects fetches all projects, following cursor pagination.
func (c *Client) Projects(ctx context.Context) ([]Item, error) {
	var items []Item
	cursor := ""
	for {
		vars := map[string]interface{}{"first": c.pageSize}
		if cursor != "" {
			vars["after"] = cursor
		}

		var data struct {
			Projects struct {
				Nodes    []projectNode `json:"nodes"`
				PageInfo pageInfo      `json:"pageInfo"`
			} `json:"projects"`
		}
		if err := c.query(ctx, projectsQuery, vars, &data); err != nil {
			return nil, &Error{Op: "projects", Err: err}
		}

		for _, n := range data.Projects.Nodes {
			items = append(items, Item{
				ID:          n.ID,
				Kind:        KindProject,
				Title:       n.Name,
				Description: n.Description,
				URL:         n.URL,
				DueDate:     n.TargetDate,
				State:       n.State,
			})
		}

		if !data.Projects.PageInfo.HasNextPage {
			break
		}
		cursor = data.Projects.PageInfo.EndCursor
	}

	c.logger.Debug("fetched Linear projects", "count", len(items))
	return items, nil
}

// FetchItems fetches issues followed by projects and returns them as one
// normalized list. Either query failing fails the fetch as a whole.
func (c *Client) FetchItems(ctx context.Context) ([]Item, error) {
	issues, err := c.Issues(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return append(issues, projects...), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
