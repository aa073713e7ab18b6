package linear

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("requires an api key", func(t *testing.T) {
		_, err := NewClient("")
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewClient("lin_api_test")
		require.NoError(t, err)
		assert.Equal(t, DefaultEndpoint, c.endpoint)
		assert.Equal(t, DefaultPageSize, c.pageSize)
	})

	t.Run("options override defaults", func(t *testing.T) {
		c, err := NewClient("lin_api_test",
			WithEndpoint("http://localhost:1234/graphql"),
			WithPageSize(25),
		)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:1234/graphql", c.endpoint)
		assert.Equal(t, 25, c.pageSize)
	})

	t.Run("non-positive page size is ignored", func(t *testing.T) {
		c, err := NewClient("lin_api_test", WithPageSize(0))
		require.NoError(t, err)
		assert.Equal(t, DefaultPageSize, c.pageSize)
	})
}

// graphqlFixture serves canned GraphQL responses and records requests.
type graphqlFixture struct {
	t         *testing.T
	responses []string
	requests  []graphqlRequest
	headers   []http.Header
	status    int
}

func (f *graphqlFixture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.requests = append(f.requests, req)
		f.headers = append(f.headers, r.Header.Clone())

		if f.status != 0 {
			w.WriteHeader(f.status)
			fmt.Fprint(w, `{"error":"nope"}`)
			return
		}
		idx := len(f.requests) - 1
		require.Less(f.t, idx, len(f.responses), "more requests than canned responses")
		fmt.Fprint(w, f.responses[idx])
	}
}

func issuesPage(hasNext bool, cursor string, nodes ...string) string {
	joined := ""
	for i, n := range nodes {
		if i > 0 {
			joined += ","
		}
		joined += n
	}
	return fmt.Sprintf(`{"data":{"issues":{"nodes":[%s],"pageInfo":{"hasNextPage":%t,"endCursor":"%s"}}}}`,
		joined, hasNext, cursor)
}

func issueJSON(id, identifier, title, dueDate string) string {
	return fmt.Sprintf(`{"id":%q,"identifier":%q,"title":%q,"description":"d","url":"https://linear.app/x","dueDate":%q,"state":{"name":"Todo"}}`,
		id, identifier, title, dueDate)
}

func TestClient_Issues(t *testing.T) {
	fixture := &graphqlFixture{t: t, responses: []string{
		issuesPage(false, "", issueJSON("i-1", "ENG-1", "First", "2026-09-01")),
	}}
	srv := httptest.NewServer(fixture.handler())
	defer srv.Close()

	c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
	require.NoError(t, err)

	items, err := c.Issues(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "i-1", items[0].ID)
	assert.Equal(t, KindIssue, items[0].Kind)
	assert.Equal(t, "ENG-1", items[0].Identifier)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "2026-09-01", items[0].DueDate)
	assert.Equal(t, "Todo", items[0].State)
}

func TestClient_IssuesSendsRawAPIKey(t *testing.T) {
	fixture := &graphqlFixture{t: t, responses: []string{issuesPage(false, "")}}
	srv := httptest.NewServer(fixture.handler())
	defer srv.Close()

	c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = c.Issues(context.Background())
	require.NoError(t, err)

	require.Len(t, fixture.headers, 1)
	// Linear rejects the Bearer prefix for personal API keys.
	assert.Equal(t, "lin_api_test", fixture.headers[0].Get("Authorization"))
	assert.Equal(t, "application/json", fixture.headers[0].Get("Content-Type"))
}

func TestClient_IssuesFollowsPagination(t *testing.T) {
	fixture := &graphqlFixture{t: t, responses: []string{
		issuesPage(true, "cursor-1", issueJSON("i-1", "ENG-1", "First", "2026-09-01")),
		issuesPage(false, "", issueJSON("i-2", "ENG-2", "Second", "2026-09-02")),
	}}
	srv := httptest.NewServer(fixture.handler())
	defer srv.Close()

	c, err := NewClient("lin_api_test", WithEndpoint(srv.URL), WithPageSize(1))
	require.NoError(t, err)

	items, err := c.Issues(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "i-1", items[0].ID)
	assert.Equal(t, "i-2", items[1].ID)

	require.Len(t, fixture.requests, 2)
	assert.NotContains(t, fixture.requests[0].Variables, "after", "first page carries no cursor")
	assert.Equal(t, "cursor-1", fixture.requests[1].Variables["after"])
	assert.EqualValues(t, 1, fixture.requests[1].Variables["first"])
}

func TestClient_Projects(t *testing.T) {
	fixture := &graphqlFixture{t: t, responses: []string{
		`{"data":{"projects":{"nodes":[{"id":"p-1","name":"Launch","description":"big","url":"https://linear.app/p","targetDate":"2026-12-01","state":"started"}],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`,
	}}
	srv := httptest.NewServer(fixture.handler())
	defer srv.Close()

	c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
	require.NoError(t, err)

	items, err := c.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p-1", items[0].ID)
	assert.Equal(t, KindProject, items[0].Kind)
	assert.Equal(t, "Launch", items[0].Title)
	assert.Empty(t, items[0].Identifier, "projects have no issue identifier")
	assert.Equal(t, "2026-12-01", items[0].DueDate)
	assert.Equal(t, "started", items[0].State)
}

func TestClient_FetchItemsCombinesKinds(t *testing.T) {
	fixture := &graphqlFixture{t: t, responses: []string{
		issuesPage(false, "", issueJSON("i-1", "ENG-1", "First", "2026-09-01")),
		`{"data":{"projects":{"nodes":[{"id":"p-1","name":"Launch","url":"https://linear.app/p","targetDate":"2026-12-01"}],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`,
	}}
	srv := httptest.NewServer(fixture.handler())
	defer srv.Close()

	c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
	require.NoError(t, err)

	items, err := c.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, KindIssue, items[0].Kind)
	assert.Equal(t, KindProject, items[1].Kind)
}

func TestClient_Errors(t *testing.T) {
	t.Run("graphql errors surface", func(t *testing.T) {
		fixture := &graphqlFixture{t: t, responses: []string{
			`{"errors":[{"message":"authentication required"}]}`,
		}}
		srv := httptest.NewServer(fixture.handler())
		defer srv.Close()

		c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
		require.NoError(t, err)

		_, err = c.Issues(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication required")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "issues", apiErr.Op)
	})

	t.Run("non-200 status surfaces", func(t *testing.T) {
		fixture := &graphqlFixture{t: t, status: http.StatusBadGateway}
		srv := httptest.NewServer(fixture.handler())
		defer srv.Close()

		c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
		require.NoError(t, err)

		_, err = c.Issues(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("malformed body surfaces", func(t *testing.T) {
		fixture := &graphqlFixture{t: t, responses: []string{`not json`}}
		srv := httptest.NewServer(fixture.handler())
		defer srv.Close()

		c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
		require.NoError(t, err)

		_, err = c.Issues(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed response")
	})

	t.Run("canceled context aborts the request", func(t *testing.T) {
		fixture := &graphqlFixture{t: t, responses: []string{issuesPage(false, "")}}
		srv := httptest.NewServer(fixture.handler())
		defer srv.Close()

		c, err := NewClient("lin_api_test", WithEndpoint(srv.URL))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.Issues(ctx)
		assert.Error(t, err)
	})
}
