package appsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoblog/domain/contracts"
	"todoblog/domain/todo"
	"todoblog/test/helpers"
)

type recordedRequest struct {
	Query         string
	Variables     map[string]any
	APIKey        string
	Authorization string
}

// fakeEndpoint answers GraphQL requests with canned bodies keyed by a query substring.
type fakeEndpoint struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string][]string
}

func newFakeEndpoint(t *testing.T) (*fakeEndpoint, *httptest.Server) {
	t.Helper()
	fe := &fakeEndpoint{responses: map[string][]string{}}
	srv := httptest.NewServer(http.HandlerFunc(fe.serve))
	t.Cleanup(srv.Close)
	return fe, srv
}

func (fe *fakeEndpoint) on(querySubstring string, bodies ...string) {
	fe.responses[querySubstring] = append(fe.responses[querySubstring], bodies...)
}

func (fe *fakeEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.requests = append(fe.requests, recordedRequest{
		Query:         body.Query,
		Variables:     body.Variables,
		APIKey:        r.Header.Get("x-api-key"),
		Authorization: r.Header.Get("Authorization"),
	})

	w.Header().Set("Content-Type", "application/json")
	for key, queue := range fe.responses {
		if strings.Contains(body.Query, key) && len(queue) > 0 {
			fe.responses[key] = queue[1:]
			w.Write([]byte(queue[0]))
			return
		}
	}
	w.Write([]byte(`{"data":null,"errors":[{"message":"unexpected query"}]}`))
}

func (fe *fakeEndpoint) recorded() []recordedRequest {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return append([]recordedRequest(nil), fe.requests...)
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		APIKey:          "da2-test-key",
		DefaultAuthMode: contracts.AuthModeAPIKey,
		Timeout:         5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestClient_ListItems_FollowsNextToken(t *testing.T) {
	fe, srv := newFakeEndpoint(t)
	fe.on("listBlogs",
		`{"data":{"listBlogs":{"items":[{"id":"1","name":"first"},null],"nextToken":"page-2"}}}`,
		`{"data":{"listBlogs":{"items":[{"id":"2","name":"second"}],"nextToken":null}}}`,
	)
	client := newTestClient(t, srv.URL)

	items, err := client.ListItems(context.Background(), contracts.APIKeyAuth())

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, helpers.ItemIDs(items))

	reqs := fe.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "da2-test-key", reqs[0].APIKey)
	assert.Empty(t, reqs[0].Authorization)
	assert.Nil(t, reqs[0].Variables["nextToken"])
	assert.Equal(t, "page-2", reqs[1].Variables["nextToken"])
}

func TestClient_GetItem(t *testing.T) {
	fe, srv := newFakeEndpoint(t)
	fe.on("getBlog",
		`{"data":{"getBlog":{"id":"abc","name":"Today, 3:45:00 PM","createdAt":"2024-05-01T15:45:00Z"}}}`,
		`{"data":{"getBlog":null}}`,
	)
	client := newTestClient(t, srv.URL)

	item, err := client.GetItem(context.Background(), contracts.DefaultAuth(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Today, 3:45:00 PM", item.Name)
	require.NotNil(t, item.CreatedAt)
	assert.Equal(t, 2024, item.CreatedAt.Year())

	_, err = client.GetItem(context.Background(), contracts.DefaultAuth(), "missing")
	assert.ErrorIs(t, err, contracts.ErrItemNotFound)

	reqs := fe.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "abc", reqs[0].Variables["id"])
	assert.Equal(t, "da2-test-key", reqs[0].APIKey, "default mode is API_KEY")
}

func TestClient_CreateItem_SendsOnlyName(t *testing.T) {
	fe, srv := newFakeEndpoint(t)
	fe.on("createBlog", `{"data":{"createBlog":{"id":"new-id","name":"Today, 3:45:00 PM"}}}`)
	client := newTestClient(t, srv.URL)

	item, err := client.CreateItem(context.Background(), contracts.UserPoolAuth("id-token"), todo.CreateItemInput{
		Name:    "Today, 3:45:00 PM",
		Content: "I built an Amplify app with Next.js!",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-id", item.ID)

	reqs := fe.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "id-token", reqs[0].Authorization)
	assert.Empty(t, reqs[0].APIKey)
	assert.Equal(t, map[string]any{"name": "Today, 3:45:00 PM"}, reqs[0].Variables["input"])
	assert.Contains(t, reqs[0].Query, "mutation CreatePost")
}

func TestClient_DeleteItem(t *testing.T) {
	fe, srv := newFakeEndpoint(t)
	fe.on("deleteBlog", `{"data":{"deleteBlog":{"id":"abc","name":"gone"}}}`)
	client := newTestClient(t, srv.URL)

	item, err := client.DeleteItem(context.Background(), contracts.UserPoolAuth("id-token"), "abc")

	require.NoError(t, err)
	assert.Equal(t, "abc", item.ID)
	reqs := fe.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{"id": "abc"}, reqs[0].Variables["input"])
	assert.Equal(t, "id-token", reqs[0].Authorization)
}

func TestClient_UserPoolWithoutToken_NoNetworkCall(t *testing.T) {
	fe, srv := newFakeEndpoint(t)
	client := newTestClient(t, srv.URL)

	_, err := client.CreateItem(context.Background(), contracts.UserPoolAuth(""), todo.CreateItemInput{Name: "x"})

	assert.ErrorIs(t, err, contracts.ErrUnauthenticated)
	assert.Empty(t, fe.recorded())
}

func TestClient_ServiceErrorsKeepFullList(t *testing.T) {
	fe, srv := newFakeEndpoint(t)
	fe.on("createBlog", `{"data":{"createBlog":null},"errors":[
		{"message":"Not Authorized to access createBlog on type Mutation","extensions":{"errorType":"Unauthorized"}},
		{"message":"second problem","path":["createBlog","name"]}
	]}`)
	client := newTestClient(t, srv.URL)

	_, err := client.CreateItem(context.Background(), contracts.UserPoolAuth("id-token"), todo.CreateItemInput{Name: "x"})

	se, ok := contracts.AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %v", err)
	assert.Equal(t, OpCreateBlog, se.Operation)
	assert.Equal(t, []string{
		"Not Authorized to access createBlog on type Mutation",
		"second problem (at createBlog.name)",
	}, se.Messages())
	assert.Equal(t, "Unauthorized", se.Errors[0].ErrorType)
	assert.Empty(t, se.Errors[0].Path)
	assert.Equal(t, []string{"createBlog", "name"}, se.Errors[1].Path)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()
	client := newTestClient(t, endpoint)

	_, err := client.ListItems(context.Background(), contracts.APIKeyAuth())

	se, ok := contracts.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, OpListBlogs, se.Operation)
	assert.NotEmpty(t, se.Messages())
}

func TestConfig_Validate(t *testing.T) {
	_, err := NewClient(Config{DefaultAuthMode: contracts.AuthModeAPIKey}, nil)
	assert.ErrorContains(t, err, "APPSYNC_GRAPHQL_ENDPOINT")

	_, err = NewClient(Config{Endpoint: "http://localhost"}, nil)
	assert.Error(t, err)

	client, err := NewClient(Config{Endpoint: "http://localhost", DefaultAuthMode: contracts.AuthModeUserPool}, nil)
	require.NoError(t, err)
	_, err = client.ListItems(context.Background(), contracts.DefaultAuth())
	assert.ErrorIs(t, err, contracts.ErrUnauthenticated)
}
