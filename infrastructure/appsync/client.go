// Package appsync is the data-service client for the hosted GraphQL API.
package appsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	graphql "github.com/hasura/go-graphql-client"

	"todoblog/domain/contracts"
	"todoblog/domain/todo"
	"todoblog/logging"
)

// Config holds the data-service endpoint settings.
type Config struct {
	Endpoint        string             `env:"APPSYNC_GRAPHQL_ENDPOINT"`
	Region          string             `env:"APPSYNC_REGION"`
	APIKey          string             `env:"APPSYNC_API_KEY"`
	DefaultAuthMode contracts.AuthMode `env:"APPSYNC_DEFAULT_AUTH_MODE" default:"API_KEY"`
	Timeout         time.Duration      `env:"APPSYNC_TIMEOUT" default:"15s"`
}

// Validate reports missing settings.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("missing required configuration: APPSYNC_GRAPHQL_ENDPOINT")
	}
	if c.DefaultAuthMode == contracts.AuthModeDefault {
		return errors.New("APPSYNC_DEFAULT_AUTH_MODE must name a concrete mode")
	}
	return nil
}

// Client executes item operations against the GraphQL endpoint. Every call builds
// its own request carrying the headers of its authorization mode.
type Client struct {
	gql    *graphql.Client
	config Config
	logger *logging.Logger
}

var _ contracts.DataService = (*Client)(nil)

// NewClient creates a client for cfg. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		gql:    graphql.NewClient(cfg.Endpoint, httpClient),
		config: cfg,
		logger: logging.Default().WithComponent("appsync_client"),
	}, nil
}

// ListItems returns every item, following nextToken pages one request at a time.
func (c *Client) ListItems(ctx context.Context, auth contracts.Authorization) ([]todo.Item, error) {
	items := make([]todo.Item, 0)
	var nextToken *string

	for {
		var data listBlogsData
		if err := c.exec(ctx, auth, OpListBlogs, listBlogsQuery, map[string]any{"nextToken": nextToken}, &data); err != nil {
			return nil, err
		}
		if data.ListBlogs == nil {
			return items, nil
		}
		for _, item := range data.ListBlogs.Items {
			if item != nil {
				items = append(items, *item)
			}
		}
		if data.ListBlogs.NextToken == nil || *data.ListBlogs.NextToken == "" {
			return items, nil
		}
		nextToken = data.ListBlogs.NextToken
	}
}

// GetItem returns the item with id, or contracts.ErrItemNotFound when getBlog is null.
func (c *Client) GetItem(ctx context.Context, auth contracts.Authorization, id string) (*todo.Item, error) {
	var data getBlogData
	if err := c.exec(ctx, auth, OpGetBlog, getBlogQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.GetBlog == nil {
		return nil, fmt.Errorf("%s %q: %w", OpGetBlog, id, contracts.ErrItemNotFound)
	}
	return data.GetBlog, nil
}

// CreateItem sends {input: {name}}. Content has no schema field and is not sent.
func (c *Client) CreateItem(ctx context.Context, auth contracts.Authorization, input todo.CreateItemInput) (*todo.Item, error) {
	var data createBlogData
	vars := map[string]any{"input": createBlogInput{Name: input.Name}}
	if err := c.exec(ctx, auth, OpCreateBlog, createPostMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.CreateBlog == nil {
		return nil, &contracts.ServiceError{
			Operation: OpCreateBlog,
			Errors:    []contracts.GraphQLError{{Message: "createBlog returned no item"}},
		}
	}
	return data.CreateBlog, nil
}

// DeleteItem deletes the item with id and returns the service's acknowledgment.
func (c *Client) DeleteItem(ctx context.Context, auth contracts.Authorization, id string) (*todo.Item, error) {
	var data deleteBlogData
	vars := map[string]any{"input": deleteBlogInput{ID: id}}
	if err := c.exec(ctx, auth, OpDeleteBlog, deleteBlogMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.DeleteBlog == nil {
		return nil, fmt.Errorf("%s %q: %w", OpDeleteBlog, id, contracts.ErrItemNotFound)
	}
	return data.DeleteBlog, nil
}

func (c *Client) exec(ctx context.Context, auth contracts.Authorization, operation, query string, variables map[string]any, out any) error {
	modifier, err := c.requestModifier(auth)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	start := time.Now()
	raw, err := c.gql.WithRequestModifier(modifier).ExecRaw(ctx, query, variables)
	c.logger.GraphQL("Data service call",
		"operation", operation,
		"auth_mode", string(c.resolveMode(auth)),
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil)
	if err != nil {
		return toServiceError(operation, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return contracts.NewServiceError(operation, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) resolveMode(auth contracts.Authorization) contracts.AuthMode {
	if auth.Mode == contracts.AuthModeDefault {
		return c.config.DefaultAuthMode
	}
	return auth.Mode
}

// requestModifier returns the header setter for the call's authorization mode.
func (c *Client) requestModifier(auth contracts.Authorization) (graphql.RequestModifier, error) {
	switch c.resolveMode(auth) {
	case contracts.AuthModeAPIKey:
		if c.config.APIKey == "" {
			return nil, errors.New("API_KEY auth mode requires APPSYNC_API_KEY")
		}
		apiKey := c.config.APIKey
		return func(r *http.Request) {
			r.Header.Set("x-api-key", apiKey)
		}, nil
	case contracts.AuthModeUserPool:
		if auth.Token == "" {
			return nil, contracts.ErrUnauthenticated
		}
		token := auth.Token
		return func(r *http.Request) {
			r.Header.Set("Authorization", token)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", auth.Mode)
	}
}

// toServiceError keeps the full error list the service returned.
func toServiceError(operation string, err error) error {
	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) || len(gqlErrs) == 0 {
		return contracts.NewServiceError(operation, err)
	}

	se := &contracts.ServiceError{Operation: operation, Cause: err}
	for _, e := range gqlErrs {
		ge := contracts.GraphQLError{
			Message:   e.Message,
			ErrorType: extensionString(e.Extensions, "errorType", "code"),
		}
		for _, segment := range e.Path {
			ge.Path = append(ge.Path, fmt.Sprint(segment))
		}
		se.Errors = append(se.Errors, ge)
	}
	return se
}

func extensionString(ext map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := ext[key].(string); ok {
			return v
		}
	}
	return ""
}
