package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithHTTPTimeout bounds each fetch. Zero disables the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.timeout = timeout
	}
}

// HTTPSource pulls entity metadata from a remote schema service exposing
// JSON endpoints per fetch kind:
//
//	GET <base>/<entity>/fields
//	GET <base>/<entity>/overrides
//	GET <base>/<entity>/behaviors
//	GET <base>/<entity>/workflow
//	GET <base>/<entity>/permissions
//
// Retries, backoff and caching are deliberately absent; they belong to the
// caller's client if wanted.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource builds a source rooted at baseURL.
func NewHTTPSource(baseURL string, options ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  http.DefaultClient,
		timeout: 30 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *HTTPSource) get(ctx context.Context, entity, kind string, out any) error {
	if s == nil || s.baseURL == "" {
		return errors.New("metadata: http source is not configured")
	}
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return errors.New("metadata: entity name is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if s.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	endpoint := s.baseURL + "/" + url.PathEscape(entity) + "/" + kind
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("metadata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("metadata: fetch %s for %q: %w", kind, entity, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return unknownEntity(entity)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("metadata: fetch %s for %q: unexpected status %s", kind, entity, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("metadata: read %s response: %w", kind, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("metadata: decode %s response: %w", kind, err)
	}
	return nil
}

func (s *HTTPSource) FetchFieldList(ctx context.Context, entity string) ([]Field, error) {
	var fields []Field
	if err := s.get(ctx, entity, "fields", &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *HTTPSource) FetchOverrides(ctx context.Context, entity string) ([]FieldOverride, error) {
	var overrides []FieldOverride
	if err := s.get(ctx, entity, "overrides", &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (s *HTTPSource) FetchClientBehavior(ctx context.Context, entity string) ([]BehaviorSnippet, error) {
	var snippets []BehaviorSnippet
	if err := s.get(ctx, entity, "behaviors", &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}

func (s *HTTPSource) FetchWorkflow(ctx context.Context, entity string) (*Workflow, error) {
	var workflow *Workflow
	if err := s.get(ctx, entity, "workflow", &workflow); err != nil {
		return nil, err
	}
	if workflow != nil && len(workflow.Transitions) == 0 && len(workflow.States) == 0 {
		return nil, nil
	}
	return workflow, nil
}

func (s *HTTPSource) FetchPermissions(ctx context.Context, entity string) ([]PermissionRule, error) {
	var rules []PermissionRule
	if err := s.get(ctx, entity, "permissions", &rules); err != nil {
		return nil, err
	}
	return rules, nil
}
