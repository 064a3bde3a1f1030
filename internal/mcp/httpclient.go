package mcp

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

	"github.com/claude/liftcoach/internal/models"
)

// HTTPClient implements DataSource by calling the LiftCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

var errNotFound = fmt.Errorf("httpclient: not found")

// ExerciseHistory fetches recent sessions for one exercise.
func (c *HTTPClient) ExerciseHistory(ctx context.Context, _ int, exercise string, limit int) ([]models.SessionRecord, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/history/"+url.PathEscape(exercise), params)
	if err != nil {
		return nil, err
	}
	var records []models.SessionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return records, nil
}

// ListExercises fetches the distinct exercise names with logged history.
func (c *HTTPClient) ListExercises(ctx context.Context, _ int) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/exercises/logged", nil)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("httpclient: decode logged exercises: %w", err)
	}
	return names, nil
}

// GetEquipment fetches the lifter's equipment tokens.
func (c *HTTPClient) GetEquipment(ctx context.Context, _ int) (models.EquipmentSet, error) {
	body, err := c.get(ctx, "/api/v1/equipment", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Tokens []string `json:"tokens"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode equipment: %w", err)
	}
	return models.NewEquipmentSet(resp.Tokens...), nil
}

// ActivePainFlags fetches the lifter's active pain flags.
func (c *HTTPClient) ActivePainFlags(ctx context.Context, _ int) ([]models.PainFlag, error) {
	body, err := c.get(ctx, "/api/v1/pain", nil)
	if err != nil {
		return nil, err
	}
	var flags []models.PainFlag
	if err := json.Unmarshal(body, &flags); err != nil {
		return nil, fmt.Errorf("httpclient: decode pain flags: %w", err)
	}
	return flags, nil
}

// GetTemplateSlots fetches a workout template. An unknown template comes
// back as no slots, matching the database behavior.
func (c *HTTPClient) GetTemplateSlots(ctx context.Context, _ int, name string) ([]models.ExerciseSlot, error) {
	body, err := c.get(ctx, "/api/v1/templates/"+url.PathEscape(name), nil)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp struct {
		Slots []models.ExerciseSlot `json:"slots"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode template: %w", err)
	}
	return resp.Slots, nil
}

// ListTemplates fetches the lifter's template names.
func (c *HTTPClient) ListTemplates(ctx context.Context, _ int) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/templates", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Templates []string `json:"templates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode templates: %w", err)
	}
	return resp.Templates, nil
}
