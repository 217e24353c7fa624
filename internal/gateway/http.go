package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tacticshub/pkg/models"
)

// HTTPGateway implements Gateway against the tacticshub HTTP API.
type HTTPGateway struct {
	BaseURL string
	Client  *http.Client
	Token   string
	logger  *log.Logger
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL string, client *http.Client, token string, logger *log.Logger) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		Token:   token,
		logger:  logger,
	}
}

func (g *HTTPGateway) GetUnits(ctx context.Context) ([]models.Unit, error) {
	return list[models.Unit](ctx, g, "units")
}

func (g *HTTPGateway) GetTraits(ctx context.Context) ([]models.Trait, error) {
	return list[models.Trait](ctx, g, "traits")
}

func (g *HTTPGateway) GetComponents(ctx context.Context) ([]models.Component, error) {
	return list[models.Component](ctx, g, "components")
}

func (g *HTTPGateway) GetItems(ctx context.Context) ([]models.Item, error) {
	return list[models.Item](ctx, g, "items")
}

func (g *HTTPGateway) SaveUnit(ctx context.Context, u models.Unit) (*models.Unit, error) {
	return send[models.Unit](ctx, g, http.MethodPost, "units", u)
}

func (g *HTTPGateway) UpdateUnit(ctx context.Context, u models.Unit) (*models.Unit, error) {
	return send[models.Unit](ctx, g, http.MethodPut, "units", u)
}

func (g *HTTPGateway) DeleteUnit(ctx context.Context, id string) error {
	return g.remove(ctx, "units", id)
}

func (g *HTTPGateway) SaveTrait(ctx context.Context, t models.Trait) (*models.Trait, error) {
	return send[models.Trait](ctx, g, http.MethodPost, "traits", t)
}

func (g *HTTPGateway) UpdateTrait(ctx context.Context, t models.Trait) (*models.Trait, error) {
	return send[models.Trait](ctx, g, http.MethodPut, "traits", t)
}

func (g *HTTPGateway) DeleteTrait(ctx context.Context, id string) error {
	return g.remove(ctx, "traits", id)
}

func (g *HTTPGateway) SaveComponent(ctx context.Context, c models.Component) (*models.Component, error) {
	return send[models.Component](ctx, g, http.MethodPost, "components", c)
}

func (g *HTTPGateway) UpdateComponent(ctx context.Context, c models.Component) (*models.Component, error) {
	return send[models.Component](ctx, g, http.MethodPut, "components", c)
}

func (g *HTTPGateway) DeleteComponent(ctx context.Context, id string) error {
	return g.remove(ctx, "components", id)
}

func (g *HTTPGateway) SaveItem(ctx context.Context, i models.Item) (*models.Item, error) {
	return send[models.Item](ctx, g, http.MethodPost, "items", i)
}

func (g *HTTPGateway) UpdateItem(ctx context.Context, i models.Item) (*models.Item, error) {
	return send[models.Item](ctx, g, http.MethodPut, "items", i)
}

func (g *HTTPGateway) DeleteItem(ctx context.Context, id string) error {
	return g.remove(ctx, "items", id)
}

func (g *HTTPGateway) GetCompositions(ctx context.Context, q CompositionQuery) ([]models.Composition, error) {
	params := url.Values{}
	if q.UserID != "" {
		params.Set("userId", q.UserID)
	}
	if q.PublicOnly {
		params.Set("public", "true")
	}
	path := "compositions"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return list[models.Composition](ctx, g, path)
}

func (g *HTTPGateway) SaveComposition(ctx context.Context, c models.Composition) (*models.Composition, error) {
	return send[models.Composition](ctx, g, http.MethodPost, "compositions", c)
}

func (g *HTTPGateway) UpdateComposition(ctx context.Context, p models.CompositionPatch) (*models.Composition, error) {
	return send[models.Composition](ctx, g, http.MethodPut, "compositions", p)
}

func (g *HTTPGateway) DeleteComposition(ctx context.Context, id string) error {
	return g.remove(ctx, "compositions", id)
}

func list[T validator](ctx context.Context, g *HTTPGateway, path string) ([]T, error) {
	var out []T
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	kind := path
	if i := strings.IndexByte(kind, '?'); i >= 0 {
		kind = kind[:i]
	}
	return keepValid(g.logger, kind, out), nil
}

// send writes one entity and returns the stored copy. A null body or a
// record that fails validation counts as a rejected write.
func send[T validator](ctx context.Context, g *HTTPGateway, method, path string, payload any) (*T, error) {
	var out *T
	if err := g.doJSON(ctx, method, path, payload, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%s %s: null response: %w", method, path, ErrRejected)
	}
	if err := (*out).Validate(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrRejected, err)
	}
	return out, nil
}

func (g *HTTPGateway) remove(ctx context.Context, path, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete %s: %w", path, models.ErrInvalidID)
	}
	return g.doJSON(ctx, http.MethodDelete, path+"?id="+url.QueryEscape(id), nil, nil)
}

// Call sends one JSON request to an API path such as "auth/login" and decodes
// the answer into out when out is non-nil. Failures wrap ErrRejected or
// ErrNotFound like every other gateway call.
func (g *HTTPGateway) Call(ctx context.Context, method, path string, payload, out any) error {
	return g.doJSON(ctx, method, path, payload, out)
}

func (g *HTTPGateway) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	endpoint := g.BaseURL + "/api/" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readError(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s %s: %w: %s", method, path, ErrNotFound, msg)
		}
		return fmt.Errorf("%s %s: %w: %d %s", method, path, ErrRejected, resp.StatusCode, msg)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response: %w", method, path, ErrRejected)
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func readError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(b))
}
