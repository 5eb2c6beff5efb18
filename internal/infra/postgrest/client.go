package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	leadsPath        = "/rest/v1/leads"
	interactionsPath = "/rest/v1/interactions"
)

// Client talks to a PostgREST endpoint (Supabase style). It implements the
// lead and interaction stores with the same semantics as the SQL backend.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Insert posts a single row and asks for the stored representation back.
// 409 means the unique index fired; a 2xx with an empty array is an echo
// without a row.
func (c *Client) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	body, err := json.Marshal(toRow(lead))
	if err != nil {
		return nil, eris.Wrap(err, "postgrest: marshal lead")
	}

	resp, err := c.do(ctx, http.MethodPost, leadsPath, nil, body)
	if err != nil {
		return nil, eris.Wrap(err, "postgrest: insert lead")
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, "insert lead"); err != nil {
		return nil, err
	}

	var rows []leadRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "postgrest: decode inserted lead")
	}
	if len(rows) == 0 {
		return nil, eris.Wrap(entity.ErrEmptyEcho, "postgrest: insert lead")
	}
	return rows[0].toEntity(), nil
}

// PromoteStatus patches only rows still in the from status, so concurrent
// edits made after capture are never overwritten.
func (c *Client) PromoteStatus(ctx context.Context, id string, from, to entity.LeadStatus) (bool, error) {
	body, err := json.Marshal(statusPatch{Status: string(to)})
	if err != nil {
		return false, eris.Wrap(err, "postgrest: marshal status")
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("status", "eq."+string(from))

	resp, err := c.do(ctx, http.MethodPatch, leadsPath, q, body)
	if err != nil {
		return false, eris.Wrap(err, "postgrest: promote status")
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, "promote status"); err != nil {
		return false, err
	}

	var rows []leadRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return false, eris.Wrap(err, "postgrest: decode promoted lead")
	}
	return len(rows) > 0, nil
}

func (c *Client) Append(ctx context.Context, in *entity.Interaction) error {
	row := interactionRow{
		ID:           in.ID,
		LeadID:       in.LeadID,
		Type:         in.Type,
		Summary:      optional(in.Summary),
		Date:         in.Date,
		RecordingURL: optional(in.RecordingURL),
	}
	body, err := json.Marshal(row)
	if err != nil {
		return eris.Wrap(err, "postgrest: marshal interaction")
	}

	resp, err := c.do(ctx, http.MethodPost, interactionsPath, nil, body)
	if err != nil {
		return eris.Wrap(err, "postgrest: append interaction")
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, "append interaction"); err != nil {
		return err
	}

	var rows []interactionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return eris.Wrap(err, "postgrest: decode interaction")
	}
	if len(rows) == 0 {
		return eris.Wrap(entity.ErrEmptyEcho, "postgrest: append interaction")
	}
	in.ID = rows[0].ID
	if rows[0].CreatedAt != nil {
		in.CreatedAt = *rows[0].CreatedAt
	}
	return nil
}

// Ping issues a zero-row select against the leads resource.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "0")

	resp, err := c.do(ctx, http.MethodGet, leadsPath, q, nil)
	if err != nil {
		return eris.Wrap(err, "postgrest: ping")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return eris.Errorf("postgrest: ping returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.http.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")
}

// checkStatus maps non-2xx responses onto the store sentinels.
func (c *Client) checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	c.logger.Debug("postgrest non-2xx response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body),
	)

	detail := fmt.Sprintf("postgrest: %s (status %d)", op, resp.StatusCode)
	if resp.StatusCode == http.StatusConflict {
		return eris.Wrap(entity.ErrDuplicateLead, detail)
	}
	return eris.Wrap(entity.ErrStoreRejected, detail)
}
