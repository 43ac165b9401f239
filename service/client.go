package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"confdesk-cli/model"
)

const (
	defaultBaseURL     = "https://api.confdesk.com/v1"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// Client wraps HTTP access to the conference backend.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "confdesk api error"
	}
	return fmt.Sprintf("confdesk api error: %s: %s", e.Status, e.Body)
}

// Message extracts the backend's error payload when present, falling back
// to a generic string so the UI always has something to show.
func (e *APIError) Message() string {
	if e == nil {
		return "request failed"
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "request failed"
}

// IsNotFound reports whether the error represents a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a default
// client is used. CONFDESK_API overrides the backend base URL.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	baseURL := defaultBaseURL
	if env := strings.TrimSpace(os.Getenv("CONFDESK_API")); env != "" {
		baseURL = strings.TrimRight(env, "/")
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// GetConference fetches basic info plus every nested collection, used to
// hydrate the working set in edit mode.
func (c *Client) GetConference(ctx context.Context, id string) (model.Conference, error) {
	if id == "" {
		return model.Conference{}, errors.New("conference id is required")
	}
	var conf model.Conference
	if err := c.getJSON(ctx, fmt.Sprintf("%s/conference/%s", c.baseURL, url.PathEscape(id)), &conf); err != nil {
		return model.Conference{}, err
	}
	return conf, nil
}

func (c *Client) CreateConference(ctx context.Context, conf model.Conference) (model.Conference, error) {
	var created model.Conference
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/conference", conf, &created); err != nil {
		return model.Conference{}, err
	}
	if created.Id == "" {
		return model.Conference{}, errors.New("backend returned no conference id")
	}
	return created, nil
}

func (c *Client) UpdateConference(ctx context.Context, id string, conf model.Conference) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/conference/%s", c.baseURL, url.PathEscape(id)), conf, nil)
}

// CreatePrices creates ticket types in one batch. Phases ride along inside
// each ticket; the response carries the assigned ids in input order.
func (c *Client) CreatePrices(ctx context.Context, conferenceID string, tickets []model.TicketType) ([]model.TicketType, error) {
	req := struct {
		ConferenceId string             `json:"conferenceId"`
		Prices       []model.TicketType `json:"prices"`
	}{ConferenceId: conferenceID, Prices: tickets}

	var created []model.TicketType
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/price", req, &created); err != nil {
		return nil, err
	}
	if len(created) != len(tickets) {
		return nil, fmt.Errorf("backend created %d of %d prices", len(created), len(tickets))
	}
	return created, nil
}

func (c *Client) UpdatePrice(ctx context.Context, id string, ticket model.TicketType) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/price/%s", c.baseURL, url.PathEscape(id)), ticket, nil)
}

func (c *Client) DeletePrice(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/price/%s", c.baseURL, url.PathEscape(id)), nil, nil)
}

// UpdatePricePhase updates a single phase. Phases are never created on
// their own; creation happens bundled in CreatePrices.
func (c *Client) UpdatePricePhase(ctx context.Context, id string, phase model.PricePhase) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/pricePhase/%s", c.baseURL, url.PathEscape(id)), phase, nil)
}

func (c *Client) CreateSessions(ctx context.Context, conferenceID string, sessions []model.Session) ([]model.Session, error) {
	req := struct {
		ConferenceId string          `json:"conferenceId"`
		Sessions     []model.Session `json:"sessions"`
	}{ConferenceId: conferenceID, Sessions: sessions}

	var created []model.Session
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/session", req, &created); err != nil {
		return nil, err
	}
	if len(created) != len(sessions) {
		return nil, fmt.Errorf("backend created %d of %d sessions", len(created), len(sessions))
	}
	return created, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, session model.Session) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/session/%s", c.baseURL, url.PathEscape(id)), session, nil)
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/session/%s", c.baseURL, url.PathEscape(id)), nil, nil)
}

// UpdateSessionSpeakers replaces the speaker list of a persisted session.
func (c *Client) UpdateSessionSpeakers(ctx context.Context, sessionID string, speakers []model.Speaker) error {
	req := struct {
		SessionId string          `json:"sessionId"`
		Speakers  []model.Speaker `json:"speakers"`
	}{SessionId: sessionID, Speakers: speakers}
	return c.doJSON(ctx, http.MethodPatch, c.baseURL+"/sessionSpeaker", req, nil)
}

func (c *Client) CreatePolicies(ctx context.Context, conferenceID string, policies []model.Policy) ([]model.Policy, error) {
	req := struct {
		ConferenceId string         `json:"conferenceId"`
		Policies     []model.Policy `json:"policies"`
	}{ConferenceId: conferenceID, Policies: policies}

	var created []model.Policy
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/policy", req, &created); err != nil {
		return nil, err
	}
	if len(created) != len(policies) {
		return nil, fmt.Errorf("backend created %d of %d policies", len(created), len(policies))
	}
	return created, nil
}

func (c *Client) UpdatePolicy(ctx context.Context, id string, policy model.Policy) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/policy/%s", c.baseURL, url.PathEscape(id)), policy, nil)
}

func (c *Client) DeletePolicy(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/policy/%s", c.baseURL, url.PathEscape(id)), nil, nil)
}

func (c *Client) CreateRefundPolicies(ctx context.Context, conferenceID string, policies []model.RefundPolicy) ([]model.RefundPolicy, error) {
	req := struct {
		ConferenceId   string               `json:"conferenceId"`
		RefundPolicies []model.RefundPolicy `json:"refundPolicies"`
	}{ConferenceId: conferenceID, RefundPolicies: policies}

	var created []model.RefundPolicy
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/refundPolicy", req, &created); err != nil {
		return nil, err
	}
	if len(created) != len(policies) {
		return nil, fmt.Errorf("backend created %d of %d refund policies", len(created), len(policies))
	}
	return created, nil
}

func (c *Client) UpdateRefundPolicy(ctx context.Context, id string, policy model.RefundPolicy) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/refundPolicy/%s", c.baseURL, url.PathEscape(id)), policy, nil)
}

// CreateMedia uploads one media item. Local images become a file part;
// remote ones a plain imageUrl field. The finalize driver supplies the
// batching by fanning items out.
func (c *Client) CreateMedia(ctx context.Context, conferenceID string, item model.MediaItem) (model.MediaItem, error) {
	fields := map[string]string{"conferenceId": conferenceID, "caption": item.Caption}
	var created model.MediaItem
	if err := c.doMultipart(ctx, http.MethodPost, c.baseURL+"/media", fields, item.Image, &created); err != nil {
		return model.MediaItem{}, err
	}
	if created.Id == "" {
		return model.MediaItem{}, errors.New("backend returned no media id")
	}
	return created, nil
}

func (c *Client) UpdateMedia(ctx context.Context, id string, item model.MediaItem) error {
	fields := map[string]string{"caption": item.Caption}
	return c.doMultipart(ctx, http.MethodPatch, fmt.Sprintf("%s/media/%s", c.baseURL, url.PathEscape(id)), fields, item.Image, nil)
}

func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/media/%s", c.baseURL, url.PathEscape(id)), nil, nil)
}

func (c *Client) CreateSponsor(ctx context.Context, conferenceID string, sponsor model.Sponsor) (model.Sponsor, error) {
	fields := map[string]string{"conferenceId": conferenceID, "name": sponsor.Name, "tier": sponsor.Tier}
	var created model.Sponsor
	if err := c.doMultipart(ctx, http.MethodPost, c.baseURL+"/sponsor", fields, sponsor.Logo, &created); err != nil {
		return model.Sponsor{}, err
	}
	if created.Id == "" {
		return model.Sponsor{}, errors.New("backend returned no sponsor id")
	}
	return created, nil
}

func (c *Client) UpdateSponsor(ctx context.Context, id string, sponsor model.Sponsor) error {
	fields := map[string]string{"name": sponsor.Name, "tier": sponsor.Tier}
	return c.doMultipart(ctx, http.MethodPatch, fmt.Sprintf("%s/sponsor/%s", c.baseURL, url.PathEscape(id)), fields, sponsor.Logo, nil)
}

func (c *Client) DeleteSponsor(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/sponsor/%s", c.baseURL, url.PathEscape(id)), nil, nil)
}

// AvailableRooms lists bookable rooms for the given date range and place.
func (c *Client) AvailableRooms(ctx context.Context, start, end time.Time, city, destination string) ([]model.Room, error) {
	if start.IsZero() || end.IsZero() {
		return nil, errors.New("start and end dates are required")
	}
	query := url.Values{}
	query.Set("start", start.Format(time.DateOnly))
	query.Set("end", end.Format(time.DateOnly))
	if city != "" {
		query.Set("city", city)
	}
	if destination != "" {
		query.Set("destination", destination)
	}

	var rooms []model.Room
	if err := c.getJSON(ctx, c.baseURL+"/availableRooms?"+query.Encode(), &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// AvailableTimesInRoom lists the free spans of a room on a day. Spans are
// supplied by the backend; nothing is computed locally.
func (c *Client) AvailableTimesInRoom(ctx context.Context, roomID string, date time.Time) ([]model.DaySlot, error) {
	if roomID == "" {
		return nil, errors.New("room id is required")
	}
	query := url.Values{}
	query.Set("roomId", roomID)
	query.Set("date", date.Format(time.DateOnly))

	var slots []model.DaySlot
	if err := c.getJSON(ctx, c.baseURL+"/availableTimesInRoom?"+query.Encode(), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// SessionsInRoom lists the sessions already occupying a room on a day.
func (c *Client) SessionsInRoom(ctx context.Context, roomID string, date time.Time) ([]model.RoomSession, error) {
	if roomID == "" {
		return nil, errors.New("room id is required")
	}
	query := url.Values{}
	query.Set("roomId", roomID)
	query.Set("date", date.Format(time.DateOnly))

	var sessions []model.RoomSession
	if err := c.getJSON(ctx, c.baseURL+"/sessionsInRoom?"+query.Encode(), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			apiErr := newAPIError(res, endpoint)
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

// doJSON performs a write. Writes run a single attempt: retrying a create
// that may already have landed would duplicate it.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, endpoint, out)
}

// doMultipart performs a write whose payload carries an image. The ImageRef
// sum is resolved here and nowhere else: a local ref is read from disk into
// a file part, a remote ref travels as an imageUrl field.
func (c *Client) doMultipart(ctx context.Context, method, endpoint string, fields map[string]string, image model.ImageRef, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("encode field %s: %w", key, err)
		}
	}

	switch {
	case image.IsLocal():
		file, err := os.Open(image.Path)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		part, err := writer.CreateFormFile("image", filepath.Base(image.Path))
		if err != nil {
			_ = file.Close()
			return fmt.Errorf("encode image part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			_ = file.Close()
			return fmt.Errorf("read image: %w", err)
		}
		_ = file.Close()
	case image.IsRemote():
		if err := writer.WriteField("imageUrl", image.URL); err != nil {
			return fmt.Errorf("encode image url: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, endpoint, out)
}

func (c *Client) send(req *http.Request, endpoint string, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(res, endpoint)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
		return nil
	}

	dec := json.NewDecoder(res.Body)
	err = dec.Decode(out)
	_ = res.Body.Close()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func newAPIError(res *http.Response, endpoint string) *APIError {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
	_ = res.Body.Close()
	return &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Endpoint:   endpoint,
		Body:       strings.TrimSpace(string(snippet)),
	}
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
