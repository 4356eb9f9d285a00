// Package contactapi is the HTTP client for the contacts API the console manages.
// It speaks plain JSON over net/http against the configured base URL.
package contactapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/givers/console/internal/model"
)

// DefaultTimeout bounds a single round-trip when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Client is the contacts API surface consumed by the enquiry store and pollers.
type Client interface {
	// FetchPage returns one page of enquiries matching q.
	FetchPage(ctx context.Context, q model.PagedQuery) (model.ListResult, error)
	// UpdateStatus sets the status of a single enquiry. Last writer wins.
	UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error
	// DeleteItem removes an enquiry. Deleting an unknown id succeeds.
	DeleteItem(ctx context.Context, id string) error
}

// RealClient is the net/http implementation of Client.
type RealClient struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a RealClient for baseURL. A zero timeout selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *RealClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RealClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a RealClient that uses hc for every request.
func NewClientWithHTTP(baseURL string, hc *http.Client) *RealClient {
	return &RealClient{BaseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

var _ Client = (*RealClient)(nil)

// contactDoc is the wire shape of one enquiry. Older deployments send "id"
// instead of "_id".
type contactDoc struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d contactDoc) toEnquiry() model.Enquiry {
	id := d.MongoID
	if id == "" {
		id = d.ID
	}
	status := model.EnquiryStatus(d.Status)
	if !status.Valid() {
		status = model.StatusNew
	}
	return model.Enquiry{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		Service:   d.Service,
		Message:   d.Message,
		Status:    status,
		CreatedAt: d.CreatedAt,
	}
}

type listResponse struct {
	Contacts      []contactDoc `json:"contacts"`
	TotalPages    int          `json:"totalPages"`
	TotalContacts int          `json:"totalContacts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchPage issues GET /api/contacts with the parameters derived from q.
func (c *RealClient) FetchPage(ctx context.Context, q model.PagedQuery) (model.ListResult, error) {
	if c.BaseURL == "" {
		return model.ListResult{}, &FetchError{Cause: ErrNotConfigured}
	}

	endpoint := c.BaseURL + "/api/contacts?" + q.Values().Encode()
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.ListResult{}, &FetchError{Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ListResult{}, &FetchError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.ListResult{}, &FetchError{StatusCode: resp.StatusCode, Cause: responseCause(resp)}
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.ListResult{}, &FetchError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}

	items := make([]model.Enquiry, 0, len(body.Contacts))
	for _, d := range body.Contacts {
		items = append(items, d.toEnquiry())
	}
	totalPages := body.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return model.ListResult{
		Items:      items,
		TotalItems: body.TotalContacts,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus issues PATCH /api/contacts/{id} with {"status": status}.
func (c *RealClient) UpdateStatus(ctx context.Context, id string, status model.EnquiryStatus) error {
	if c.BaseURL == "" {
		return &MutationError{Op: "update status", ID: id, Cause: ErrNotConfigured}
	}

	jsonBody, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return &MutationError{Op: "update status", ID: id, Cause: err}
	}

	resp, err := c.mutate(ctx, http.MethodPatch, id, jsonBody)
	if err != nil {
		return &MutationError{Op: "update status", ID: id, Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &MutationError{Op: "update status", ID: id, StatusCode: resp.StatusCode, Cause: ErrNotFound}
	case resp.StatusCode >= 400:
		return &MutationError{Op: "update status", ID: id, StatusCode: resp.StatusCode, Cause: responseCause(resp)}
	}
	return nil
}

// DeleteItem issues DELETE /api/contacts/{id}. A 404 is treated as success because
// the enquiry is already gone.
func (c *RealClient) DeleteItem(ctx context.Context, id string) error {
	if c.BaseURL == "" {
		return &MutationError{Op: "delete", ID: id, Cause: ErrNotConfigured}
	}

	resp, err := c.mutate(ctx, http.MethodDelete, id, nil)
	if err != nil {
		return &MutationError{Op: "delete", ID: id, Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode >= 400:
		return &MutationError{Op: "delete", ID: id, StatusCode: resp.StatusCode, Cause: responseCause(resp)}
	}
	return nil
}

func (c *RealClient) mutate(ctx context.Context, method, id string, body []byte) (*http.Response, error) {
	endpoint := c.BaseURL + "/api/contacts/" + url.PathEscape(id)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *RealClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// responseCause extracts the server's error code from a failed response, falling
// back to the HTTP status text.
func responseCause(resp *http.Response) error {
	var errResp errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&errResp); err == nil && errResp.Error != "" {
		return errors.New(errResp.Error)
	}
	return errors.New(strings.ToLower(http.StatusText(resp.StatusCode)))
}
