package ccapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"contact-importer/contacts"
)

// Client is the remote CRM contact API client. Authentication is per
// request: handlers forward the caller's OAuth access token.
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient creates a CRM API client for the given base URL
func NewClient(baseURL string) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	client.http = resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(60 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return false
			}
			// Retry on 429 (Too Many Requests) and 5xx server errors
			return r.StatusCode() == 429 || (r.StatusCode() >= 500 && r.StatusCode() <= 504)
		})

	return client
}

// ContactList is one page of the remote contact listing
type ContactList struct {
	Contacts      []contacts.Contact `json:"contacts"`
	ContactsCount int                `json:"contacts_count"`
	Links         struct {
		Next struct {
			Href string `json:"href"`
		} `json:"next"`
	} `json:"_links"`
}

// Activity is an asynchronous remote task (contact export/import) tracked by
// the provider
type Activity struct {
	ActivityID string `json:"activity_id"`
	State      string `json:"state"`
	Status     *struct {
		ItemsTotalCount int `json:"items_total_count"`
		ProcessedCount  int `json:"processed_count"`
	} `json:"status,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Links     struct {
		Results struct {
			Href string `json:"href"`
		} `json:"results"`
	} `json:"_links"`
}

// ActivityList is the remote task listing
type ActivityList struct {
	Activities []Activity `json:"activities"`
}

// ListContacts retrieves one page of contacts. A cursor from a previous
// page's _links.next continues the listing.
func (c *Client) ListContacts(ctx context.Context, token, cursor, limit string) (*ContactList, error) {
	params := map[string]string{
		"include":       "phone_numbers,street_addresses",
		"include_count": "true",
	}
	if limit != "" {
		params["limit"] = limit
	}
	if cursor != "" {
		params["cursor"] = cursor
	}

	resp, err := c.request(ctx, token).SetQueryParams(params).Get(c.url("/contacts"))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	var list ContactList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("failed to parse contact list: %w", err)
	}
	return &list, nil
}

// GetContact retrieves a single contact with its addresses and phone numbers
func (c *Client) GetContact(ctx context.Context, token, contactID string) (*contacts.Contact, error) {
	resp, err := c.request(ctx, token).
		SetQueryParam("include", "phone_numbers,street_addresses").
		Get(c.url("/contacts/" + contactID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	var contact contacts.Contact
	if err := json.Unmarshal(resp.Body(), &contact); err != nil {
		return nil, fmt.Errorf("failed to parse contact: %w", err)
	}
	return &contact, nil
}

// CreateContact creates one contact. The context carries the import
// session's cancel signal, so an in-flight call aborts when the session is
// canceled.
func (c *Client) CreateContact(ctx context.Context, token string, contact contacts.Contact) (*contacts.Contact, error) {
	resp, err := c.request(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(contact).
		Post(c.url("/contacts"))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	var created contacts.Contact
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return nil, fmt.Errorf("failed to parse created contact: %w", err)
	}
	return &created, nil
}

// DeleteContact removes a contact from the remote account
func (c *Client) DeleteContact(ctx context.Context, token, contactID string) error {
	resp, err := c.request(ctx, token).Delete(c.url("/contacts/" + contactID))
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !resp.IsSuccess() {
		return newAPIError(resp)
	}
	return nil
}

// CreateContactExport starts a remote export task for the full contact list
func (c *Client) CreateContactExport(ctx context.Context, token string) (*Activity, error) {
	resp, err := c.request(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{}).
		Post(c.url("/activities/contact_exports"))
	if err != nil {
		return nil, fmt.Errorf("failed to create export task: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	return parseActivity(resp.Body())
}

// ListActivities lists the provider's asynchronous tasks, newest first
func (c *Client) ListActivities(ctx context.Context, token string) (*ActivityList, error) {
	resp, err := c.request(ctx, token).Get(c.url("/activities"))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	var list ActivityList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("failed to parse task list: %w", err)
	}
	return &list, nil
}

// GetActivity retrieves the current state of one remote task
func (c *Client) GetActivity(ctx context.Context, token, activityID string) (*Activity, error) {
	resp, err := c.request(ctx, token).Get(c.url("/activities/" + activityID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	return parseActivity(resp.Body())
}

// DownloadResults fetches a completed task's result file. The href comes
// from the task's _links.results and may be relative to the API base.
func (c *Client) DownloadResults(ctx context.Context, token, href string) ([]byte, string, error) {
	url := href
	if !strings.HasPrefix(href, "http") {
		url = c.url("/" + strings.TrimPrefix(href, "/"))
	}

	resp, err := c.request(ctx, token).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download results: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, "", newAPIError(resp)
	}

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	return c.http.R().SetContext(ctx).SetAuthToken(token)
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func parseActivity(body []byte) (*Activity, error) {
	var activity Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		return nil, fmt.Errorf("failed to parse task: %w", err)
	}
	return &activity, nil
}
