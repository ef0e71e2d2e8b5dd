package ccapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-importer/contacts"
)

func TestCreateContact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var contact contacts.Contact
		require.NoError(t, json.NewDecoder(r.Body).Decode(&contact))
		assert.Equal(t, "john@x.com", contact.EmailAddress.Address)
		assert.Equal(t, "Account", contact.CreateSource)

		contact.ContactID = "abc-123"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(contact)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	contact := contacts.Contact{
		FirstName:    "John",
		LastName:     "Doe",
		EmailAddress: contacts.EmailAddress{Address: "john@x.com", PermissionToSend: contacts.PermissionImplicit},
		CreateSource: contacts.CreateSourceAccount,
	}

	created, err := client.CreateContact(context.Background(), "test-token", contact)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", created.ContactID)
}

func TestCreateContact_StructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`[{"error_key":"contacts.api.duplicate","error_message":"Email address already exists"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.CreateContact(context.Background(), "test-token", contacts.Contact{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Email address already exists", err.Error())
}

func TestCreateContact_UnstructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("nope"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.CreateContact(context.Background(), "test-token", contacts.Contact{})
	require.Error(t, err)
	assert.Equal(t, "remote API returned HTTP 400", err.Error())
}

func TestCreateContact_CanceledContext(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels r.Context(); otherwise the handler never unblocks and
		// server.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.CreateContact(ctx, "test-token", contacts.Contact{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "Cancellation must surface unwrapped for the session to detect")
}

func TestListContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "phone_numbers,street_addresses", query.Get("include"))
		assert.Equal(t, "true", query.Get("include_count"))
		assert.Equal(t, "50", query.Get("limit"))
		assert.Equal(t, "next-page", query.Get("cursor"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"contacts": [{"contact_id":"c1","first_name":"John"}],
			"contacts_count": 1,
			"_links": {"next": {"href": "/v3/contacts?cursor=page-2"}}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	list, err := client.ListContacts(context.Background(), "test-token", "next-page", "50")
	require.NoError(t, err)
	require.Len(t, list.Contacts, 1)
	assert.Equal(t, "c1", list.Contacts[0].ContactID)
	assert.Equal(t, 1, list.ContactsCount)
	assert.Equal(t, "/v3/contacts?cursor=page-2", list.Links.Next.Href)
}

func TestDeleteContact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	assert.NoError(t, client.DeleteContact(context.Background(), "test-token", "c1"))
}

func TestGetActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/a1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"activity_id": "a1",
			"state": "completed",
			"status": {"items_total_count": 10, "processed_count": 10},
			"_links": {"results": {"href": "/activities/a1/results"}}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	activity, err := client.GetActivity(context.Background(), "test-token", "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", activity.ActivityID)
	assert.Equal(t, "completed", activity.State)
	require.NotNil(t, activity.Status)
	assert.Equal(t, 10, activity.Status.ItemsTotalCount)
	assert.Equal(t, "/activities/a1/results", activity.Links.Results.Href)
}

func TestDownloadResults_RelativeHref(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/a1/results", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("first_name,email\nJohn,john@x.com\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	body, contentType, err := client.DownloadResults(context.Background(), "test-token", "/activities/a1/results")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(body), "john@x.com")
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"contacts": [], "contacts_count": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	list, err := client.ListContacts(context.Background(), "test-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, list.ContactsCount)
	assert.Equal(t, 2, attempts, "One retry after the 503")
}
