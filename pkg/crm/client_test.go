package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leadbridge/leadbridge-api/internal/models"
	"github.com/leadbridge/leadbridge-api/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLead() *models.LeadPayload {
	return &models.LeadPayload{
		Name:        "Jane Doe",
		Email:       "jane@x.com",
		UsergroupID: "ug-42",
		SegmentID:   "seg-cro",
		Otherparams: []models.MetaParam{
			{MetaKey: "event_name", MetaValue: "Website CRO Meet"},
		},
	}
}

func TestForwardLead_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var lead models.LeadPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lead))
		assert.Equal(t, "jane@x.com", lead.Email)
		assert.Equal(t, "ug-42", lead.UsergroupID)
		require.Len(t, lead.Otherparams, 1)

		_, _ = w.Write([]byte(`{"status":"created"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpclient.NewStandardClient())

	body, err := client.ForwardLead(context.Background(), testLead())
	require.NoError(t, err)
	assert.Contains(t, body, "created")
}

func TestForwardLead_DownstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"email required"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpclient.NewStandardClient())

	_, err := client.ForwardLead(context.Background(), testLead())
	require.Error(t, err)

	var fwdErr *ForwardError
	require.True(t, errors.As(err, &fwdErr))
	assert.Equal(t, http.StatusUnprocessableEntity, fwdErr.StatusCode)
	assert.Contains(t, fwdErr.Details, "email required")
}

func TestForwardLead_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, httpclient.NewClientWithTimeout(time.Second))

	_, err := client.ForwardLead(context.Background(), testLead())
	require.Error(t, err)

	var fwdErr *ForwardError
	require.True(t, errors.As(err, &fwdErr))
	assert.Empty(t, fwdErr.Details)
	assert.Error(t, fwdErr.Unwrap())
}
