package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

func TestClient_UpsertPreference(t *testing.T) {
	email := "peev@abv.bg"

	tests := []struct {
		name        string
		enabled     bool
		contactInfo *string
		handler     http.HandlerFunc
		wantErr     error
	}{
		{
			name:        "success with email",
			enabled:     true,
			contactInfo: &email,
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req UpsertPreferenceRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "user-1", req.UserUID)
				assert.True(t, req.Enabled)
				require.NotNil(t, req.ContactInfo)
				assert.Equal(t, email, *req.ContactInfo)
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name:        "success disabled",
			enabled:     false,
			contactInfo: nil,
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req UpsertPreferenceRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.False(t, req.Enabled)
				assert.Nil(t, req.ContactInfo)
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name:    "server error maps to service unavailable",
			enabled: false,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: models.ErrNotificationService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, time.Second)
			err := client.UpsertPreference(context.Background(), "user-1", tt.enabled, tt.contactInfo)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestClient_UpsertPreference_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.UpsertPreference(context.Background(), "user-1", false, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotificationService)
}

func TestClient_GetPreference(t *testing.T) {
	email := "peev@abv.bg"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", r.URL.Query().Get("user_uid"))
		resp := map[string]any{
			"status": "OK",
			"data": models.NotificationPreference{
				UserUID:     "user-1",
				Type:        models.NotificationTypeEmail,
				Enabled:     true,
				ContactInfo: &email,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	pref, err := client.GetPreference(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.True(t, pref.Enabled)
	require.NotNil(t, pref.ContactInfo)
	assert.Equal(t, email, *pref.ContactInfo)
}
