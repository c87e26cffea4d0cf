// Package notification реализует HTTP-клиент сервиса уведомлений.
//
// Сервис уведомлений — внешний коллаборатор: любой сетевой сбой или ответ
// с кодом 5xx оборачивается в models.ErrNotificationService, чтобы вызывающая
// сторона могла решить, откатывать ли объемлющую операцию.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Client — клиент notification-svc.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент сервиса уведомлений.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UpsertPreference сохраняет настройку уведомлений пользователя.
func (c *Client) UpsertPreference(ctx context.Context, userUID string, enabled bool, contactInfo *string) error {
	const op = "notification.UpsertPreference"

	body := UpsertPreferenceRequest{
		UserUID:     userUID,
		Type:        models.NotificationTypeEmail,
		Enabled:     enabled,
		ContactInfo: contactInfo,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/preferences", &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrNotificationService, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %w: unexpected status %s", op, models.ErrNotificationService, resp.Status)
	}
	return nil
}

// GetPreference возвращает настройку уведомлений пользователя.
func (c *Client) GetPreference(ctx context.Context, userUID string) (*models.NotificationPreference, error) {
	const op = "notification.GetPreference"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/preferences?user_uid="+userUID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrNotificationService, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: unexpected status %s", op, models.ErrNotificationService, resp.Status)
	}

	var envelope struct {
		Status string                         `json:"status"`
		Data   *models.NotificationPreference `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.Data, nil
}
