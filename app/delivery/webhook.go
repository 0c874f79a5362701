package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"feedrelay/app/article"
)

// WebhookMedium delivers articles as JSON payloads to an HTTP endpoint.
type WebhookMedium struct {
	id     string
	url    string
	client *http.Client
}

func NewWebhookMedium(id, url string, client *http.Client) *WebhookMedium {
	return &WebhookMedium{
		id:     id,
		url:    url,
		client: client,
	}
}

func (m *WebhookMedium) ID() string {
	return m.id
}

// DeliverArticle posts the article to the configured webhook. A 2xx response
// counts as sent, a 4xx as rejected by the destination, anything else as an
// internal failure.
func (m *WebhookMedium) DeliverArticle(ctx context.Context, a article.Article, details Details) State {
	if m.url == "" {
		return State{
			ID:              a.ID,
			MediumID:        m.id,
			Status:          StatusFailed,
			ErrorCode:       ErrorCodeNoDestination,
			InternalMessage: fmt.Sprintf("medium %s has no webhook URL configured", m.id),
		}
	}

	payload := map[string]any{
		"deliveryId": details.DeliveryID,
		"feed": map[string]string{
			"id":   details.FeedID,
			"name": details.FeedName,
			"url":  details.FeedURL,
		},
		"article": articlePayload(a),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return State{
			ID:              a.ID,
			MediumID:        m.id,
			Status:          StatusFailed,
			ErrorCode:       ErrorCodeInternal,
			InternalMessage: fmt.Sprintf("failed to marshal payload: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return State{
			ID:              a.ID,
			MediumID:        m.id,
			Status:          StatusFailed,
			ErrorCode:       ErrorCodeInternal,
			InternalMessage: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return State{
			ID:              a.ID,
			MediumID:        m.id,
			Status:          StatusFailed,
			ErrorCode:       ErrorCodeInternal,
			InternalMessage: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return State{
			ID:       a.ID,
			MediumID: m.id,
			Status:   StatusSent,
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return State{
			ID:              a.ID,
			MediumID:        m.id,
			Status:          StatusRejected,
			ErrorCode:       ErrorCodeBadRequest,
			InternalMessage: fmt.Sprintf("destination responded with HTTP %d", resp.StatusCode),
		}
	default:
		return State{
			ID:              a.ID,
			MediumID:        m.id,
			Status:          StatusFailed,
			ErrorCode:       ErrorCodeInternal,
			InternalMessage: fmt.Sprintf("destination responded with HTTP %d", resp.StatusCode),
		}
	}
}

func articlePayload(a article.Article) map[string]string {
	fields := make(map[string]string, len(a.Fields)+1)
	fields["id"] = a.ID
	for name, value := range a.Fields {
		fields[name] = value
	}
	return fields
}
