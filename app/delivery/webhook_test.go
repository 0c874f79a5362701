package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedrelay/app/article"
)

func testArticle() article.Article {
	return article.Article{
		ID: "article-1",
		Fields: map[string]string{
			"title": "Hello",
			"link":  "https://example.com/hello",
		},
	}
}

func testDetails() Details {
	return Details{
		DeliveryID: "feed-1-12345",
		MediumID:   "medium-1",
		FeedID:     "feed-1",
		FeedName:   "Example",
		FeedURL:    "https://example.com/rss.xml",
	}
}

func TestWebhookDeliverSent(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	medium := NewWebhookMedium("medium-1", server.URL, server.Client())
	state := medium.DeliverArticle(context.Background(), testArticle(), testDetails())

	if state.Status != StatusSent {
		t.Fatalf("expected sent, got %s (%s)", state.Status, state.InternalMessage)
	}
	if state.ID != "article-1" || state.MediumID != "medium-1" {
		t.Errorf("unexpected state identity: %+v", state)
	}
	if state.ErrorCode != "" {
		t.Errorf("sent state must not carry an error code, got %q", state.ErrorCode)
	}

	articlePayload, ok := received["article"].(map[string]any)
	if !ok {
		t.Fatalf("expected article object in payload, got %v", received)
	}
	if articlePayload["id"] != "article-1" || articlePayload["title"] != "Hello" {
		t.Errorf("unexpected article payload: %v", articlePayload)
	}
}

func TestWebhookDeliverRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	medium := NewWebhookMedium("medium-1", server.URL, server.Client())
	state := medium.DeliverArticle(context.Background(), testArticle(), testDetails())

	if state.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", state.Status)
	}
	if state.ErrorCode != ErrorCodeBadRequest {
		t.Errorf("expected %s, got %s", ErrorCodeBadRequest, state.ErrorCode)
	}
}

func TestWebhookDeliverServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	medium := NewWebhookMedium("medium-1", server.URL, server.Client())
	state := medium.DeliverArticle(context.Background(), testArticle(), testDetails())

	if state.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", state.Status)
	}
	if state.ErrorCode != ErrorCodeInternal {
		t.Errorf("expected %s, got %s", ErrorCodeInternal, state.ErrorCode)
	}
}

func TestWebhookDeliverNoURL(t *testing.T) {
	medium := NewWebhookMedium("medium-1", "", http.DefaultClient)
	state := medium.DeliverArticle(context.Background(), testArticle(), testDetails())

	if state.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", state.Status)
	}
	if state.ErrorCode != ErrorCodeNoDestination {
		t.Errorf("expected %s, got %s", ErrorCodeNoDestination, state.ErrorCode)
	}
}

func TestWebhookDeliverTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	medium := NewWebhookMedium("medium-1", server.URL, http.DefaultClient)
	state := medium.DeliverArticle(context.Background(), testArticle(), testDetails())

	if state.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", state.Status)
	}
	if state.ErrorCode != ErrorCodeInternal {
		t.Errorf("expected %s, got %s", ErrorCodeInternal, state.ErrorCode)
	}
}
