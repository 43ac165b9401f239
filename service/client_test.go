package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"confdesk-cli/model"
)

func testClient(server *httptest.Server) *Client {
	client := NewClient(server.Client())
	client.baseURL = server.URL
	client.maxAttempts = 3
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond
	return client
}

func TestGetJSON_Non2xxReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := testClient(server)
	client.maxAttempts = 1

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","name":"GopherConf"}`))
	}))
	defer server.Close()

	client := testClient(server)

	conf, err := client.GetConference(context.Background(), "c1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if conf.Name != "GopherConf" {
		t.Fatalf("unexpected conference: %+v", conf)
	}
}

func TestDoJSON_WritesNeverRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	}))
	defer server.Close()

	client := testClient(server)

	_, err := client.CreateConference(context.Background(), model.Conference{Name: "GopherConf"})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestCreatePrices_AssignsIdsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/price" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","name":"General"},{"id":"p2","name":"Student"}]`))
	}))
	defer server.Close()

	client := testClient(server)

	created, err := client.CreatePrices(context.Background(), "c1", []model.TicketType{{Name: "General"}, {Name: "Student"}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(created) != 2 || created[0].Id != "p1" || created[1].Id != "p2" {
		t.Fatalf("unexpected response: %+v", created)
	}
}

func TestCreatePrices_CountMismatchIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1"}]`))
	}))
	defer server.Close()

	client := testClient(server)

	_, err := client.CreatePrices(context.Background(), "c1", []model.TicketType{{Name: "General"}, {Name: "Student"}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateSponsor_LocalImageBecomesFilePart(t *testing.T) {
	logo := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(logo, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("name"); got != "ACME" {
			t.Fatalf("unexpected name field: %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		defer file.Close()
		if header.Filename != "logo.png" {
			t.Fatalf("unexpected filename: %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"s1","name":"ACME"}`))
	}))
	defer server.Close()

	client := testClient(server)

	created, err := client.CreateSponsor(context.Background(), "c1", model.Sponsor{Name: "ACME", Tier: "gold", Logo: model.LocalImage(logo)})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Id != "s1" {
		t.Fatalf("unexpected sponsor: %+v", created)
	}
}

func TestCreateSponsor_RemoteImageBecomesURLField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("imageUrl"); got != "https://cdn.example/logo.png" {
			t.Fatalf("unexpected imageUrl: %q", got)
		}
		if _, _, err := r.FormFile("image"); err == nil {
			t.Fatal("expected no file part for a remote image")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"s2"}`))
	}))
	defer server.Close()

	client := testClient(server)

	created, err := client.CreateSponsor(context.Background(), "c1", model.Sponsor{Name: "ACME", Logo: model.RemoteImage("https://cdn.example/logo.png")})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.Id != "s2" {
		t.Fatalf("unexpected sponsor: %+v", created)
	}
}

func TestAvailableTimesInRoom_QueryShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/availableTimesInRoom" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("roomId") != "room-1" || r.URL.Query().Get("date") != "2026-03-05" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"roomId":"room-1","start":"2026-03-05T09:00:00Z","end":"2026-03-05T12:00:00Z"}]`))
	}))
	defer server.Close()

	client := testClient(server)

	slots, err := client.AvailableTimesInRoom(context.Background(), "room-1", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(slots) != 1 || slots[0].RoomId != "room-1" {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestAPIError_Message(t *testing.T) {
	withPayload := &APIError{Body: `{"message":"sale window closed"}`}
	if got := withPayload.Message(); got != "sale window closed" {
		t.Fatalf("unexpected message: %q", got)
	}
	plain := &APIError{Body: "<html>gateway timeout</html>"}
	if got := plain.Message(); got != "request failed" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
