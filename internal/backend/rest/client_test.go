package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todoctl/internal/backend/rest"
	"todoctl/internal/config"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

func newClient(t *testing.T, fake *testutil.FakeService) *rest.Client {
	t.Helper()
	srv := testutil.NewServer(fake)
	t.Cleanup(srv.Close)
	return rest.NewWithHTTPClient(srv.URL+testutil.APIPrefix, srv.Client(), nil)
}

func TestClient_ListTodos(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTodo("Buy milk", "", false)
	fake.AddTodo("Buy eggs", "free range", true)
	client := newClient(t, fake)

	todos, err := client.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[0].Title != "Buy milk" || todos[1].Title != "Buy eggs" {
		t.Errorf("expected server order, got %q, %q", todos[0].Title, todos[1].Title)
	}
	if !todos[1].Completed || todos[1].Description != "free range" {
		t.Errorf("unexpected second todo: %+v", todos[1])
	}

	want := fake.Todos()[0].CreatedAt
	if !todos[0].CreatedAt.Equal(want.Time) {
		t.Errorf("expected created_at %v, got %v", want.Time, todos[0].CreatedAt.Time)
	}
}

func TestClient_ListTodos_Empty(t *testing.T) {
	client := newClient(t, testutil.NewFakeService())

	todos, err := client.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", todos)
	}
}

func TestClient_CreateUpdateDelete(t *testing.T) {
	fake := testutil.NewFakeService()
	client := newClient(t, fake)
	ctx := context.Background()

	created, err := client.CreateTodo(ctx, service.TodoInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected server-assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected server-assigned timestamps")
	}

	toggled := created
	toggled.Completed = true
	updated, err := client.UpdateTodo(ctx, created.ID, toggled)
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !updated.Completed {
		t.Error("expected completed after update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt.Time) {
		t.Errorf("expected updated_at to advance, got %v then %v", created.UpdatedAt.Time, updated.UpdatedAt.Time)
	}

	ack, err := client.DeleteTodo(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if ack.Message != "Todo deleted" {
		t.Errorf("expected ack message, got %q", ack.Message)
	}
	if len(fake.Todos()) != 0 {
		t.Errorf("expected backend empty, got %d", len(fake.Todos()))
	}
}

func TestClient_NotFoundIsRequestFailure(t *testing.T) {
	client := newClient(t, testutil.NewFakeService())

	_, err := client.UpdateTodo(context.Background(), 99, service.Todo{ID: 99, Title: "ghost"})
	if !errors.Is(err, service.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}

	var reqErr *service.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Op != service.OpUpdate || reqErr.Status != http.StatusNotFound {
		t.Errorf("expected update/404, got %s/%d", reqErr.Op, reqErr.Status)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *googleapi.Error in chain, got %v", err)
	}
	if apiErr.Code != http.StatusNotFound {
		t.Errorf("expected code 404, got %d", apiErr.Code)
	}
}

func TestClient_ServerErrorIsRequestFailure(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.ListErr = errors.New("database down")
	client := newClient(t, fake)

	_, err := client.ListTodos(context.Background())
	if !errors.Is(err, service.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestClient_TransportErrorIsRequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := rest.NewWithHTTPClient(baseURL, &http.Client{}, nil)
	_, err := client.DeleteTodo(context.Background(), 1)
	if !errors.Is(err, service.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) && reqErr.Status != 0 {
		t.Errorf("expected no status for transport error, got %d", reqErr.Status)
	}
}

func TestClient_UndecodableBodyIsRequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	client := rest.NewWithHTTPClient(srv.URL, srv.Client(), nil)
	_, err := client.ListTodos(context.Background())
	if !errors.Is(err, service.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "title": "x", "description": "", "completed": false}`))
	}))
	defer srv.Close()

	client := rest.NewWithHTTPClient(srv.URL, srv.Client(), nil)
	if _, err := client.CreateTodo(context.Background(), service.TodoInput{Title: "x"}); err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	if got.Get("Content-Type") != "application/json" {
		t.Errorf("expected json content type, got %q", got.Get("Content-Type"))
	}
	if got.Get("Accept") != "application/json" {
		t.Errorf("expected json accept, got %q", got.Get("Accept"))
	}
	if got.Get(rest.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestNew_BearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg, _ := config.New(t.TempDir())
	cfg.APIURL = srv.URL
	cfg.Token = &oauth2.Token{AccessToken: "secret", TokenType: "Bearer"}

	client, err := rest.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.ListTodos(context.Background()); err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", auth)
	}
}

func TestNew_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg, _ := config.New(t.TempDir())
	cfg.APIURL = srv.URL
	cfg.Timeout = 50 * time.Millisecond

	client, err := rest.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.ListTodos(context.Background())
	if !errors.Is(err, service.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestNew_RequiresURL(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	cfg.APIURL = " "
	if _, err := rest.New(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for empty api url")
	}
}
