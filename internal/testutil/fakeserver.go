package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"

	"todoctl/internal/service"
)

// APIPrefix is the path prefix the fake backend serves under.
const APIPrefix = "/api"

// wireTodo is a todo as a Flask backend renders it: RFC 1123 timestamps in GMT.
type wireTodo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toWire(t service.Todo) wireTodo {
	return wireTodo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC().Format(http.TimeFormat),
		UpdatedAt:   t.UpdatedAt.UTC().Format(http.TimeFormat),
	}
}

// NewServer starts an HTTP backend over f. Its base URL is srv.URL + APIPrefix.
// Injected errors on f surface as 500 responses.
func NewServer(f *FakeService) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+APIPrefix+"/todos", func(w http.ResponseWriter, r *http.Request) {
		todos, err := f.ListTodos(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]wireTodo, 0, len(todos))
		for _, t := range todos {
			out = append(out, toWire(t))
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc("POST "+APIPrefix+"/todos", func(w http.ResponseWriter, r *http.Request) {
		var in service.TodoInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title is required"})
			return
		}
		created, err := f.CreateTodo(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toWire(created))
	})

	mux.HandleFunc("PUT "+APIPrefix+"/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Todo not found"})
			return
		}
		var t service.Todo
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		updated, err := f.UpdateTodo(r.Context(), id, t)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWire(updated))
	})

	mux.HandleFunc("DELETE "+APIPrefix+"/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Todo not found"})
			return
		}
		ack, err := f.DeleteTodo(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ack)
	})

	return httptest.NewServer(mux)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) && reqErr.Status != 0 {
		status = reqErr.Status
	}
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, status, map[string]string{"error": "Todo not found"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
