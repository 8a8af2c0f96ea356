package store

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
)

func testServer(t *testing.T) (*Server, *FileStore) {
	t.Helper()
	fs := tempStore(t)
	return NewServer(fs, slog.Default()), fs
}

func doJSON(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestCreateAndListMessages(t *testing.T) {
	srv, _ := testServer(t)

	w := doJSON(t, srv, "POST", "/messages",
		`{"uuid":"u-1","sessionID":"P1","message":"hi","timestamp":3,"rating":4,"comment":"ok"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var created message.Message
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected server-assigned id 1, got %d", created.ID)
	}

	w = doJSON(t, srv, "GET", "/messages?sessionID=P1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listed []message.Message
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Message != "hi" {
		t.Errorf("unexpected list: %+v", listed)
	}
}

func TestListMessages_SortAndFilter(t *testing.T) {
	srv, fs := testServer(t)
	fs.Create(message.Message{SessionID: "P1", Message: "late", Timestamp: 9})
	fs.Create(message.Message{SessionID: "P1", Message: "early", Timestamp: 2})
	fs.Create(message.Message{SessionID: "P2", Message: "other", Timestamp: 1})

	w := doJSON(t, srv, "GET", "/messages?sessionID=P1&_sort=timestamp&_order=asc", "")
	var listed []message.Message
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 2 || listed[0].Message != "early" || listed[1].Message != "late" {
		t.Errorf("expected ascending timestamp order, got %+v", listed)
	}

	w = doJSON(t, srv, "GET", "/messages?sessionID=P1&timestamp_lte=5", "")
	listed = nil
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Message != "early" {
		t.Errorf("expected timestamp_lte filter, got %+v", listed)
	}
}

func TestPatchMessage(t *testing.T) {
	srv, fs := testServer(t)
	created, _ := fs.Create(message.Message{SessionID: "P1", Rating: 3, Comment: "before"})

	w := doJSON(t, srv, "PATCH", "/messages/"+strconv.Itoa(created.ID), `{"rating":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var updated message.Message
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Rating != 0 {
		t.Errorf("expected rating reset to 0, got %d", updated.Rating)
	}
	if updated.Comment != "before" {
		t.Errorf("expected comment untouched, got %q", updated.Comment)
	}
}

func TestPatchMessage_NotFound(t *testing.T) {
	srv, _ := testServer(t)

	w := doJSON(t, srv, "PATCH", "/messages/99", `{"rating":1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDeleteMessage(t *testing.T) {
	srv, fs := testServer(t)
	created, _ := fs.Create(message.Message{SessionID: "P1"})

	w := doJSON(t, srv, "DELETE", "/messages/"+strconv.Itoa(created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, srv, "DELETE", "/messages/"+strconv.Itoa(created.ID), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on repeat delete, got %d", w.Code)
	}
}

func TestListMessages_InvalidTimestampLTE(t *testing.T) {
	srv, _ := testServer(t)

	w := doJSON(t, srv, "GET", "/messages?timestamp_lte=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
