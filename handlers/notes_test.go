package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"memopad/models"
)

// stubNoteStore routes each call to a per-test function. A nil function
// means the handler was not supposed to reach the store.
type stubNoteStore struct {
	create         func(ownerID int, title, content string) (*models.Note, error)
	list           func(ownerID, page, pageSize int) ([]models.Note, models.Pagination, error)
	byID           func(id int) (*models.NoteContent, error)
	update         func(id int, title, content string) (*models.Note, error)
	softDelete     func(id int) error
	bulkSoftDelete func(ids []int) (int64, error)
	setArchived    func(id int, archived bool) (*models.Note, error)
}

func (s *stubNoteStore) Create(_ context.Context, ownerID int, title, content string) (*models.Note, error) {
	return s.create(ownerID, title, content)
}

func (s *stubNoteStore) List(_ context.Context, ownerID, page, pageSize int) ([]models.Note, models.Pagination, error) {
	return s.list(ownerID, page, pageSize)
}

func (s *stubNoteStore) ByID(_ context.Context, id int) (*models.NoteContent, error) {
	return s.byID(id)
}

func (s *stubNoteStore) Update(_ context.Context, id int, title, content string) (*models.Note, error) {
	return s.update(id, title, content)
}

func (s *stubNoteStore) SoftDelete(_ context.Context, id int) error {
	return s.softDelete(id)
}

func (s *stubNoteStore) BulkSoftDelete(_ context.Context, ids []int) (int64, error) {
	return s.bulkSoftDelete(ids)
}

func (s *stubNoteStore) SetArchived(_ context.Context, id int, archived bool) (*models.Note, error) {
	return s.setArchived(id, archived)
}

// authedRequest builds a request carrying the caller identity and,
// optionally, a chi {id} route param.
func authedRequest(method, target, noteID string, userID int, body any) *http.Request {
	var rd *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		rd = bytes.NewBuffer(raw)
	} else {
		rd = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")

	if noteID != "" {
		chiCtx := chi.NewRouteContext()
		chiCtx.URLParams.Add("id", noteID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
	}
	req = req.WithContext(context.WithValue(req.Context(), "userID", userID))
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	return resp
}

func TestCreateNote(t *testing.T) {
	t.Run("Create note", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{
			create: func(ownerID int, title, content string) (*models.Note, error) {
				if ownerID != 1 {
					t.Errorf("Expected owner 1, got %d", ownerID)
				}
				return &models.Note{ID: 5, Title: title, Content: content, UserID: ownerID, CreatedAt: time.Now()}, nil
			},
		}}

		rr := httptest.NewRecorder()
		req := authedRequest("POST", "/api/notes", "", 1, map[string]string{"title": "A", "content": "B"})
		http.HandlerFunc(h.CreateNote).ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusCreated {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusCreated)
		}

		resp := decodeEnvelope(t, rr)
		data := resp["data"].(map[string]any)
		if data["title"] != "A" {
			t.Errorf("Expected title 'A', got %v", data["title"])
		}
		if int(data["userId"].(float64)) != 1 {
			t.Errorf("Expected userId 1, got %v", data["userId"])
		}
	})

	// Unlike update, create does not validate the title.
	t.Run("Empty title is accepted", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{
			create: func(ownerID int, title, content string) (*models.Note, error) {
				return &models.Note{ID: 6, Title: title, UserID: ownerID}, nil
			},
		}}

		rr := httptest.NewRecorder()
		req := authedRequest("POST", "/api/notes", "", 1, map[string]string{"content": "only content"})
		http.HandlerFunc(h.CreateNote).ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusCreated {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusCreated)
		}
	})

	t.Run("No user ID in context", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{}}

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/notes", bytes.NewBufferString(`{"title":"A"}`))
		handler := chimw.Recoverer(http.HandlerFunc(h.CreateNote))
		handler.ServeHTTP(rr, req)

		if status := rr.Code; status == http.StatusCreated {
			t.Errorf("Handler should fail without userID in context, got %v", status)
		}
	})
}

func TestGetNotes(t *testing.T) {
	newHandler := func(t *testing.T, wantPage, wantPageSize int) *NotesHandler {
		return &NotesHandler{Store: &stubNoteStore{
			list: func(ownerID, page, pageSize int) ([]models.Note, models.Pagination, error) {
				if ownerID != 1 {
					t.Errorf("Expected owner 1, got %d", ownerID)
				}
				if page != wantPage || pageSize != wantPageSize {
					t.Errorf("Expected window %d/%d, got %d/%d", wantPage, wantPageSize, page, pageSize)
				}
				return []models.Note{}, models.Pagination{CurrentPage: page, PageSize: pageSize, TotalPages: 0}, nil
			},
		}}
	}

	t.Run("Defaults when params absent", func(t *testing.T) {
		h := newHandler(t, 1, 10)
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.GetNotes).ServeHTTP(rr, authedRequest("GET", "/api/notes", "", 1, nil))

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		if !strings.Contains(rr.Body.String(), `"notes":[]`) {
			t.Errorf("Expected empty notes array, got %s", rr.Body.String())
		}
	})

	t.Run("Defaults on non-numeric params", func(t *testing.T) {
		h := newHandler(t, 1, 10)
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.GetNotes).ServeHTTP(rr, authedRequest("GET", "/api/notes?page=abc&pageSize=-3", "", 1, nil))

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
	})

	t.Run("Explicit window", func(t *testing.T) {
		h := newHandler(t, 2, 5)
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.GetNotes).ServeHTTP(rr, authedRequest("GET", "/api/notes?page=2&pageSize=5", "", 1, nil))

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}

		resp := decodeEnvelope(t, rr)
		data := resp["data"].(map[string]any)
		pagination := data["pagination"].(map[string]any)
		if int(pagination["currentPage"].(float64)) != 2 {
			t.Errorf("Expected currentPage 2, got %v", pagination["currentPage"])
		}
	})
}

func TestGetNote(t *testing.T) {
	h := &NotesHandler{Store: &stubNoteStore{
		// No owner in the signature: any authenticated caller can fetch
		// any note by id.
		byID: func(id int) (*models.NoteContent, error) {
			if id == 3 {
				return &models.NoteContent{Title: "A", Content: "B"}, nil
			}
			return nil, sql.ErrNoRows
		},
	}}

	t.Run("Found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.GetNote).ServeHTTP(rr, authedRequest("GET", "/api/notes/3", "3", 2, nil))

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}

		resp := decodeEnvelope(t, rr)
		data := resp["data"].(map[string]any)
		if data["title"] != "A" || data["content"] != "B" {
			t.Errorf("Unexpected projection: %v", data)
		}
		if _, ok := data["id"]; ok {
			t.Errorf("Projection should not include id")
		}
	})

	t.Run("Not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.GetNote).ServeHTTP(rr, authedRequest("GET", "/api/notes/999", "999", 1, nil))

		if status := rr.Code; status != http.StatusNotFound {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
		}

		resp := decodeEnvelope(t, rr)
		if resp["status"] != "error" || resp["message"] != "Note not found" {
			t.Errorf("Unexpected error body: %v", resp)
		}
	})

	t.Run("Non-numeric id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.GetNote).ServeHTTP(rr, authedRequest("GET", "/api/notes/abc", "abc", 1, nil))

		if status := rr.Code; status != http.StatusNotFound {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
		}
	})
}

func TestUpdateNote(t *testing.T) {
	t.Run("Blank title fails before the store", func(t *testing.T) {
		storeCalled := false
		h := &NotesHandler{Store: &stubNoteStore{
			update: func(id int, title, content string) (*models.Note, error) {
				storeCalled = true
				return nil, nil
			},
		}}

		for _, body := range []map[string]string{
			{"content": "B"},
			{"title": "", "content": "B"},
			{"title": "   ", "content": "B"},
		} {
			rr := httptest.NewRecorder()
			http.HandlerFunc(h.UpdateNote).ServeHTTP(rr, authedRequest("PUT", "/api/notes/3", "3", 1, body))

			if status := rr.Code; status != http.StatusBadRequest {
				t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
			}
			resp := decodeEnvelope(t, rr)
			if resp["message"] != "Title is required" {
				t.Errorf("Expected 'Title is required', got %v", resp["message"])
			}
		}
		if storeCalled {
			t.Errorf("Store should not be touched on validation failure")
		}
	})

	t.Run("Update note", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{
			update: func(id int, title, content string) (*models.Note, error) {
				return &models.Note{ID: id, Title: title, Content: content, UserID: 1}, nil
			},
		}}

		rr := httptest.NewRecorder()
		http.HandlerFunc(h.UpdateNote).ServeHTTP(rr, authedRequest("PUT", "/api/notes/3", "3", 1, map[string]string{"title": "new", "content": "body"}))

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
	})

	t.Run("Unknown id surfaces as internal error", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{
			update: func(id int, title, content string) (*models.Note, error) {
				return nil, sql.ErrNoRows
			},
		}}

		rr := httptest.NewRecorder()
		http.HandlerFunc(h.UpdateNote).ServeHTTP(rr, authedRequest("PUT", "/api/notes/999", "999", 1, map[string]string{"title": "new"}))

		if status := rr.Code; status != http.StatusInternalServerError {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
		}
	})
}

func TestDeleteNote(t *testing.T) {
	var gotID int
	h := &NotesHandler{Store: &stubNoteStore{
		softDelete: func(id int) error {
			gotID = id
			return nil
		},
	}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteNote).ServeHTTP(rr, authedRequest("DELETE", "/api/notes/3", "3", 1, nil))

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if gotID != 3 {
		t.Errorf("Expected soft delete of id 3, got %d", gotID)
	}

	resp := decodeEnvelope(t, rr)
	if resp["message"] != "Note deleted" {
		t.Errorf("Expected 'Note deleted', got %v", resp["message"])
	}
}

func TestBulkDeleteNotes(t *testing.T) {
	t.Run("Invalid ids payloads", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{}}

		for _, raw := range []string{
			`{}`,
			`{"ids": []}`,
			`{"ids": "nope"}`,
			`{"ids": 5}`,
		} {
			rr := httptest.NewRecorder()
			authed := authedRequest("PUT", "/api/notes/bulk-delete", "", 1, nil)
			req, _ := http.NewRequestWithContext(authed.Context(), "PUT", "/api/notes/bulk-delete", strings.NewReader(raw))
			http.HandlerFunc(h.BulkDeleteNotes).ServeHTTP(rr, req)

			if status := rr.Code; status != http.StatusBadRequest {
				t.Errorf("Payload %s: got status %v want %v", raw, status, http.StatusBadRequest)
			}
		}
	})

	t.Run("Bulk delete", func(t *testing.T) {
		var gotIDs []int
		h := &NotesHandler{Store: &stubNoteStore{
			bulkSoftDelete: func(ids []int) (int64, error) {
				gotIDs = ids
				return 2, nil
			},
		}}

		rr := httptest.NewRecorder()
		req := authedRequest("PUT", "/api/notes/bulk-delete", "", 1, map[string]any{"ids": []int{1, 2}})
		http.HandlerFunc(h.BulkDeleteNotes).ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		if len(gotIDs) != 2 || gotIDs[0] != 1 || gotIDs[1] != 2 {
			t.Errorf("Expected ids [1 2], got %v", gotIDs)
		}

		resp := decodeEnvelope(t, rr)
		if resp["message"] != "2 notes deleted successfully" {
			t.Errorf("Unexpected message: %v", resp["message"])
		}
	})

	t.Run("Non-numeric entries coerce to unmatched ids", func(t *testing.T) {
		var gotIDs []int
		h := &NotesHandler{Store: &stubNoteStore{
			bulkSoftDelete: func(ids []int) (int64, error) {
				gotIDs = ids
				return 1, nil
			},
		}}

		rr := httptest.NewRecorder()
		req := authedRequest("PUT", "/api/notes/bulk-delete", "", 1, map[string]any{"ids": []any{"3", "x", nil}})
		http.HandlerFunc(h.BulkDeleteNotes).ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
		}
		if len(gotIDs) != 3 || gotIDs[0] != 3 || gotIDs[1] != 0 || gotIDs[2] != 0 {
			t.Errorf("Expected ids [3 0 0], got %v", gotIDs)
		}
	})
}

func TestToggleArchiveNote(t *testing.T) {
	t.Run("Missing archived field", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{}}

		rr := httptest.NewRecorder()
		req := authedRequest("PUT", "/api/notes/archive/3", "3", 1, map[string]string{})
		http.HandlerFunc(h.ToggleArchiveNote).ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusBadRequest {
			t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, rr)
		if resp["message"] != "archived field is required" {
			t.Errorf("Unexpected message: %v", resp["message"])
		}
	})

	t.Run("Archive and unarchive", func(t *testing.T) {
		h := &NotesHandler{Store: &stubNoteStore{
			setArchived: func(id int, archived bool) (*models.Note, error) {
				return &models.Note{ID: id, Title: "A", Archived: archived, UserID: 1}, nil
			},
		}}

		for _, tc := range []struct {
			archived bool
			message  string
		}{
			{true, "Note archived"},
			{true, "Note archived"}, // repeated call, same result
			{false, "Note unarchived"},
		} {
			rr := httptest.NewRecorder()
			req := authedRequest("PUT", "/api/notes/archive/3", "3", 1, map[string]bool{"archived": tc.archived})
			http.HandlerFunc(h.ToggleArchiveNote).ServeHTTP(rr, req)

			if status := rr.Code; status != http.StatusOK {
				t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusOK)
			}

			resp := decodeEnvelope(t, rr)
			if resp["message"] != tc.message {
				t.Errorf("Expected message %q, got %v", tc.message, resp["message"])
			}
			data := resp["data"].(map[string]any)
			if data["archived"] != tc.archived {
				t.Errorf("Expected archived %v, got %v", tc.archived, data["archived"])
			}
		}
	})
}
