package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"memopad/models"
)

// NoteStore is the lifecycle surface the note handlers drive. Only List
// takes an owner; the by-id operations run unfiltered, matching the system
// this one replaces.
type NoteStore interface {
	Create(ctx context.Context, ownerID int, title, content string) (*models.Note, error)
	List(ctx context.Context, ownerID, page, pageSize int) ([]models.Note, models.Pagination, error)
	ByID(ctx context.Context, id int) (*models.NoteContent, error)
	Update(ctx context.Context, id int, title, content string) (*models.Note, error)
	SoftDelete(ctx context.Context, id int) error
	BulkSoftDelete(ctx context.Context, ids []int) (int64, error)
	SetArchived(ctx context.Context, id int, archived bool) (*models.Note, error)
}

type NotesHandler struct {
	Store NoteStore
}

func getUserID(r *http.Request) int {
	return r.Context().Value("userID").(int)
}

// queryInt parses a positive query parameter, falling back silently on
// absent, non-numeric or non-positive values.
func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// urlID coerces the {id} route segment; parse failures become 0, which
// matches no row.
func urlID(r *http.Request) int {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	return id
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *NotesHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	var req noteRequest
	json.NewDecoder(r.Body).Decode(&req)

	note, err := h.Store.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusCreated, note)
}

func (h *NotesHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 10)

	notes, pagination, err := h.Store.List(r.Context(), userID, page, pageSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"notes":      notes,
		"pagination": pagination,
	})
}

func (h *NotesHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.Store.ByID(r.Context(), urlID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Note not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, note)
}

func (h *NotesHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	json.NewDecoder(r.Body).Decode(&req)

	// Title is mandatory on update only; create accepts anything.
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	note, err := h.Store.Update(r.Context(), urlID(r), req.Title, req.Content)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(w, http.StatusOK, note)
}

func (h *NotesHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.SoftDelete(r.Context(), urlID(r)); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(w, http.StatusOK, "Note deleted")
}

func (h *NotesHandler) BulkDeleteNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []any `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "Please provide an array of note IDs to delete")
		return
	}

	ids := make([]int, 0, len(req.IDs))
	for _, raw := range req.IDs {
		switch v := raw.(type) {
		case float64:
			ids = append(ids, int(v))
		case string:
			// Non-numeric entries coerce to 0 and match nothing.
			id, _ := strconv.Atoi(v)
			ids = append(ids, id)
		default:
			ids = append(ids, 0)
		}
	}

	count, err := h.Store.BulkSoftDelete(r.Context(), ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondMessage(w, http.StatusOK, fmt.Sprintf("%d notes deleted successfully", count))
}

func (h *NotesHandler) ToggleArchiveNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Archived *bool `json:"archived"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if req.Archived == nil {
		respondError(w, http.StatusBadRequest, "archived field is required")
		return
	}

	note, err := h.Store.SetArchived(r.Context(), urlID(r), *req.Archived)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	msg := "Note unarchived"
	if *req.Archived {
		msg = "Note archived"
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Message: msg, Data: note})
}
