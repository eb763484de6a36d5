package client

import (
	"context"
	"strings"
	"sync"

	"memopad/models"
)

// AuthState is the session's auth slice.
type AuthState struct {
	IsLogged bool
	Token    string
	Loading  bool
	Err      string
}

// NotesState is the session's notes slice. SingleNoteID tracks which note
// SingleNote was fetched for, since the projection itself carries no id.
type NotesState struct {
	Notes        []models.Note
	SingleNote   *models.NoteContent
	SingleNoteID int
	Loading      bool
	Err          string
	Pagination   models.Pagination
}

// Store is the session state container. Every remote operation runs in
// three phases: pending sets the slice's Loading and clears its Err,
// then the result either applies (fulfilled) or lands in Err (rejected).
// The two slices are independent; concurrent operations on the same slice
// are last-write-wins on Loading and Err.
type Store struct {
	api     *Client
	storage Storage

	mu    sync.Mutex
	auth  AuthState
	notes NotesState
}

// NewStore restores any cached session from storage and starts with the
// default pagination window.
func NewStore(api *Client, storage Storage) *Store {
	s := &Store{api: api, storage: storage}
	s.auth.IsLogged = storage.Get(keyIsLogged) == "true"
	s.auth.Token = storage.Get(keyToken)
	s.api.Token = s.auth.Token
	s.notes.Pagination = models.Pagination{TotalPages: 1, CurrentPage: 1, PageSize: 10}
	return s
}

// Auth returns a snapshot of the auth slice.
func (s *Store) Auth() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// Notes returns a snapshot of the notes slice. The contained note list is
// the caller's own copy; later store operations never touch it.
func (s *Store) Notes() NotesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.notes
	snapshot.Notes = append([]models.Note(nil), s.notes.Notes...)
	return snapshot
}

// FilteredNotes is the list the notes view renders: the archived or
// unarchived side of the loaded list, narrowed by a case-insensitive
// title-substring search when the term is non-blank.
func (s *Store) FilteredNotes(showArchived bool, search string) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Note, 0, len(s.notes.Notes))
	for _, n := range s.notes.Notes {
		if n.Archived != showArchived {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(n.Title), term) {
			continue
		}
		filtered = append(filtered, n)
	}
	return filtered
}

func (s *Store) beginAuth() {
	s.mu.Lock()
	s.auth.Loading = true
	s.auth.Err = ""
	s.mu.Unlock()
}

func (s *Store) beginNotes() {
	s.mu.Lock()
	s.notes.Loading = true
	s.notes.Err = ""
	s.mu.Unlock()
}

// Login authenticates and, on success, persists the token and logged-in
// flag so the session survives a restart.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.beginAuth()
	tok, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.Loading = false
	if err != nil {
		s.auth.Err = err.Error()
		return err
	}

	s.storage.Set(keyToken, tok)
	s.storage.Set(keyIsLogged, "true")
	s.auth.IsLogged = true
	s.auth.Token = tok
	s.api.Token = tok
	return nil
}

// Logout clears the cached credentials and resets the auth slice.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Delete(keyToken)
	s.storage.Delete(keyIsLogged)
	s.auth = AuthState{}
	s.api.Token = ""
}

// FetchNotes replaces the note list and pagination with the requested page.
func (s *Store) FetchNotes(ctx context.Context, page, pageSize int) error {
	s.beginNotes()
	notes, pagination, err := s.api.ListNotes(ctx, page, pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return err
	}
	s.notes.Notes = notes
	s.notes.Pagination = pagination
	return nil
}

// AddNote creates a note and prepends it to the local list.
func (s *Store) AddNote(ctx context.Context, title, content string) (*models.Note, error) {
	s.beginNotes()
	note, err := s.api.CreateNote(ctx, title, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return nil, err
	}
	s.notes.Notes = append([]models.Note{*note}, s.notes.Notes...)
	return note, nil
}

// EditNote updates a note and replaces the local copy by id, when present.
func (s *Store) EditNote(ctx context.Context, id int, title, content string) (*models.Note, error) {
	s.beginNotes()
	note, err := s.api.UpdateNote(ctx, id, title, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return nil, err
	}
	for i := range s.notes.Notes {
		if s.notes.Notes[i].ID == note.ID {
			s.notes.Notes[i] = *note
			break
		}
	}
	return note, nil
}

// RemoveNote soft-deletes a note and filters it out of the local list.
func (s *Store) RemoveNote(ctx context.Context, id int) error {
	s.beginNotes()
	err := s.api.DeleteNote(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return err
	}
	kept := make([]models.Note, 0, len(s.notes.Notes))
	for _, n := range s.notes.Notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notes.Notes = kept
	return nil
}

// FetchSingleNote loads the single-note view. Pending clears the previous
// note, and a rejection leaves it cleared.
func (s *Store) FetchSingleNote(ctx context.Context, id int) error {
	s.mu.Lock()
	s.notes.Loading = true
	s.notes.Err = ""
	s.notes.SingleNote = nil
	s.notes.SingleNoteID = 0
	s.mu.Unlock()

	note, err := s.api.GetNote(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return err
	}
	s.notes.SingleNote = note
	s.notes.SingleNoteID = id
	return nil
}

// BulkRemoveNotes soft-deletes a set of notes and filters them out locally.
func (s *Store) BulkRemoveNotes(ctx context.Context, ids []int) error {
	s.beginNotes()
	err := s.api.BulkDeleteNotes(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return err
	}
	removed := make(map[int]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}
	kept := make([]models.Note, 0, len(s.notes.Notes))
	for _, n := range s.notes.Notes {
		if !removed[n.ID] {
			kept = append(kept, n)
		}
	}
	s.notes.Notes = kept
	return nil
}

// ArchiveNote toggles the archived flag and reconciles both the list entry
// and, when it is the one on screen, the single-note view.
func (s *Store) ArchiveNote(ctx context.Context, id int, archived bool) (*models.Note, error) {
	s.beginNotes()
	note, err := s.api.ToggleArchive(ctx, id, archived)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Loading = false
	if err != nil {
		s.notes.Err = err.Error()
		return nil, err
	}
	for i := range s.notes.Notes {
		if s.notes.Notes[i].ID == note.ID {
			s.notes.Notes[i] = *note
			break
		}
	}
	if s.notes.SingleNoteID == note.ID && s.notes.SingleNote != nil {
		s.notes.SingleNote = &models.NoteContent{Title: note.Title, Content: note.Content}
	}
	return note, nil
}
