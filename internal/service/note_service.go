package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"notefold-server/internal/domain"
	"notefold-server/internal/events"
	"notefold-server/internal/repository"

	"github.com/google/uuid"
)

// maxListResults caps every list response.
const maxListResults = 100

type NoteService struct {
	repo   repository.NoteRepository
	events *events.Manager
}

func NewNoteService(repo repository.NoteRepository, eventManager *events.Manager) *NoteService {
	return &NoteService{
		repo:   repo,
		events: eventManager,
	}
}

func (s *NoteService) Create(ownerID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	now := time.Now()

	note := &domain.Note{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(note); err != nil {
		return nil, err
	}

	s.broadcast(ownerID, events.TypeNoteCreated, note)

	return note, nil
}

func (s *NoteService) List(ownerID string, query *domain.ListNotesQuery) ([]*domain.Note, error) {
	notes, err := s.repo.ListByOwner(ownerID, query.SearchQuery)
	if err != nil {
		return nil, err
	}

	switch query.SortBy {
	case domain.SortNewest:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	case domain.SortOldest:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		})
	case domain.SortTitle:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].Title < notes[j].Title
		})
	}

	if len(notes) > maxListResults {
		notes = notes[:maxListResults]
	}

	// An empty result is a valid outcome and must serialize as [].
	if notes == nil {
		notes = []*domain.Note{}
	}

	return notes, nil
}

func (s *NoteService) Get(ownerID, noteID string) (*domain.Note, error) {
	return s.findOwned(ownerID, noteID)
}

// Update applies the field mask and refreshes the updated timestamp. An empty
// mask is rejected before any storage call.
func (s *NoteService) Update(ownerID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}

	note, err := s.findOwned(ownerID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	note.UpdatedAt = time.Now()

	if err := s.repo.Update(note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	s.broadcast(ownerID, events.TypeNoteUpdated, note)

	return note, nil
}

func (s *NoteService) Delete(ownerID, noteID string) error {
	note, err := s.findOwned(ownerID, noteID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(note.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	s.broadcast(ownerID, events.TypeNoteDeleted, map[string]string{"id": note.ID})

	return nil
}

// findOwned collapses "does not exist" and "owned by someone else" into one
// not-found outcome, so responses never reveal another user's note IDs.
func (s *NoteService) findOwned(ownerID, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to load note: %w", err)
	}

	if note.OwnerID != ownerID {
		return nil, ErrNoteNotFound
	}

	return note, nil
}

func (s *NoteService) broadcast(ownerID string, eventType events.MessageType, payload interface{}) {
	if s.events == nil {
		return
	}

	msg, err := events.NewMessage(eventType, payload)
	if err != nil {
		return
	}

	s.events.BroadcastToUser(ownerID, msg)
}
