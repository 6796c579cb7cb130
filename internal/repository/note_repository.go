package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"notefold-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// fetchLimit bounds owner-scoped queries. CouchDB's Mango default page size
// is 25, so the limit must be explicit; sorting and the response cap happen
// in the service layer.
const fetchLimit = 1000

type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id string) (*domain.Note, error)
	ListByOwner(ownerID, searchQuery string) ([]*domain.Note, error)
	Update(note *domain.Note) error
	Delete(id string) error
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

func noteDocID(id string) string {
	return fmt.Sprintf("note:%s", id)
}

func (r *noteRepository) Create(note *domain.Note) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), noteDocID(note.ID), note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByID(id string) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), noteDocID(id))

	var note domain.Note
	if err := row.ScanDoc(&note); err != nil {
		if translated := translateKivikError(err); errors.Is(translated, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &note, nil
}

func (r *noteRepository) ListByOwner(ownerID, searchQuery string) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	selector := map[string]interface{}{
		"owner_id": ownerID,
		"title":    map[string]interface{}{"$exists": true},
	}

	if searchQuery != "" {
		pattern := "(?i)" + regexp.QuoteMeta(searchQuery)
		selector["$or"] = []map[string]interface{}{
			{"title": map[string]interface{}{"$regex": pattern}},
			{"content": map[string]interface{}{"$regex": pattern}},
		}
	}

	query := map[string]interface{}{
		"selector": selector,
		"limit":    fetchLimit,
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}

	return notes, nil
}

func (r *noteRepository) Update(note *domain.Note) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(note.ID)

	// Fetch the raw document to carry the current _rev through the write.
	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID)
	if err := row.ScanDoc(&existingDoc); err != nil {
		if translated := translateKivikError(err); errors.Is(translated, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for update: %w", err)
	}

	existingDoc["title"] = note.Title
	existingDoc["content"] = note.Content
	existingDoc["updatedAt"] = note.UpdatedAt.Format(time.RFC3339Nano)

	_, err := db.Put(context.Background(), docID, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *noteRepository) Delete(id string) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(id)

	row := db.Get(context.Background(), docID)
	rev, err := row.Rev()
	if err != nil {
		if translated := translateKivikError(err); errors.Is(translated, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	if _, err := db.Delete(context.Background(), docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
