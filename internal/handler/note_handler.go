package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notefold-server/internal/domain"
	"notefold-server/internal/middleware"
	"notefold-server/internal/service"
	"notefold-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user := middleware.GetUser(r)

	note, err := h.service.Create(user.ID, &req)
	if err != nil {
		response.InternalError(w, "failed to create note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	query := &domain.ListNotesQuery{
		SearchQuery: r.URL.Query().Get("search_query"),
		SortBy:      domain.SortOrder(r.URL.Query().Get("sort_by")),
	}

	notes, err := h.service.List(user.ID, query)
	if err != nil {
		response.InternalError(w, "failed to list notes")
		return
	}

	response.Success(w, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	user := middleware.GetUser(r)

	note, err := h.service.Get(user.ID, noteID)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			response.NotFound(w, service.ErrNoteNotFound.Error())
			return
		}
		response.InternalError(w, "failed to load note")
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	user := middleware.GetUser(r)

	note, err := h.service.Update(user.ID, noteID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpdate):
			response.BadRequest(w, service.ErrEmptyUpdate.Error())
		case errors.Is(err, service.ErrNoteNotFound):
			response.NotFound(w, service.ErrNoteNotFound.Error())
		default:
			response.InternalError(w, "failed to update note")
		}
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	user := middleware.GetUser(r)

	if err := h.service.Delete(user.ID, noteID); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			response.NotFound(w, service.ErrNoteNotFound.Error())
			return
		}
		response.InternalError(w, "failed to delete note")
		return
	}

	response.Success(w, map[string]string{"message": "note deleted successfully"})
}
