package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/service"
	"go.uber.org/zap"
)

type MenuHandler struct {
	s *service.MenuService
	l *zap.Logger
}

func NewMenuHandler(s *service.MenuService, l *zap.Logger) *MenuHandler {
	return &MenuHandler{
		s: s,
		l: l,
	}
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	category, err := h.s.CreateCategory(r.Context(), req.Name, req.Icon, req.Color)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.s.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.s.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decodeBody(r, &item); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	created, err := h.s.CreateMenuItem(r.Context(), item)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *MenuHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.s.ListMenuItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.s.GetMenuItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := decodeBody(r, &item); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	updated, err := h.s.UpdateMenuItem(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.s.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "menu item deleted"})
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *MenuHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	// Password is accepted but not stored; auth is out of scope here.
	user, err := h.s.CreateUser(r.Context(), req.Username, req.Email)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *MenuHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.s.ListUsers(r.Context())
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
