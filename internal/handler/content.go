package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/portfolio/internal/model"
	"github.com/dukerupert/portfolio/internal/store"
	"github.com/dukerupert/portfolio/internal/websocket"
)

type ContentHandler struct {
	store  *store.ContentStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewContentHandler(cs *store.ContentStore, hub *websocket.Hub, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{store: cs, hub: hub, logger: logger}
}

func (h *ContentHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// readDocument decodes a JSON object body. The slug, when present as a
// string, is returned separately; the whole object is kept as data.
func readDocument(w http.ResponseWriter, r *http.Request) (json.RawMessage, *string, bool) {
	var fields map[string]json.RawMessage
	if err := decodeJSON(w, r, &fields); err != nil || fields == nil {
		writeDetail(w, http.StatusBadRequest, "Body must be a JSON object")
		return nil, nil, false
	}

	data, err := json.Marshal(fields)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Body must be a JSON object")
		return nil, nil, false
	}

	var slug *string
	if raw, ok := fields["slug"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			slug = &s
		}
	}
	return data, slug, true
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")

	items, err := h.store.ListBySection(section)
	if err != nil {
		h.logger.Error("list content", "section", section, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to list content")
		return
	}
	if items == nil {
		items = []model.Content{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	id, err := parseIDParam(r)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}

	item, err := h.store.Get(section, id)
	if err != nil {
		h.logger.Error("get content", "section", section, "id", id, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to get content")
		return
	}
	if item == nil {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	data, slug, ok := readDocument(w, r)
	if !ok {
		return
	}

	item, err := h.store.Create(section, slug, data)
	if err != nil {
		h.logger.Error("create content", "section", section, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to create content")
		return
	}

	h.broadcast(websocket.ContentEvent("created", section, item.ID))
	writeJSON(w, http.StatusOK, map[string]any{"id": item.ID, "message": "Created successfully"})
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	id, err := parseIDParam(r)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}
	data, _, ok := readDocument(w, r)
	if !ok {
		return
	}

	found, err := h.store.Update(section, id, data)
	if err != nil {
		h.logger.Error("update content", "section", section, "id", id, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to update content")
		return
	}
	if !found {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}

	h.broadcast(websocket.ContentEvent("updated", section, id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Updated successfully"})
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	section := r.PathValue("section")
	id, err := parseIDParam(r)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}

	found, err := h.store.Delete(section, id)
	if err != nil {
		h.logger.Error("delete content", "section", section, "id", id, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to delete content")
		return
	}
	if !found {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}

	h.broadcast(websocket.ContentEvent("deleted", section, id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}
