package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

type lexiconService interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.CanonicalEntry, error)
	GetProvenance(ctx context.Context, entryID uuid.UUID, fieldPath string, activeOnly bool) ([]domain.ProvenanceRecord, error)
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)
	SetReviewed(ctx context.Context, id uuid.UUID, reviewed bool) error
}

// EntriesHandler serves the canonical entry read API.
type EntriesHandler struct {
	lexicon lexiconService
	log     *slog.Logger
}

// NewEntriesHandler creates an EntriesHandler.
func NewEntriesHandler(lexicon lexiconService, logger *slog.Logger) *EntriesHandler {
	return &EntriesHandler{
		lexicon: lexicon,
		log:     logger.With("handler", "entries"),
	}
}

// Get returns a single canonical entry.
// GET /v1/entries/{id}
func (h *EntriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.lexicon.GetEntry(r.Context(), id)
	if err != nil {
		h.logIfInternal(r, "get entry", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// Provenance returns the provenance trail of an entry.
// GET /v1/entries/{id}/provenance?field=pos&active=true
func (h *EntriesHandler) Provenance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	fieldPath := r.URL.Query().Get("field")
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	rows, err := h.lexicon.GetProvenance(r.Context(), id, fieldPath, activeOnly)
	if err != nil {
		h.logIfInternal(r, "get provenance", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProvenanceDTOs(rows))
}

// Search performs a prefix search over the normalized search keys.
// GET /v1/search?q=كتاب&limit=20
func (h *EntriesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	hits, err := h.lexicon.Search(r.Context(), query, limit)
	if err != nil {
		h.logIfInternal(r, "search", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchHitDTOs(hits))
}

// SetReviewed records the human-review verdict for an entry.
// PUT /v1/entries/{id}/review
func (h *EntriesHandler) SetReviewed(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	var body struct {
		Reviewed bool `json:"reviewed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.lexicon.SetReviewed(r.Context(), id, body.Reviewed); err != nil {
		h.logIfInternal(r, "set reviewed", err)
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EntriesHandler) entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *EntriesHandler) logIfInternal(r *http.Request, op string, err error) {
	if isClientError(err) {
		return
	}
	h.log.ErrorContext(r.Context(), op, slog.String("error", err.Error()))
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation)
}
