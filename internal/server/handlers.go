package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Tiles
// =============================================================================

func (s *Server) handleListTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Tiles())
}

func (s *Server) handleGetTile(w http.ResponseWriter, r *http.Request) {
	t, err := s.board.Tile(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type addSiteRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleAddSite(w http.ResponseWriter, r *http.Request) {
	var req addSiteRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.board.AddSite(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

type addWidgetRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	var req addWidgetRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.board.AddWidget(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// updateTileRequest holds the editable fields; empty fields are unchanged.
type updateTileRequest struct {
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Favicon string    `json:"favicon"`
	Size    grid.Size `json:"size"`
}

func (s *Server) handleUpdateTile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateTileRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	current, err := s.board.Tile(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := grid.Tile{ID: id, Size: req.Size}
	switch current.Kind.(type) {
	case grid.Site:
		patch.Kind = grid.Site{Title: req.Title, URL: req.URL, Favicon: req.Favicon}
	case grid.Widget:
		if req.URL != "" || req.Favicon != "" {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "widgets have no url or favicon"))
			return
		}
		patch.Kind = grid.Widget{Title: req.Title}
	}

	t, err := s.board.UpdateTile(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTile(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type faviconRequest struct {
	Favicon string `json:"favicon"`
}

func (s *Server) handleSetFavicon(w http.ResponseWriter, r *http.Request) {
	var req faviconRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.board.SetFavicon(r.Context(), chi.URLParam(r, "id"), req.Favicon)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type nextFaviconResponse struct {
	Tile     grid.Tile `json:"tile"`
	Advanced bool      `json:"advanced"`
}

func (s *Server) handleNextFavicon(w http.ResponseWriter, r *http.Request) {
	t, ok, err := s.board.NextFavicon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nextFaviconResponse{Tile: t, Advanced: ok})
}

type moveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleMoveTile(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.board.Move(r.Context(), chi.URLParam(r, "id"), req.X, req.Y); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

// =============================================================================
// Pages and layout
// =============================================================================

type pagesResponse struct {
	Grid  grid.Grid  `json:"grid"`
	Pages [][]string `json:"pages"`
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	snap := s.board.Snapshot()
	resp := pagesResponse{Grid: snap.Grid, Pages: make([][]string, len(snap.Pages))}
	for i, page := range snap.Pages {
		ids := make([]string, len(page))
		for j, t := range page {
			ids[j] = t.ID
		}
		resp.Pages[i] = ids
	}
	writeJSON(w, http.StatusOK, resp)
}

// pageParam parses the {page} URL parameter.
func pageParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "page")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "page must be a number, got %q", raw)
	}
	return n, nil
}

func (s *Server) handlePageLayout(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	layout, err := s.board.PageLayout(page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleDragStop(w http.ResponseWriter, r *http.Request) {
	s.handlePageEdit(w, r, s.board.DragStop)
}

func (s *Server) handleLayoutChange(w http.ResponseWriter, r *http.Request) {
	s.handlePageEdit(w, r, s.board.LayoutChange)
}

type pageEditFunc func(ctx context.Context, page int, placements []grid.Placement) error

// handlePageEdit applies a posted page placement and answers with the
// resulting page layout.
func (s *Server) handlePageEdit(w http.ResponseWriter, r *http.Request, apply pageEditFunc) {
	page, err := pageParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var placements []grid.Placement
	if err := decodeLayout(w, r, &placements); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apply(r.Context(), page, placements); err != nil {
		s.writeError(w, r, err)
		return
	}
	layout, err := s.board.PageLayout(page)
	if err != nil {
		// the edit collapsed the page; report the whole board instead
		writeJSON(w, http.StatusOK, s.board.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Reset(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

// =============================================================================
// Catalog and settings
// =============================================================================

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preset.Catalog())
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.board.Settings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings store.Settings
	if err := decode(w, r, &settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.board.SaveSettings(r.Context(), settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
