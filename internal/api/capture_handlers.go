package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kvolkov/linejudge/internal/annotation"
	"github.com/kvolkov/linejudge/internal/apperrors"
)

// CaptureHandler saves the frame at the posted timestamp with its
// label. The player pauses before posting, so the timestamp matches the
// frame the user is looking at.
func (app *App) CaptureHandler(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	store := app.Session.Store()
	if store == nil {
		app.renderFailure(w, apperrors.New(apperrors.KindAccessFailure, "no output folder selected"))
		return
	}

	video, err := app.Videos.GetByIdentity(identity)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	timestamp, err := strconv.ParseFloat(r.FormValue("t"), 64)
	if err != nil || timestamp < 0 {
		http.Error(w, "Invalid timestamp", http.StatusBadRequest)
		return
	}

	label := r.FormValue("label")
	if !annotation.ValidLabel(label) {
		http.Error(w, "Label must be ball_in or ball_out", http.StatusBadRequest)
		return
	}

	videoPath := filepath.Join(app.Session.LibraryDir(), video.Filename)
	imageData, err := app.Extractor.ExtractAt(r.Context(), videoPath, timestamp)
	if err != nil {
		app.renderFailure(w, err)
		return
	}

	writer := annotation.NewWriter(store, app.Logger)
	c, err := writer.Capture(identity, timestamp, app.Session.FPS(), label, imageData)
	if err != nil {
		app.renderFailure(w, err)
		return
	}

	w.Header().Set("HX-Trigger", "captureSaved")
	app.renderSuccess(w, "Saved "+c.ImageFilename())
}

type frameStatusResponse struct {
	Annotated bool   `json:"annotated"`
	Label     string `json:"label,omitempty"`
	Image     string `json:"image,omitempty"`
}

// FrameStatusHandler reports whether the frame under the playhead is
// already annotated. Polled by the player on every time update, so it
// answers from memory except on a true cache miss.
func (app *App) FrameStatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	store := app.Session.Store()
	if store == nil {
		json.NewEncoder(w).Encode(frameStatusResponse{})
		return
	}

	timestamp, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		http.Error(w, "Invalid timestamp", http.StatusBadRequest)
		return
	}

	state := store.Status(timestamp, app.Session.FPS())
	json.NewEncoder(w).Encode(frameStatusResponse{
		Annotated: state.Annotated,
		Label:     state.Label,
		Image:     state.ImageName,
	})
}
