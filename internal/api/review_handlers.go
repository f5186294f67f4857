package api

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kvolkov/linejudge/internal/annotation"
	"github.com/kvolkov/linejudge/internal/apperrors"
	"github.com/kvolkov/linejudge/internal/media"
)

// CapturesListPartialHandler lists the output directory newest-first
// (lexicographic descending, see media.ScanCaptures).
func (app *App) CapturesListPartialHandler(w http.ResponseWriter, r *http.Request) {
	outputDir := app.Session.OutputDir()
	if outputDir == "" {
		w.Write([]byte("<p>No output folder selected</p>"))
		return
	}

	names, err := media.ScanCaptures(outputDir)
	if err != nil {
		w.Write([]byte("<p>Error loading captures</p>"))
		return
	}

	if len(names) == 0 {
		w.Write([]byte("<p>No captures yet</p>"))
		return
	}

	tmpl, err := template.ParseFiles(app.templatePath("_capture_item.html"))
	if err != nil {
		for _, name := range names {
			fmt.Fprintf(w, `<div class="capture-item">%s</div>`, template.HTMLEscapeString(name))
		}
		return
	}

	for _, name := range names {
		tmpl.Execute(w, struct{ Name string }{name})
	}
}

// EditCaptureHandler opens a capture for review and renders the edit
// modal with its image and current label.
func (app *App) EditCaptureHandler(w http.ResponseWriter, r *http.Request) {
	review := app.Session.Review()
	if review == nil {
		app.renderFailure(w, apperrors.New(apperrors.KindAccessFailure, "no output folder selected"))
		return
	}

	name := chi.URLParam(r, "name")
	oc, err := review.Open(name)
	if err != nil {
		app.renderFailure(w, err)
		return
	}

	data := struct {
		Name    string
		Label   string
		BallIn  string
		BallOut string
	}{
		Name:    oc.ImageName,
		Label:   oc.Label,
		BallIn:  annotation.LabelBallIn,
		BallOut: annotation.LabelBallOut,
	}
	app.render(w, "_edit_modal.html", data)
}

func (app *App) SetCaptureLabelHandler(w http.ResponseWriter, r *http.Request) {
	review := app.Session.Review()
	if review == nil {
		app.renderFailure(w, apperrors.New(apperrors.KindAccessFailure, "no output folder selected"))
		return
	}

	label := r.FormValue("label")
	if !annotation.ValidLabel(label) {
		http.Error(w, "Label must be ball_in or ball_out", http.StatusBadRequest)
		return
	}

	name := chi.URLParam(r, "name")
	if err := app.ensureOpen(review, name); err != nil {
		app.renderFailure(w, err)
		return
	}

	if err := review.SetLabel(label); err != nil {
		app.renderFailure(w, err)
		return
	}

	app.renderSuccess(w, "Label updated")
}

func (app *App) DeleteCaptureHandler(w http.ResponseWriter, r *http.Request) {
	review := app.Session.Review()
	if review == nil {
		app.renderFailure(w, apperrors.New(apperrors.KindAccessFailure, "no output folder selected"))
		return
	}

	name := chi.URLParam(r, "name")
	if err := app.ensureOpen(review, name); err != nil {
		app.renderFailure(w, err)
		return
	}

	if err := review.Delete(); err != nil {
		app.renderFailure(w, err)
		return
	}

	w.Header().Set("HX-Trigger", "captureDeleted")
	app.renderSuccess(w, "Capture deleted")
}

// CloseReviewHandler releases the open capture and its preview bytes
// when the modal closes.
func (app *App) CloseReviewHandler(w http.ResponseWriter, r *http.Request) {
	if review := app.Session.Review(); review != nil {
		review.Close()
	}
	w.WriteHeader(http.StatusNoContent)
}

// CaptureImageHandler serves a capture image out of the output
// directory. Traversal out of the directory is rejected.
func (app *App) CaptureImageHandler(w http.ResponseWriter, r *http.Request) {
	outputDir := app.Session.OutputDir()
	if outputDir == "" {
		http.NotFound(w, r)
		return
	}

	name := filepath.Clean(chi.URLParam(r, "name"))
	if strings.Contains(name, "..") || strings.ContainsRune(name, os.PathSeparator) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, filepath.Join(outputDir, name))
}

// ensureOpen makes the posted capture the one under review. The modal
// normally opens it first; this covers a direct post after a reload.
func (app *App) ensureOpen(review *annotation.Review, name string) error {
	if current := review.Current(); current != nil && current.ImageName == name {
		return nil
	}
	_, err := review.Open(name)
	return err
}
