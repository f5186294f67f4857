package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/apperrors"
	"github.com/kvolkov/linejudge/internal/catalog"
	"github.com/kvolkov/linejudge/internal/frames"
	"github.com/kvolkov/linejudge/internal/metrics"
	"github.com/kvolkov/linejudge/internal/session"
)

// FrameExtractor is the slice of the ffmpeg extractor the handlers
// need; tests substitute a stub.
type FrameExtractor interface {
	Probe(ctx context.Context, videoPath string) (frames.ProbeInfo, error)
	ExtractAt(ctx context.Context, videoPath string, timestamp float64) ([]byte, error)
}

type App struct {
	Logger    *zap.Logger
	Session   *session.Session
	Videos    *catalog.VideoRepository
	Extractor FrameExtractor

	TemplateDir string
}

func (app *App) templatePath(name string) string {
	dir := app.TemplateDir
	if dir == "" {
		dir = filepath.Join("web", "templates")
	}
	return filepath.Join(dir, name)
}

func (app *App) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.ParseFiles(app.templatePath(name))
	if err != nil {
		http.Error(w, "Error loading template", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
	}
}

// renderFailure turns a workflow error into the transient alert the UI
// shows. Cancellations produce no content at all: the user dismissed a
// picker, nothing went wrong.
func (app *App) renderFailure(w http.ResponseWriter, err error) {
	if apperrors.IsCancelled(err) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	kind := apperrors.KindOf(err)
	metrics.FailuresTotal.WithLabelValues(kind.String()).Inc()
	app.Logger.Warn("request failed", zap.String("kind", kind.String()), zap.Error(err))

	var message string
	switch kind {
	case apperrors.KindPermissionDenied:
		message = "Access to the folder was denied. Check its permissions and pick it again."
	case apperrors.KindAccessFailure:
		message = "The folder or file could not be accessed."
	case apperrors.KindEncodeFailure:
		message = "Could not capture this frame. Nothing was saved."
	case apperrors.KindWriteFailure:
		message = "Saving failed. " + err.Error()
	case apperrors.KindLoadFailure:
		message = "This video could not be opened."
	default:
		message = "Something went wrong."
	}

	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, `<div class="alert alert-error">%s</div>`, template.HTMLEscapeString(message))
}

func (app *App) renderSuccess(w http.ResponseWriter, message string) {
	fmt.Fprintf(w, `<div class="alert alert-success">%s</div>`, template.HTMLEscapeString(message))
}
