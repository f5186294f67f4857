package api

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/annotation"
	"github.com/kvolkov/linejudge/internal/catalog"
	"github.com/kvolkov/linejudge/internal/media"
)

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) HomeHandler(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title      string
		LibraryDir string
		OutputDir  string
		FPS        float64
	}{
		Title:      "linejudge",
		LibraryDir: app.Session.LibraryDir(),
		OutputDir:  app.Session.OutputDir(),
		FPS:        app.Session.FPS(),
	}
	app.render(w, "base.html", data)
}

// SelectLibraryHandler picks the video folder, scans it and refreshes
// the catalog with probed metadata. An empty path is the dismissed
// picker: nothing changes, nothing is shown.
func (app *App) SelectLibraryHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Session.SelectLibrary(r.FormValue("path")); err != nil {
		app.renderFailure(w, err)
		return
	}

	refs, err := media.ScanVideos(app.Session.LibraryDir())
	if err != nil {
		app.renderFailure(w, err)
		return
	}

	if err := app.Videos.Clear(); err != nil {
		app.renderFailure(w, err)
		return
	}

	for _, ref := range refs {
		info, err := app.Extractor.Probe(r.Context(), ref.Path)
		if err != nil {
			// Unplayable files stay out of the catalog but don't block
			// the rest of the scan.
			app.Logger.Warn("skipping unplayable video", zap.String("file", ref.Name), zap.Error(err))
			continue
		}
		video := catalog.NewVideo(annotation.SanitizeIdentity(ref.Name), ref.Name, info.Duration, info.Width, info.Height)
		if err := app.Videos.Upsert(video); err != nil {
			app.renderFailure(w, err)
			return
		}
	}

	w.Header().Set("HX-Trigger", "libraryChanged")
	app.renderSuccess(w, fmt.Sprintf("Library selected (%d videos)", len(refs)))
}

func (app *App) SelectOutputHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.Session.SelectOutput(r.FormValue("path")); err != nil {
		app.renderFailure(w, err)
		return
	}

	w.Header().Set("HX-Trigger", "outputChanged")
	app.renderSuccess(w, "Output folder selected")
}

func (app *App) SetFPSHandler(w http.ResponseWriter, r *http.Request) {
	fps, err := strconv.ParseFloat(r.FormValue("fps"), 64)
	if err != nil {
		http.Error(w, "Invalid fps", http.StatusBadRequest)
		return
	}
	if err := app.Session.SetFPS(fps); err != nil {
		http.Error(w, "Invalid fps", http.StatusBadRequest)
		return
	}
	app.renderSuccess(w, fmt.Sprintf("Frame rate set to %g fps", fps))
}

func (app *App) VideoListPartialHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.Videos.List()
	if err != nil {
		w.Write([]byte("<p>Error loading videos</p>"))
		return
	}

	if len(videos) == 0 {
		w.Write([]byte("<p>No videos in the library</p>"))
		return
	}

	tmpl, err := template.ParseFiles(app.templatePath("_video_item.html"))
	if err != nil {
		for _, video := range videos {
			fmt.Fprintf(w, `<div class="video-item"><a href="/videos/%s">%s</a> <small>%s</small></div>`,
				template.HTMLEscapeString(video.Identity),
				template.HTMLEscapeString(video.Filename),
				formatDuration(video.Duration))
		}
		return
	}

	for _, video := range videos {
		tmpl.Execute(w, video)
	}
}

// ReviewPageHandler loads the frame-by-frame review page for a video
// and makes it the session's active video.
func (app *App) ReviewPageHandler(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	video, err := app.Videos.GetByIdentity(identity)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ref := media.MediaReference{
		Name: video.Filename,
		Path: filepath.Join(app.Session.LibraryDir(), video.Filename),
	}
	if err := app.Session.SetActive(ref); err != nil {
		app.renderFailure(w, err)
		return
	}

	data := struct {
		Video     *catalog.Video
		FPS       float64
		HasOutput bool
		Duration  string
	}{
		Video:     video,
		FPS:       app.Session.FPS(),
		HasOutput: app.Session.Store() != nil,
		Duration:  formatDuration(video.Duration),
	}
	app.render(w, "review.html", data)
}

func (app *App) StreamVideoHandler(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	video, err := app.Videos.GetByIdentity(identity)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	file, err := os.Open(filepath.Join(app.Session.LibraryDir(), video.Filename))
	if err != nil {
		http.Error(w, "Video file not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Error accessing video file", http.StatusInternalServerError)
		return
	}

	// ServeContent handles Range requests, so scrubbing in the player
	// seeks without re-downloading.
	http.ServeContent(w, r, video.Filename, stat.ModTime(), file)
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
