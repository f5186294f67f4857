package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", app.HomeHandler)
	r.Get("/ping", PingHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/library", app.SelectLibraryHandler)
	r.Post("/output", app.SelectOutputHandler)
	r.Post("/fps", app.SetFPSHandler)

	r.Get("/videos", app.VideoListPartialHandler)
	r.Get("/videos/{identity}", app.ReviewPageHandler)
	r.Get("/videos/{identity}/stream", app.StreamVideoHandler)
	r.Post("/videos/{identity}/capture", app.CaptureHandler)
	r.Get("/videos/{identity}/frame-status", app.FrameStatusHandler)

	r.Get("/captures", app.CapturesListPartialHandler)
	r.Get("/captures/{name}/image", app.CaptureImageHandler)
	r.Get("/captures/{name}/edit", app.EditCaptureHandler)
	r.Post("/captures/{name}/label", app.SetCaptureLabelHandler)
	r.Post("/captures/{name}/delete", app.DeleteCaptureHandler)
	r.Post("/review/close", app.CloseReviewHandler)

	fileServer := http.FileServer(http.Dir("./web/static"))
	r.Handle("/static/*", http.StripPrefix("/static", fileServer))

	return r
}
