package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/catalog"
	"github.com/kvolkov/linejudge/internal/frames"
	"github.com/kvolkov/linejudge/internal/media"
	"github.com/kvolkov/linejudge/internal/session"
)

// stubExtractor stands in for ffmpeg.
type stubExtractor struct {
	probe frames.ProbeInfo
	frame []byte
	err   error
}

func (s *stubExtractor) Probe(ctx context.Context, videoPath string) (frames.ProbeInfo, error) {
	return s.probe, s.err
}

func (s *stubExtractor) ExtractAt(ctx context.Context, videoPath string, timestamp float64) ([]byte, error) {
	return s.frame, s.err
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	db, err := catalog.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &App{
		Logger:  zap.NewNop(),
		Session: session.New(30),
		Videos:  catalog.NewVideoRepository(db),
		Extractor: &stubExtractor{
			probe: frames.ProbeInfo{Duration: 60, Width: 1280, Height: 720},
			frame: []byte("jpeg-bytes"),
		},
		TemplateDir: t.TempDir(), // no templates; handlers use fallbacks
	}
}

// withURLParam runs a handler with a chi URL parameter injected, so
// handlers can be tested without the full router.
func withURLParam(req *http.Request, key, value string, rec *httptest.ResponseRecorder, handler http.HandlerFunc) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	handler(rec, req)
}

func postForm(t *testing.T, handler http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSelectLibraryCancelledIsSilent(t *testing.T) {
	app := newTestApp(t)

	rec := postForm(t, app.SelectLibraryHandler, "/library", url.Values{"path": {""}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String(), "cancellation must not produce an error message")
}

func TestSelectLibraryScansAndCatalogs(t *testing.T) {
	app := newTestApp(t)
	libDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "game1.mp4"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "notes.txt"), []byte("x"), 0644))

	rec := postForm(t, app.SelectLibraryHandler, "/library", url.Values{"path": {libDir}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "libraryChanged", rec.Header().Get("HX-Trigger"))

	videos, err := app.Videos.List()
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "game1", videos[0].Identity)
	assert.Equal(t, 1280, videos[0].Width)
}

func TestSelectLibraryInaccessibleShowsError(t *testing.T) {
	app := newTestApp(t)

	rec := postForm(t, app.SelectLibraryHandler, "/library",
		url.Values{"path": {filepath.Join(t.TempDir(), "nope")}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "alert-error")
}

func TestCaptureWritesPair(t *testing.T) {
	app := newTestApp(t)
	libDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(libDir, "game1.mp4"), []byte("x"), 0644))

	require.NoError(t, app.Session.SelectLibrary(libDir))
	require.NoError(t, app.Session.SelectOutput(outDir))
	require.NoError(t, app.Videos.Upsert(catalog.NewVideo("game1", "game1.mp4", 60, 1280, 720)))
	require.NoError(t, app.Session.SetActive(media.MediaReference{
		Name: "game1.mp4", Path: filepath.Join(libDir, "game1.mp4")}))

	req := httptest.NewRequest(http.MethodPost, "/videos/game1/capture",
		strings.NewReader(url.Values{"t": {"12.345"}, "label": {"ball_out"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	withURLParam(req, "identity", "game1", rec, app.CaptureHandler)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "captureSaved", rec.Header().Get("HX-Trigger"))

	image, err := os.ReadFile(filepath.Join(outDir, "game1_frame370_12.345s.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), image)

	label, err := os.ReadFile(filepath.Join(outDir, "game1_frame370_12.345s.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ball_out", string(label))
}

func TestCaptureRejectsUnknownLabel(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Session.SelectOutput(t.TempDir()))
	require.NoError(t, app.Videos.Upsert(catalog.NewVideo("game1", "game1.mp4", 60, 1280, 720)))

	req := httptest.NewRequest(http.MethodPost, "/videos/game1/capture",
		strings.NewReader(url.Values{"t": {"1.0"}, "label": {"ball_maybe"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	withURLParam(req, "identity", "game1", rec, app.CaptureHandler)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaptureWithoutOutputDir(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/videos/game1/capture",
		strings.NewReader(url.Values{"t": {"1.0"}, "label": {"ball_in"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	withURLParam(req, "identity", "game1", rec, app.CaptureHandler)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "alert-error")
}

func TestFrameStatus(t *testing.T) {
	app := newTestApp(t)
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "game1_frame370_12.345s.jpg"), []byte("jpeg"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "game1_frame370_12.345s.txt"), []byte("ball_in"), 0644))
	require.NoError(t, app.Session.SelectOutput(outDir))
	require.NoError(t, app.Session.SetActive(media.MediaReference{Name: "game1.mp4"}))

	t.Run("Annotated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/videos/game1/frame-status?t=12.345", nil)
		rec := httptest.NewRecorder()
		app.FrameStatusHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"annotated":true,"label":"ball_in","image":"game1_frame370_12.345s.jpg"}`,
			rec.Body.String())
	})

	t.Run("Unannotated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/videos/game1/frame-status?t=3.0", nil)
		rec := httptest.NewRecorder()
		app.FrameStatusHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"annotated":false}`, rec.Body.String())
	})
}

func TestCaptureImageRejectsTraversal(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Session.SelectOutput(t.TempDir()))

	req := httptest.NewRequest(http.MethodGet, "/captures/x/image", nil)
	rec := httptest.NewRecorder()
	withURLParam(req, "name", "../../etc/passwd", rec, app.CaptureImageHandler)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
