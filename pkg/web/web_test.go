package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-portfolio/pkg/models"
)

type staticVideos struct {
	videos []models.PublicVideo
	err    error
}

func (s staticVideos) Public(context.Context) ([]models.PublicVideo, error) {
	return s.videos, s.err
}

func newTestEngine(t *testing.T, src VideoSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	site, err := New(src, log)
	require.NoError(t, err)
	r := gin.New()
	site.Register(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLanding(t *testing.T) {
	r := newTestEngine(t, staticVideos{videos: []models.PublicVideo{
		{ID: "1", YoutubeID: "dQw4w9WgXcQ", Title: "Clip <one>", Description: "first"},
		{ID: "2", YoutubeID: "abcdefghijk", Title: "Clip two"},
	}})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "https://www.youtube.com/embed/dQw4w9WgXcQ")
	assert.Contains(t, body, "Clip &lt;one&gt;")
	assert.NotContains(t, body, "Clip <one>")
	assert.Contains(t, body, "Clip two")
	assert.NotContains(t, body, "No videos yet")

	// layers start at their scroll = 0 position
	assert.Contains(t, body, `data-layer="backdrop" style="transform: translate3d(0, 0.0px, 0);"`)
	assert.Contains(t, body, `data-layer="title-fade" style="opacity: 1.000;"`)
	assert.Contains(t, body, `data-layer="portrait" style="transform: scale(0.850);"`)

	// browser engine config
	assert.Contains(t, body, `"timeoutMs":3000`)
	assert.Contains(t, body, `"scenes":`)
	assert.Contains(t, body, `href="#hero"`)
}

func TestLanding_Empty(t *testing.T) {
	r := newTestEngine(t, staticVideos{})
	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No videos yet")
}

func TestLanding_LoadError(t *testing.T) {
	r := newTestEngine(t, staticVideos{err: errors.New("db down")})
	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load videos")
}

func TestPortalAndAssets(t *testing.T) {
	r := newTestEngine(t, staticVideos{})

	w := get(r, "/portal")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="login-form"`)

	for _, path := range []string{"/portal/assets/admin.js", "/portal/assets/admin.css", "/static/app.js", "/static/style.css"} {
		w := get(r, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotZero(t, w.Body.Len(), path)
	}
}
