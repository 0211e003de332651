package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/apperr"
	"github.com/youruser/bithunter/internal/trophies"
)

type stubGames struct {
	game *trophies.Game
	err  error
}

func (s stubGames) ResolveGame(_ context.Context, _ string) (*trophies.Game, error) {
	return s.game, s.err
}

func newRouter(games GameResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(games, nil, 15, zap.NewNop()))
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newRouter(stubGames{}), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGame(t *testing.T) {
	game := &trophies.Game{ID: "10953", Name: "Atomicrops", Trophies: []trophies.Trophy{
		{Name: "First Blood", Type: "Bronze", DetailURL: "https://psnprofiles.com/trophy/10953-atomicrops/1-first-blood"},
	}}

	tests := []struct {
		name   string
		path   string
		games  stubGames
		status int
	}{
		{"ok", "/api/games/10953", stubGames{game: game}, http.StatusOK},
		{"not numeric", "/api/games/abc", stubGames{game: game}, http.StatusBadRequest},
		{"zero", "/api/games/0", stubGames{game: game}, http.StatusBadRequest},
		{"not found", "/api/games/1", stubGames{err: apperr.GameNotFound("1")}, http.StatusNotFound},
		{"upstream", "/api/games/2", stubGames{err: apperr.Transport("unexpected status code: 503", "u", nil)}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(tt.games), httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := serve(newRouter(stubGames{game: game}), httptest.NewRequest(http.MethodGet, "/api/games/10953", nil))
	var got trophies.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *game, got)
}

func multipartImage(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "trophy.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func trophyPNG(t *testing.T, size int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(size, size, color.NRGBA{B: 255, A: 255})))
	return buf.Bytes()
}

func TestCompose(t *testing.T) {
	body, ct := multipartImage(t, "image", trophyPNG(t, 240))
	req := httptest.NewRequest(http.MethodPost, "/api/compose?size=120", body)
	req.Header.Set("Content-Type", ct)

	w := serve(newRouter(stubGames{}), req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 120), img.Bounds())
}

func TestCompose_Errors(t *testing.T) {
	r := newRouter(stubGames{})

	body, ct := multipartImage(t, "file", trophyPNG(t, 240))
	req := httptest.NewRequest(http.MethodPost, "/api/compose", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)

	body, ct = multipartImage(t, "image", trophyPNG(t, 240))
	req = httptest.NewRequest(http.MethodPost, "/api/compose?size=big", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusBadRequest, serve(r, req).Code)

	// a 20px trophy leaves no room inside a 15px frame
	body, ct = multipartImage(t, "image", trophyPNG(t, 20))
	req = httptest.NewRequest(http.MethodPost, "/api/compose", body)
	req.Header.Set("Content-Type", ct)
	w := serve(r, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), string(apperr.KindCompose))
}

func TestMetricsRoute(t *testing.T) {
	w := serve(newRouter(stubGames{}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
