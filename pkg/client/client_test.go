package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-portfolio/pkg/accounts"
	"video-portfolio/pkg/adminui"
	"video-portfolio/pkg/auth"
	"video-portfolio/pkg/catalog"
	"video-portfolio/pkg/database"
	"video-portfolio/pkg/handlers"
	"video-portfolio/pkg/models"
	"video-portfolio/pkg/ordering"
	"video-portfolio/pkg/repository"
)

func newTestServer(t *testing.T, ttl time.Duration) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	issuer := auth.NewIssuer("client-test", ttl)
	users := accounts.NewService(repository.NewAdmins(log, db), issuer, log)
	_, err = users.EnsureRoot("rootpass")
	require.NoError(t, err)

	h := &handlers.Handler{
		Catalog:  catalog.NewService(repository.NewVideos(log, db), nil, log),
		Accounts: users,
		Issuer:   issuer,
		Log:      log,
	}
	srv := httptest.NewServer(h.Router(nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_VideoWorkflow(t *testing.T) {
	srv := newTestServer(t, time.Hour)
	ctx := context.Background()
	c := New(srv.URL, nil)

	_, err := c.Videos(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	user, err := c.Login(ctx, "admin", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	a, err := c.AddVideo(ctx, catalog.NewVideo{YoutubeID: "aaaaaaaaaaa", Title: "A"})
	require.NoError(t, err)
	b, err := c.AddVideo(ctx, catalog.NewVideo{YoutubeID: "https://youtu.be/bbbbbbbbbbb", Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbbbbb", b.YoutubeID)

	hidden := false
	_, err = c.UpdateVideo(ctx, a.ID, models.VideoPatch{Visible: &hidden})
	require.NoError(t, err)

	public, err := c.PublicVideos(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "B", public[0].Title)

	updated, err := c.Reorder(ctx, []string{b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	all, err := c.Videos(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, all[0].ID)

	require.NoError(t, c.DeleteVideo(ctx, a.ID))
	err = c.DeleteVideo(ctx, a.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	srv := newTestServer(t, time.Hour)
	ctx := context.Background()
	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.Save("not-a-real-token"))
	c := New(srv.URL, tokens)

	_, err := c.Videos(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)

	tok, _ := tokens.Load()
	assert.Empty(t, tok)

	_, err = c.Videos(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestClient_FailedLoginKeepsNoToken(t *testing.T) {
	srv := newTestServer(t, time.Hour)
	tokens := &MemoryTokenStore{}
	c := New(srv.URL, tokens)

	_, err := c.Login(context.Background(), "admin", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	tok, _ := tokens.Load()
	assert.Empty(t, tok)
}

func TestClient_Users(t *testing.T) {
	srv := newTestServer(t, time.Hour)
	ctx := context.Background()
	root := New(srv.URL, nil)
	_, err := root.Login(ctx, "admin", "rootpass")
	require.NoError(t, err)

	_, err = root.CreateUser(ctx, "editor", "secret1")
	require.NoError(t, err)

	users, err := root.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	editor := New(srv.URL, nil)
	_, err = editor.Login(ctx, "editor", "secret1")
	require.NoError(t, err)
	_, err = editor.CreateUser(ctx, "x", "secret1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	require.NoError(t, editor.ChangePassword(ctx, "secret1", "secret2"))
	me, err := editor.Profile(ctx)
	require.NoError(t, err)
	require.NoError(t, editor.DeleteUser(ctx, me.ID))
}

func TestClient_DrivesAdminList(t *testing.T) {
	srv := newTestServer(t, time.Hour)
	ctx := context.Background()
	c := New(srv.URL, nil)
	_, err := c.Login(ctx, "admin", "rootpass")
	require.NoError(t, err)

	var ids []string
	for _, yt := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"} {
		v, err := c.AddVideo(ctx, catalog.NewVideo{YoutubeID: yt, Title: yt[:1]})
		require.NoError(t, err)
		ids = append(ids, v.ID)
	}

	list := adminui.NewList(c)
	require.NoError(t, list.Load(ctx))
	_, err = list.Move(ctx, ids[2], ordering.Up)
	require.NoError(t, err)

	assert.Equal(t, []string{ids[0], ids[2], ids[1]}, list.IDs())
	for i, v := range list.Videos() {
		assert.Equal(t, i+1, v.Order)
	}
}

func TestFileTokenStore(t *testing.T) {
	s := FileTokenStore{Path: filepath.Join(t.TempDir(), "nested", "token")}

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save("abc"))
	tok, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	tok, _ = s.Load()
	assert.Empty(t, tok)
}
