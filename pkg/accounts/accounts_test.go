package accounts

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-portfolio/pkg/auth"
	"video-portfolio/pkg/database"
	"video-portfolio/pkg/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repository.NewAdmins(log, db), auth.NewIssuer("secret", time.Hour), log)
}

func rootActor(t *testing.T, s *Service) Actor {
	t.Helper()
	created, err := s.EnsureRoot("rootpass")
	require.NoError(t, err)
	require.True(t, created)
	sess, err := s.Login("admin", "rootpass")
	require.NoError(t, err)
	return Actor{ID: sess.Admin.ID, Username: sess.Admin.Username}
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	rootActor(t, s)

	sess, err := s.Login("admin", "rootpass")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = s.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login("ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login("", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestCreate_OnlyRootMayCreate(t *testing.T) {
	s := newTestService(t)
	root := rootActor(t, s)

	editor, err := s.Create(root, "editor", "secret1")
	require.NoError(t, err)

	_, err = s.Create(Actor{ID: editor.ID, Username: "editor"}, "intruder", "secret1")
	assert.ErrorIs(t, err, ErrForbiddenCreate)

	_, err = s.Create(root, "editor", "secret1")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.Create(root, "short", "12345")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = s.Create(root, "", "secret1")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDelete_Rules(t *testing.T) {
	s := newTestService(t)
	root := rootActor(t, s)

	assert.ErrorIs(t, s.Delete(root, root.ID), ErrLastAdmin)

	editor, err := s.Create(root, "editor", "secret1")
	require.NoError(t, err)
	editorActor := Actor{ID: editor.ID, Username: editor.Username}

	assert.ErrorIs(t, s.Delete(root, editor.ID), ErrForbiddenDelete)

	require.NoError(t, s.Delete(editorActor, editor.ID))
	assert.ErrorIs(t, s.Delete(root, root.ID), ErrLastAdmin)
}

func TestChangePassword(t *testing.T) {
	s := newTestService(t)
	root := rootActor(t, s)

	assert.ErrorIs(t, s.ChangePassword(root, "", "newpass"), ErrMissingPasswords)
	assert.ErrorIs(t, s.ChangePassword(root, "rootpass", "123"), ErrWeakPassword)
	assert.ErrorIs(t, s.ChangePassword(root, "nope", "newpass"), ErrWrongPassword)

	require.NoError(t, s.ChangePassword(root, "rootpass", "newpass"))
	_, err := s.Login("admin", "newpass")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.ChangePassword(Actor{ID: "gone"}, "a", "newpass"), ErrNotFound)
}

func TestEnsureRoot_Idempotent(t *testing.T) {
	s := newTestService(t)

	has, err := s.HasRoot()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.EnsureRoot("123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	created, err := s.EnsureRoot("rootpass")
	require.NoError(t, err)
	assert.True(t, created)

	has, err = s.HasRoot()
	require.NoError(t, err)
	assert.True(t, has)

	created, err = s.EnsureRoot("another")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestProfile(t *testing.T) {
	s := newTestService(t)
	root := rootActor(t, s)

	admin, err := s.Profile(root)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	_, err = s.Profile(Actor{ID: "gone"})
	assert.ErrorIs(t, err, ErrNotFound)
}
