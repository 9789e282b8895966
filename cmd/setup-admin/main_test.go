package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-portfolio/cmd/config"
	"video-portfolio/pkg/accounts"
	"video-portfolio/pkg/database"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:      "setup-test",
		JWTExpiresIn:   time.Hour,
		DatabaseDriver: "sqlite3",
		DatabaseDSN:    filepath.Join(t.TempDir(), "portfolio.db"),
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	var out bytes.Buffer
	err := run(cfg, "short", strings.NewReader(""), &out, log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, accounts.ErrWeakPassword), err)

	out.Reset()
	require.NoError(t, run(cfg, "", strings.NewReader("goodpass\n"), &out, log))
	assert.Contains(t, out.String(), "Password for \"admin\"")
	assert.Contains(t, out.String(), "created")

	out.Reset()
	require.NoError(t, run(cfg, "ignored1", strings.NewReader(""), &out, log))
	assert.Contains(t, out.String(), "already exists")

	// every run closes its handle, so the file is free to reopen
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.Table("admins").Count(&n).Error)
	assert.Equal(t, 1, n)
}
