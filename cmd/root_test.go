package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/s0up4200/postarr/config"
	"github.com/s0up4200/postarr/credential"
	"github.com/s0up4200/postarr/poster"
	"github.com/s0up4200/postarr/tmdb"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(errPartialFailure))
	assert.Equal(t, 2, exitCode(fmt.Errorf("radarr: %w", errPartialFailure)))
	assert.Equal(t, 1, exitCode(credential.ErrMissing))
	assert.Equal(t, 1, exitCode(errors.New("invalid options")))
}

func TestCollectIDs(t *testing.T) {
	t.Run("arguments win over stdin", func(t *testing.T) {
		ids, rejected, err := collectIDs([]string{"tt1", "tt2"}, "", strings.NewReader("tt3"), tmdb.SourceIMDb)
		require.NoError(t, err)
		assert.Empty(t, rejected)
		require.Len(t, ids, 2)
		assert.Equal(t, "tt1", ids[0].Token)
		assert.Equal(t, "tt2", ids[1].Token)
	})

	t.Run("stdin", func(t *testing.T) {
		ids, _, err := collectIDs(nil, "-", strings.NewReader("278\n238 ../x\n"), tmdb.SourceTMDb)
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.Equal(t, tmdb.SourceTMDb, ids[0].Source)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ids.txt")
		require.NoError(t, os.WriteFile(path, []byte("tt0111161\n\ntt0068646\n"), 0o644))

		ids, _, err := collectIDs(nil, path, strings.NewReader("ignored"), tmdb.SourceIMDb)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := collectIDs(nil, filepath.Join(t.TempDir(), "nope"), nil, tmdb.SourceIMDb)
		assert.Error(t, err)
	})
}

func TestPrintReport(t *testing.T) {
	report := &poster.Report{
		Total:       4,
		Interrupted: true,
		Results: []poster.Result{
			{ID: tmdb.ExternalID{Token: "tt1"}, Status: poster.StatusDownloaded, Path: "posters/tt1.jpg"},
			{ID: tmdb.ExternalID{Token: "tt2"}, Status: poster.StatusNotFound, Stage: poster.StageResolve, Err: tmdb.ErrNotFound},
			{ID: tmdb.ExternalID{Token: "tt3"}, Status: poster.StatusFiltered, Stage: poster.StageFilter},
		},
	}

	var out, errOut bytes.Buffer
	printReport(&out, &errOut, report)

	assert.Equal(t, "downloaded\ttt1\tposters/tt1.jpg\nfiltered\ttt3\n", out.String())
	assert.Equal(t, "not-found\ttt2\tresolve: movie not found\ninterrupted after 3 of 4 ids\n", errOut.String())
}

func TestProgressObserver(t *testing.T) {
	obs := &progressObserver{logger: zerolog.Nop()}
	obs.OnItemDone(0, 2, poster.Result{Status: poster.StatusDownloaded})
	obs.OnItemDone(1, 2, poster.Result{Status: poster.StatusNotFound})
	assert.Equal(t, int64(2), obs.done.Load())
}

func TestUserAgent(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "1.2.3"
	assert.Equal(t, "postarr/1.2.3", userAgent())
}

// catalogServer counts requests and answers every /find with an empty result
func catalogServer(t *testing.T) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()
	var hits atomic.Int32
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"movie_results":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, &auth
}

// useConfig points the package-level config at srv for the duration of the test
func useConfig(t *testing.T, srv *httptest.Server, dir string) {
	t.Helper()
	origCfg, origLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = origCfg, origLogger })

	cfg = &config.Config{
		TMDB: config.TMDBConfig{
			APIURL:   srv.URL,
			ImageURL: srv.URL,
			Timeout:  5 * time.Second,
		},
		Download: config.DownloadConfig{
			Width:       "original",
			Source:      "imdb",
			OutputDir:   filepath.Join(dir, "posters"),
			Concurrency: 1,
		},
	}
	logger = zerolog.Nop()
}

func testCommand(out, errOut *bytes.Buffer) *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.SetOut(out)
	c.SetErr(errOut)
	return c
}

func TestRunDownload_MissingCredential(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(credential.EnvVar, "")

	srv, hits, _ := catalogServer(t)
	useConfig(t, srv, dir)

	var out, errOut bytes.Buffer
	err := runDownload(testCommand(&out, &errOut), []string{"tt0111161"})

	require.ErrorIs(t, err, credential.ErrMissing)
	assert.Equal(t, 1, exitCode(err))
	assert.Zero(t, hits.Load(), "no request may be made without a token")
	assert.NoDirExists(t, filepath.Join(dir, "posters"))
	assert.Empty(t, out.String())
}

func TestRunDownload_WithCredential(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(credential.EnvVar, "test-token")

	srv, hits, auth := catalogServer(t)
	useConfig(t, srv, dir)

	var out, errOut bytes.Buffer
	err := runDownload(testCommand(&out, &errOut), []string{"tt0111161"})

	require.ErrorIs(t, err, errPartialFailure)
	assert.Equal(t, 2, exitCode(err))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Bearer test-token", auth.Load())
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "not-found\ttt0111161\tresolve")
}
