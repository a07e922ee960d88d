package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartek5186/ean13gen/internal/history"
	"github.com/bartek5186/ean13gen/internal/pipeline"
	"github.com/bartek5186/ean13gen/internal/tabular"
)

type staticReader struct{ t *tabular.Table }

func (s staticReader) Read(path string) (*tabular.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return s.t, nil
}

type okRenderer struct{}

func (okRenderer) Render(code string) ([]byte, error) { return []byte(code), nil }

type nopWriter struct{}

func (nopWriter) Write(*tabular.Table, []string, string) error { return nil }

func setup(t *testing.T) (*Runner, *history.Handle, string) {
	t.Helper()
	dir := t.TempDir()

	store, err := history.OpenAt(dir, history.Config{Enabled: true})
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	tbl := &tabular.Table{
		Columns: []string{"Nombre"},
		Rows:    []tabular.Row{{Index: 0, Cells: map[string]string{"Nombre": "Café"}}},
	}
	d := pipeline.New(zerolog.Nop(), pipeline.Deps{
		Reader:   staticReader{t: tbl},
		Writer:   nopWriter{},
		Renderer: okRenderer{},
	}, pipeline.DefaultNaming())

	src := filepath.Join(dir, "lista.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("contenido"), 0o644))
	return New(zerolog.Nop(), d, store), store, src
}

func TestRunRecordsHistory(t *testing.T) {
	r, store, src := setup(t)

	done, err := r.Processed(src)
	require.NoError(t, err)
	assert.False(t, done)

	rep, err := r.Run(context.Background(), pipeline.Config{
		SourcePath: src, OutputDir: filepath.Join(filepath.Dir(src), "out"), ProductColumn: "Nombre",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Generated)

	done, err = r.Processed(src)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusDone, runs[0].Status)
	assert.Equal(t, int64(len("contenido")), runs[0].SizeBytes)
}

func TestRunRecordsFailure(t *testing.T) {
	r, store, src := setup(t)
	missing := filepath.Join(filepath.Dir(src), "brak.xlsx")

	_, err := r.Run(context.Background(), pipeline.Config{
		SourcePath: missing, OutputDir: t.TempDir(), ProductColumn: "Nombre",
	})
	require.Error(t, err)
	assert.True(t, pipeline.IsSourceRead(err))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusError, runs[0].Status)
	assert.Equal(t, "source_read", runs[0].ErrorKind)
}

func TestRunWithoutHistory(t *testing.T) {
	r, _, src := setup(t)
	r.store = nil

	_, err := r.Run(context.Background(), pipeline.Config{
		SourcePath: src, OutputDir: t.TempDir(), ProductColumn: "Nombre",
	})
	require.NoError(t, err)

	done, err := r.Processed(src)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestFileSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))
	sum, n, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
}
