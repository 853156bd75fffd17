package table

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.csv", "PGA,IDR,gm\n0.3,0.01,RSN1\n0.8,,RSN2\n")

	tbl, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"PGA", "IDR", "gm"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, Number(0.3), tbl.Cell(0, "PGA"))
	assert.True(t, tbl.Cell(1, "IDR").IsNull())
	assert.Equal(t, Text("RSN2"), tbl.Cell(1, "gm"))
}

func TestReadCSV_Empty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.csv", "")

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestReadExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"PGA", "IDR"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{0.4, 0.02}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := ReadExcel(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, Number(0.4), tbl.Cell(0, "PGA"))
	assert.Equal(t, Number(0.02), tbl.Cell(0, "IDR"))
}

func TestLoader_TagsProvenanceAndSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "PGA\n0.3\n")
	writeFile(t, dir, "b.csv", "PGA\n0.5\n0.6\n")
	writeFile(t, dir, "broken.csv", "")
	writeFile(t, dir, "notes.txt", "ignored")

	frames := NewLoader(testLogger()).LoadDir(dir)
	require.Len(t, frames, 2)

	// Lexical order.
	assert.Equal(t, "a.csv", frames[0].Source)
	assert.Equal(t, "b.csv", frames[1].Source)

	assert.Equal(t, Text("a.csv"), frames[0].Table.Cell(0, SourceColumn))
	assert.Equal(t, Text("b.csv"), frames[1].Table.Cell(1, SourceColumn))
}

func TestLoader_Recursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "batch1")
	require.NoError(t, os.MkdirAll(sub, 0755))
	writeFile(t, sub, "run.csv", "PGA\n0.3\n")

	frames := NewLoader(testLogger()).LoadDir(dir)
	require.Len(t, frames, 1)
	assert.Equal(t, "run.csv", frames[0].Source)
}

func TestLoader_MissingDir(t *testing.T) {
	frames := NewLoader(testLogger()).LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, frames)
}
