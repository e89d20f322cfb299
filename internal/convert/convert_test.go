package convert

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docverter "github.com/nicholasgasior/docverter-go"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvertDocuments(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	src := strings.Join([]string{
		"# Release Notes",
		"",
		"Bug fixes and improvements.",
		"",
		"| Version | Date |",
		"| --- | --- |",
		"| 1.2 | 2026-08-01 |",
	}, "\n")
	inPath := filepath.Join(inDir, "notes.md")
	require.NoError(t, os.WriteFile(inPath, []byte(src), 0o644))

	err := ConvertDocuments([]string{inPath}, outDir, []string{"md", "json"}, discardLogger())
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(outDir, "notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Release Notes")
	assert.Contains(t, string(md), "| 1.2 | 2026-08-01 |")

	_, err = os.Stat(filepath.Join(outDir, "notes.json"))
	assert.NoError(t, err)

	// One timestamped image directory per converted document, holding the
	// table snapshot.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var imageDirs []string
	for _, e := range entries {
		if e.IsDir() {
			imageDirs = append(imageDirs, e.Name())
		}
	}
	require.Len(t, imageDirs, 1)
	assert.True(t, strings.HasPrefix(imageDirs[0], "notes_"), "image dir = %s", imageDirs[0])

	images, err := os.ReadDir(filepath.Join(outDir, imageDirs[0]))
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "notes-table-1.png", images[0].Name())
}

func TestConvertDocumentsMultipleInputs(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(inDir, "a.md"), []byte("# A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "b.csv"), []byte("x,y\n1,2\n"), 0o644))

	err := ConvertDocuments(
		[]string{filepath.Join(inDir, "a.md"), filepath.Join(inDir, "b.csv")},
		outDir, []string{"txt"}, discardLogger(),
	)
	require.NoError(t, err)

	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "expected %s", name)
	}
}

func TestConvertDocumentsUnsupportedInput(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	bad := filepath.Join(inDir, "blob.bin")
	require.NoError(t, os.WriteFile(bad, []byte{0x00, 0x01, 0x02, 0x03}, 0o644))

	err := ConvertDocuments([]string{bad}, outDir, []string{"md"}, discardLogger())
	require.Error(t, err)
	assert.True(t, docverter.IsUnsupportedFormat(err))
}

func TestConvertDocumentsFirstErrorAborts(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	bad := filepath.Join(inDir, "blob.bin")
	good := filepath.Join(inDir, "after.md")
	require.NoError(t, os.WriteFile(bad, []byte{0x00, 0x01}, 0o644))
	require.NoError(t, os.WriteFile(good, []byte("# After\n"), 0o644))

	err := ConvertDocuments([]string{bad, good}, outDir, []string{"md"}, discardLogger())
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "after.md"))
	assert.True(t, os.IsNotExist(statErr), "inputs after the failure should not be converted")
}
