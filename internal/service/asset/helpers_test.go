package asset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// writeUpload writes content to a temp file named like originalName and
// returns the matching Upload.
func writeUpload(t *testing.T, dir, originalName string, content []byte) asset.Upload {
	t.Helper()
	f, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(originalName))
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return asset.Upload{TempPath: f.Name(), OriginalName: originalName, Size: int64(len(content))}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
