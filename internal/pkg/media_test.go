package pkg

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader 足以让 DetectContentType 识别为 image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestMediaStoreSavePostImage(t *testing.T) {
	root := t.TempDir()
	m := NewMediaStore(root, "/media", 1<<20)

	rel, err := m.SavePostImage(fileHeader(t, "pic.png", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "posts/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.Equal(t, "/media/"+rel, m.PublicURL(rel))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)

	require.NoError(t, m.Remove(rel))
	require.NoError(t, m.Remove(rel))
}

func TestMediaStoreRejects(t *testing.T) {
	m := NewMediaStore(t.TempDir(), "/media/", 16)

	_, err := m.SavePostImage(fileHeader(t, "notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = m.SavePostImage(fileHeader(t, "big.png", append(pngHeader, make([]byte, 64)...)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestValidators(t *testing.T) {
	assert.True(t, IsSlug("test-slug1"))
	assert.False(t, IsSlug("bad slug"))
	assert.False(t, IsSlug(strings.Repeat("a", 51)))
	assert.True(t, IsUsername("alice.b+c@d-e_f"))
	assert.False(t, IsUsername("no spaces"))

	code, err := RandDigits(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}
