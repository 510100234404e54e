package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// uploadContext builds a gin context carrying a multipart request with one
// uploaded file.
func uploadContext(t *testing.T, field, filename string, content []byte) *gin.Context {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	c := uploadContext(t, "image", "avatar.png", []byte("png-bytes"))

	url, err := SaveImage(c, "image", dir, "users")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/users/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file lands on disk under uploadDir/subdir.
	saved := filepath.Join(dir, "users", filepath.Base(url))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveImageRejectsBadExtension(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"animation.gif", "doc.pdf", "noext"} {
		c := uploadContext(t, "image", name, []byte("data"))
		_, err := SaveImage(c, "image", dir, "users")
		require.Error(t, err, "filename %q must be rejected", name)
		assert.Contains(t, err.Error(), "jpeg, jpg and png")
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written for rejected files")
}

func TestSaveImageRejectsOversizeFile(t *testing.T) {
	dir := t.TempDir()
	c := uploadContext(t, "image", "huge.jpg", make([]byte, MaxImageSize+1))

	_, err := SaveImage(c, "image", dir, "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5MB")
}

func TestSaveImageMissingFile(t *testing.T) {
	dir := t.TempDir()

	// Multipart form without the expected field.
	c := uploadContext(t, "other_field", "avatar.png", []byte("data"))
	_, err := SaveImage(c, "image", dir, "users")
	assert.ErrorIs(t, err, ErrNoFile)

	// Non-multipart request, the usual shape for JSON-only clients.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = req
	_, err = SaveImage(c2, "image", dir, "users")
	assert.ErrorIs(t, err, ErrNoFile)
}
