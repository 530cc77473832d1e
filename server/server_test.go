package server

import (
	"bytes"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunshineplan/imgfilter"
)

func newTestServer(t *testing.T) (*Server, *imgfilter.Processor) {
	t.Helper()
	dir := t.TempDir()
	p := imgfilter.NewProcessor(filepath.Join(dir, "uploads"), filepath.Join(dir, "output"))
	return New(p), p
}

func encodePPM(t *testing.T, img *imgfilter.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imgfilter.Write(&buf, img, &imgfilter.FormatOption{}))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func applyRequest(name, operation string) *http.Request {
	form := url.Values{"name": {name}, "operation": {operation}}
	req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestUploadApplyDownload(t *testing.T) {
	s, p := newTestServer(t)
	img, err := imgfilter.New([]int{10, 40, 70, 100}, []int{20, 50, 80, 110}, []int{30, 60, 90, 120}, 2, 2)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "../../photo.ppm", encodePPM(t, img)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var uploaded map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, "photo.ppm", uploaded["name"])
	assert.FileExists(t, filepath.Join(p.InputDir, "photo.ppm"))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, applyRequest("photo.ppm", "invert"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"operation":"invert"`)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/photo.ppm", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	got, err := imgfilter.Decode(rec.Body)
	require.NoError(t, err)
	want := img.Clone()
	want.Invert()
	assert.Equal(t, want.Pix, got.Pix)
}

func TestApplyErrors(t *testing.T) {
	s, p := newTestServer(t)
	require.NoError(t, os.MkdirAll(p.InputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.InputDir, "broken.ppm"), []byte("P3 nope"), 0644))

	for _, tc := range []struct {
		name, operation string
		code            int
	}{
		{"missing.ppm", "invert", http.StatusNotFound},
		{"broken.ppm", "grayscale", http.StatusInternalServerError},
		{"broken.ppm", "sharpen", http.StatusBadRequest},
		{"", "invert", http.StatusBadRequest},
		{"..", "invert", http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, applyRequest(tc.name, tc.operation))
		assert.Equal(t, tc.code, rec.Code, "%q %q", tc.name, tc.operation)
	}
}

func TestUploadErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, ".hidden", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.MaxUpload = 16
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "big.ppm", bytes.Repeat([]byte("x"), 1024)))
	assert.NotEqual(t, http.StatusCreated, rec.Code)
}

func TestDownloadErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/none.ppm", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/download/none.ppm", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDownloadQuotedName(t *testing.T) {
	s, p := newTestServer(t)
	name := `a"b;c.ppm`
	require.NoError(t, os.MkdirAll(p.OutputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.OutputDir, name), []byte("P3\n1 1\n255\n0 0 0\n"), 0644))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/"+url.PathEscape(name), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, name, params["filename"])
}

func TestCleanName(t *testing.T) {
	for _, tc := range []struct {
		in, want string
		ok       bool
	}{
		{"lena.ppm", "lena.ppm", true},
		{"dir/lena.ppm", "lena.ppm", true},
		{`C:\images\lena.ppm`, "lena.ppm", true},
		{"../../etc/passwd", "passwd", true},
		{"", "", false},
		{"..", "", false},
		{"/", "", false},
		{".env", "", false},
	} {
		got, err := cleanName(tc.in)
		if tc.ok {
			assert.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}
