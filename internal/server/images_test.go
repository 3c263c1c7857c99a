package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/juanpablosotoc/zartex/internal/auth/fake_auth"
	"github.com/juanpablosotoc/zartex/internal/types"
)

func uploadImage(t *testing.T, env *testEnv, filename string, content []byte, contentType string) *types.ImageRecord {
	t.Helper()
	body, formType := createMultipartFormBody(t, filename, content, contentType)
	w := env.do(t, http.MethodPost, "/api/v1/assets/images", fake_auth.AdminToken, body, formType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var record types.ImageRecord
	decodeBody(t, w, &record)
	return &record
}

func TestImageUpload(t *testing.T) {
	env := newTestEnv(t)

	record := uploadImage(t, env, "photo.jpg", makeJPEG(t, 800, 600), "image/jpeg")
	require.NotZero(t, record.ID)
	require.Contains(t, record.SmallURL, "/images/small/")
	require.Contains(t, record.MediumURL, "/images/medium/")
	require.Contains(t, record.LargeURL, "/images/large/")
	require.Len(t, env.blobs.Keys(), 3)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/images/%d", record.ID), "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched types.ImageRecord
	decodeBody(t, w, &fetched)
	require.Equal(t, record.ID, fetched.ID)
	require.Equal(t, record.SmallURL, fetched.SmallURL)
	require.Equal(t, record.MediumURL, fetched.MediumURL)
	require.Equal(t, record.LargeURL, fetched.LargeURL)
}

func TestImageUploadRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name        string
		filename    string
		content     []byte
		contentType string
		detail      string
	}{
		{
			name:        "text file renamed to jpg",
			filename:    "notes.jpg",
			content:     []byte("definitely not an image"),
			contentType: "text/plain",
			detail:      "File must be an image",
		},
		{
			name:        "garbage with image content type",
			filename:    "broken.jpg",
			content:     []byte("definitely not an image"),
			contentType: "image/jpeg",
			detail:      "Invalid image file",
		},
		{
			name:        "disallowed extension",
			filename:    "photo.svg",
			content:     makeJPEG(t, 100, 100),
			contentType: "image/jpeg",
			detail:      "File extension not allowed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, formType := createMultipartFormBody(t, tc.filename, tc.content, tc.contentType)
			w := env.do(t, http.MethodPost, "/api/v1/assets/images", fake_auth.AdminToken, body, formType)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.True(t, strings.HasPrefix(errorDetail(t, w), tc.detail))
			require.Empty(t, env.blobs.Keys())
		})
	}
}

func TestImageUploadMissingFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/assets/images", fake_auth.AdminToken, nil, "multipart/form-data")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageUploadAuthorization(t *testing.T) {
	env := newTestEnv(t)
	body, formType := createMultipartFormBody(t, "photo.jpg", makeJPEG(t, 100, 100), "image/jpeg")

	w := env.do(t, http.MethodPost, "/api/v1/assets/images", "", body, formType)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid token", errorDetail(t, w))

	body, formType = createMultipartFormBody(t, "photo.jpg", makeJPEG(t, 100, 100), "image/jpeg")
	w = env.do(t, http.MethodPost, "/api/v1/assets/images", fake_auth.ClientToken, body, formType)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "You are not authorized to access this resource", errorDetail(t, w))
}

func TestImageGetNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/assets/images/999", "/api/v1/assets/images/not-a-number"} {
		w := env.do(t, http.MethodGet, path, "", nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "Image not found", errorDetail(t, w))
	}
}

func TestImageDelete(t *testing.T) {
	env := newTestEnv(t)
	record := uploadImage(t, env, "photo.jpg", makeJPEG(t, 800, 600), "image/jpeg")

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/assets/images/%d", record.ID), fake_auth.AdminToken, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, env.blobs.Keys())

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/images/%d", record.ID), "", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageDeleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	record := uploadImage(t, env, "photo.jpg", makeJPEG(t, 100, 100), "image/jpeg")
	path := fmt.Sprintf("/api/v1/assets/images/%d", record.ID)

	w := env.do(t, http.MethodDelete, path, "", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodDelete, path, fake_auth.ClientToken, nil, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/assets/images/999", fake_auth.AdminToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Image not found", errorDetail(t, w))
}
