package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/juanpablosotoc/zartex/config"
	"github.com/juanpablosotoc/zartex/internal/auth"
	"github.com/juanpablosotoc/zartex/internal/auth/fake_auth"
	"github.com/juanpablosotoc/zartex/internal/blob/fake_blob"
	imgpipe "github.com/juanpablosotoc/zartex/internal/image"
	"github.com/juanpablosotoc/zartex/internal/logging"
	"github.com/juanpablosotoc/zartex/internal/store/memory"
	"github.com/juanpablosotoc/zartex/internal/types"
)

const testPassword = "swordfish-42"

type testEnv struct {
	server *HttpServer
	db     *memory.Store
	blobs  *fake_blob.FakeBlob
	fake   *fake_auth.FakeAuth
}

// newTestEnv builds a server backed by the in-memory store and fake blob
// storage. The two fake_auth identities are seeded into the store so that
// handlers touching the clients table resolve them.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := memory.New()
	blobs := fake_blob.New()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	fake := fake_auth.New()
	admin, err := db.CreateClient(context.Background(), &types.Client{
		IsAdmin:      true,
		Email:        fake.Admin.Email,
		PasswordHash: hash,
		FirstName:    fake.Admin.FirstName,
		LastName:     fake.Admin.LastName,
	})
	require.NoError(t, err)
	shopper, err := db.CreateClient(context.Background(), &types.Client{
		Email:        fake.Client.Email,
		PasswordHash: hash,
		FirstName:    fake.Client.FirstName,
		LastName:     fake.Client.LastName,
	})
	require.NoError(t, err)
	fake.Admin = admin
	fake.Client = shopper

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	cfg := config.DefaultConfig()

	validator := imgpipe.NewValidator(cfg.MaxFileSize, cfg.MaxImageDimension, cfg.AllowedExtensions)
	pipeline := imgpipe.NewPipeline(validator, db, blobs, cfg.ImageSizes, nil, log)

	tokens := auth.NewJWT([]byte("test-secret"), time.Hour, db)

	srv, err := New(cfg, Deps{
		DB:       db,
		Auth:     fake,
		Tokens:   tokens,
		Pipeline: pipeline,
		Log:      log,
	})
	require.NoError(t, err)

	return &testEnv{server: srv, db: db, blobs: blobs, fake: fake}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, method, path, token, bytes.NewReader(body), "application/json")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, w, &body)
	return body["detail"]
}

// createMultipartFormBody builds a multipart body with a single "file"
// part carrying the given content type.
func createMultipartFormBody(t *testing.T, filename string, content []byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthcheck", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	require.Equal(t, "Ok", body["status"])
	require.NotEmpty(t, body["version"])
}
