package http

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/uploads"
)

func setupBooksRouter(t *testing.T, env *testEnv, maxUploadBytes int64) (*gin.Engine, *uploads.Store) {
	gin.SetMode(gin.TestMode)

	store, err := uploads.NewStore(t.TempDir(), maxUploadBytes)
	require.NoError(t, err)

	librarian, err := env.users.CreateUser("admin", "hash", entities.UserRoleLibrarian)
	require.NoError(t, err)

	router := gin.New()
	controller := NewBooksController(env.books, store, nil)
	router.POST("/add-book", asUser(librarian), controller.AddBook)

	return router, store
}

func addBookForm(t *testing.T, title, author, coverName string, coverBody io.Reader) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("author", author))
	if coverName != "" {
		part, err := mw.CreateFormFile("cover", coverName)
		require.NoError(t, err)
		_, err = io.Copy(part, coverBody)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestBooksController_AddBook(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router, _ := setupBooksRouter(t, env, 1024)

	body, contentType := addBookForm(t, "Solaris", "Stanislaw Lem", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add-book", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	available, err := env.books.ListAvailable()
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Solaris", available[0].Title)
	assert.Equal(t, config.PlaceholderCover, available[0].Cover)
	assert.True(t, available[0].Available)
}

func TestBooksController_AddBook_WithCover(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router, store := setupBooksRouter(t, env, 1024)

	body, contentType := addBookForm(t, "Solaris", "Stanislaw Lem", "art.png", strings.NewReader("fake image bytes"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add-book", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	available, err := env.books.ListAvailable()
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.NotEqual(t, config.PlaceholderCover, available[0].Cover)

	stored, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{available[0].Cover}, stored)
}

func TestBooksController_AddBook_MissingFields(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router, _ := setupBooksRouter(t, env, 1024)

	tests := []struct {
		name   string
		title  string
		author string
	}{
		{"missing title", "", "Stanislaw Lem"},
		{"missing author", "Solaris", ""},
		{"whitespace only", "   ", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := addBookForm(t, tt.title, tt.author, "", nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/add-book", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/dashboard?error="+url.QueryEscape("Title and author are required"), w.Header().Get("Location"))
		})
	}

	available, err := env.books.ListAvailable()
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestBooksController_AddBook_BadCoverType(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router, store := setupBooksRouter(t, env, 1024)

	body, contentType := addBookForm(t, "Solaris", "Stanislaw Lem", "script.sh", strings.NewReader("#!/bin/sh"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add-book", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?error="+url.QueryEscape("Cover must be an image file"), w.Header().Get("Location"))

	// No book created, nothing stored
	available, err := env.books.ListAvailable()
	require.NoError(t, err)
	assert.Empty(t, available)

	stored, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBooksController_AddBook_CoverTooLarge(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	router, _ := setupBooksRouter(t, env, 8)

	body, contentType := addBookForm(t, "Solaris", "Stanislaw Lem", "art.png", strings.NewReader("definitely more than eight bytes"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add-book", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard?error="+url.QueryEscape("Cover image is too large"), w.Header().Get("Location"))
}
