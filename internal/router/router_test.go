package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"toonstream/internal/generator"
	"toonstream/internal/handlers"
	"toonstream/internal/render"
	"toonstream/internal/store"
)

// newTestRouter wires the full production stack over a sqlmock database.
func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rn, err := render.New()
	require.NoError(t, err)

	movies := store.NewMovieStore(db)
	blogs := store.NewBlogPostStore(db)
	config := store.NewSiteConfigStore(db)
	analytics := store.NewAnalyticsStore(db)
	gen := generator.New(movies, blogs, config)

	api := handlers.NewAPI(movies, blogs, config, analytics, gen, nil)
	pages := handlers.NewPages(rn, movies, blogs, config, nil)
	admin := handlers.NewAdmin(rn, movies, blogs, analytics)

	return New(api, pages, admin), mock
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestUnknownPathGetsThemed404(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "404")
}

func TestAPIRoutesHaveCORS(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/analytics", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTMLRoutesHaveNoCORS(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-cors-here", nil))

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticAssetsServed(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{
		"/static/js/main.js",
		"/static/js/blog.js",
		"/static/js/watch.js",
		"/static/css/site.css",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equalf(t, http.StatusOK, rec.Code, "asset %s", path)
	}
}

func TestHomePageRenders(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery(`SELECT m\.id, m\.title`).WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "title", "slug", "release_year", "summary", "trivia",
			"poster_url", "video_embed_url", "video_type",
			"seo_title", "seo_description", "seo_keywords",
			"published", "created_at",
			"blog_slug", "excerpt", "view_count",
		}).AddRow(
			1, "Cosmo Cat", "cosmo-cat", 1998, nil, nil,
			nil, nil, nil, nil, nil, nil,
			true, time.Now(),
			"cosmo-cat-review", "A review.", 3,
		),
	)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Cosmo Cat")
	require.True(t, strings.Contains(rec.Body.String(), "/blog/cosmo-cat-review"))
}
