package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonstream/internal/generator"
	"toonstream/internal/models"
	"toonstream/internal/store"
)

// listingColumns matches MovieStore.ListPublished's select list.
var listingColumns = []string{
	"id", "title", "slug", "release_year", "summary", "trivia",
	"poster_url", "video_embed_url", "video_type",
	"seo_title", "seo_description", "seo_keywords",
	"published", "created_at",
	"blog_slug", "excerpt", "view_count",
}

// movieColumns matches MovieStore.FindPublishedBySlug's select list.
var movieColumns = listingColumns[:14]

// articleColumns matches BlogPostStore.FindPublishedBySlugAndCount's
// select list.
var articleColumns = []string{
	"id", "movie_id", "title", "slug", "content", "excerpt",
	"seo_title", "seo_description", "seo_keywords",
	"view_count", "published", "created_at",
	"movie_title", "movie_slug", "video_embed_url", "video_type",
}

// newTestAPI builds the API handler group over a sqlmock database and a
// chi router with the production route shapes.
func newTestAPI(t *testing.T) (*chi.Mux, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	api := NewAPI(
		store.NewMovieStore(db),
		store.NewBlogPostStore(db),
		store.NewSiteConfigStore(db),
		store.NewAnalyticsStore(db),
		nil, // generator is wired per-test
		nil, // no page cache
	)

	r := chi.NewRouter()
	r.Get("/api/movies", api.ListMovies)
	r.Get("/api/movies/{slug}", api.GetMovie)
	r.Get("/api/blog/{slug}", api.GetBlogPost)
	r.Post("/api/analytics", api.RecordEvent)
	r.Get("/api/config", api.GetConfig)

	return r, mock, func() { db.Close() }
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed),
		"response is not JSON: %s", rec.Body.String())
	return rec, parsed
}

func TestListMovies(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(`SELECT m\.id, m\.title`).WillReturnRows(
		sqlmock.NewRows(listingColumns).AddRow(
			1, "Cosmo Cat", "cosmo-cat", 1998, "Gears.", nil,
			"/static/p.jpg", nil, nil,
			nil, nil, nil,
			true, now,
			"cosmo-cat-review", "A hidden city.", 42,
		),
	)

	rec, body := doJSON(t, r, http.MethodGet, "/api/movies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	movies, ok := body["movies"].([]any)
	require.True(t, ok, "movies missing: %v", body)
	require.Len(t, movies, 1)

	first := movies[0].(map[string]any)
	assert.Equal(t, "Cosmo Cat", first["title"])
	assert.Equal(t, "cosmo-cat-review", first["blog_slug"])
	assert.Equal(t, float64(42), first["view_count"])
}

func TestListMoviesEmptyIsAnArray(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`SELECT m\.id, m\.title`).
		WillReturnRows(sqlmock.NewRows(listingColumns))

	rec, body := doJSON(t, r, http.MethodGet, "/api/movies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	movies, ok := body["movies"].([]any)
	require.True(t, ok, "movies should be an empty array, not null: %v", body["movies"])
	assert.Len(t, movies, 0)
}

func TestGetMovie(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`FROM movies WHERE slug = \$1 AND published = TRUE`).
		WithArgs("cosmo-cat").
		WillReturnRows(sqlmock.NewRows(movieColumns).AddRow(
			1, "Cosmo Cat", "cosmo-cat", 1998, nil, nil,
			"https://youtu.be/dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", "youtube",
			nil, nil, nil,
			true, time.Now(),
		))

	rec, body := doJSON(t, r, http.MethodGet, "/api/movies/cosmo-cat", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	movie := body["movie"].(map[string]any)
	assert.Equal(t, "cosmo-cat", movie["slug"])
	assert.Equal(t, "youtube", movie["video_type"])
}

func TestGetMovieNotFound(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`FROM movies WHERE slug = \$1 AND published = TRUE`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	rec, body := doJSON(t, r, http.MethodGet, "/api/movies/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Movie not found", body["error"])
}

func TestGetBlogPostCountsView(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`WITH viewed AS`).
		WithArgs("cosmo-cat-review").
		WillReturnRows(sqlmock.NewRows(articleColumns).AddRow(
			7, 1, "Cosmo Cat Review", "cosmo-cat-review", "<p>Gears.</p>", "A review.",
			nil, nil, nil,
			13, true, time.Now(),
			"Cosmo Cat", "cosmo-cat", "https://youtu.be/dQw4w9WgXcQ", "youtube",
		))

	rec, body := doJSON(t, r, http.MethodGet, "/api/blog/cosmo-cat-review", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	blog := body["blog"].(map[string]any)
	assert.Equal(t, "cosmo-cat-review", blog["slug"])
	assert.Equal(t, float64(13), blog["view_count"])
	assert.Equal(t, "cosmo-cat", blog["movie_slug"])
}

func TestGetBlogPostNotFound(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`WITH viewed AS`).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	rec, body := doJSON(t, r, http.MethodGet, "/api/blog/gone", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Blog post not found", body["error"])
}

func TestRecordEventRequiresEventType(t *testing.T) {
	r, _, done := newTestAPI(t)
	defer done()

	rec, body := doJSON(t, r, http.MethodPost, "/api/analytics", `{"page_url": "/blog/x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestRecordEventResolvesClientIP(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectExec(`INSERT INTO analytics`).
		WithArgs("blog_view", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"203.0.113.9", "test-agent", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/analytics",
		strings.NewReader(`{"event_type": "blog_view", "blog_id": 7}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEventStoreFailureIs500(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectExec(`INSERT INTO analytics`).
		WillReturnError(sql.ErrConnDone)

	rec, body := doJSON(t, r, http.MethodPost, "/api/analytics",
		`{"event_type": "scroll_depth"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGetConfigEmptyTableIsEmptyObject(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`SELECT config_key, config_value FROM site_config`).
		WillReturnRows(sqlmock.NewRows([]string{"config_key", "config_value"}))

	rec, body := doJSON(t, r, http.MethodGet, "/api/config", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	cfg, ok := body["config"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, cfg, "unset config should be an empty object")
}

func TestGetConfigHidesCredentials(t *testing.T) {
	r, mock, done := newTestAPI(t)
	defer done()

	mock.ExpectQuery(`SELECT config_key, config_value FROM site_config`).
		WillReturnRows(sqlmock.NewRows([]string{"config_key", "config_value"}).
			AddRow(models.ConfigWatchButtonDelay, "12").
			AddRow(models.ConfigSearchAPIKey, "secret").
			AddRow(models.ConfigSearchEngineID, "cx-id").
			AddRow(models.ConfigAIAPIKey, "sk-secret"))

	rec, body := doJSON(t, r, http.MethodGet, "/api/config", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	cfg := body["config"].(map[string]any)
	assert.Equal(t, "12", cfg[models.ConfigWatchButtonDelay])
	assert.Len(t, cfg, 1, "credentials must not leak: %v", cfg)
}

// generatorMovieStore and friends satisfy the generator's store
// interfaces without a database.
type generatorMovieStore struct {
	slugs map[string]bool
	id    int64
}

func (g *generatorMovieStore) SlugExists(slug string) (bool, error) {
	return g.slugs[slug], nil
}

func (g *generatorMovieStore) Create(m *models.Movie) (*models.Movie, error) {
	g.id++
	out := *m
	out.ID = g.id
	g.slugs[m.Slug] = true
	return &out, nil
}

type generatorBlogStore struct{ created int }

func (g *generatorBlogStore) Create(b *models.BlogPost) (*models.BlogPost, error) {
	g.created++
	return b, nil
}

type generatorConfigStore struct{}

func (generatorConfigStore) All() (models.SiteConfig, error) {
	return models.SiteConfig{}, nil
}

func TestGenerateContent(t *testing.T) {
	gen := generator.New(
		&generatorMovieStore{slugs: map[string]bool{}},
		&generatorBlogStore{},
		generatorConfigStore{},
	)
	api := NewAPI(nil, nil, nil, nil, gen, nil)

	rec := httptest.NewRecorder()
	api.GenerateContent(rec, httptest.NewRequest(http.MethodPost, "/api/admin/generate-content", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["message"], "Generated")
	assert.Equal(t, float64(3), body["created"])
}

func TestGenerateContentIsIdempotent(t *testing.T) {
	movies := &generatorMovieStore{slugs: map[string]bool{}}
	gen := generator.New(movies, &generatorBlogStore{}, generatorConfigStore{})
	api := NewAPI(nil, nil, nil, nil, gen, nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		api.GenerateContent(rec, httptest.NewRequest(http.MethodPost, "/api/admin/generate-content", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var body map[string]any
	rec := httptest.NewRecorder()
	api.GenerateContent(rec, httptest.NewRequest(http.MethodPost, "/api/admin/generate-content", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["created"])
	assert.Contains(t, body["message"], "No new content")
}
