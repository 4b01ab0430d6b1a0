package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/birlikweb/cms/middleware"
	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/repository"
	"github.com/birlikweb/cms/storage"
	"github.com/birlikweb/cms/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	// point Redis at a closed port so response caching is inert in tests
	os.Setenv("REDIS_HOST", "127.0.0.1")
	os.Setenv("REDIS_PORT", "1")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// memContentRepo is an in-memory ContentRepository used to exercise the
// submission pipeline without a database.
type memContentRepo struct {
	mu    sync.Mutex
	seq   uint
	items map[uint]*models.ContentItem

	// forceCreateErr simulates the store's unique-index backstop firing on
	// the slug check-then-act race.
	forceCreateErr error
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{items: map[uint]*models.ContentItem{}}
}

func (r *memContentRepo) Create(_ context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceCreateErr != nil {
		return r.forceCreateErr
	}
	for _, existing := range r.items {
		if existing.Type == item.Type && existing.Slug == item.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	r.seq++
	item.ID = r.seq
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = models.StatusDraft
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *memContentRepo) Update(_ context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *memContentRepo) ByID(_ context.Context, ctype string, id uint) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Type != ctype {
		return nil, repository.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *memContentRepo) BySlug(_ context.Context, ctype, slug string) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Type == ctype && item.Slug == slug {
			clone := *item
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memContentRepo) List(_ context.Context, ctype string, f repository.ContentFilter) ([]models.ContentItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.ContentItem
	for _, item := range r.items {
		if item.Type != ctype {
			continue
		}
		if f.Status != "" && item.Status != f.Status {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.Tag != "" && !containsTag(item.Tags, f.Tag) {
			continue
		}
		if f.Search != "" &&
			!strings.Contains(item.Title, f.Search) &&
			!strings.Contains(item.Body, f.Search) {
			continue
		}
		matched = append(matched, *item)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func containsTag(tags models.TagList, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *memContentRepo) SlugExists(_ context.Context, ctype, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Type == ctype && item.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memContentRepo) Delete(_ context.Context, ctype string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Type != ctype {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memContentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// memUserRepo is an in-memory UserRepository for login tests.
type memUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) ByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = r.seq
	clone := *user
	r.users[user.Username] = &clone
	return nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// contentEnv wires one content type's routes over the in-memory repository
// and a temp-dir local storage backend.
type contentEnv struct {
	repo       *memContentRepo
	uploadsDir string
	router     *gin.Engine
}

func newContentEnv(t *testing.T) *contentEnv {
	t.Helper()

	repo := newMemContentRepo()
	dir := t.TempDir()
	local, err := storage.NewLocal(dir)
	require.NoError(t, err)

	controller := NewContentController(repo, local, models.TypeAnnouncement)

	r := gin.New()
	group := r.Group("/api/v1/announcements")
	group.GET("", controller.List)
	group.GET("/:id", controller.Get)
	group.POST("", middleware.RequireRole(models.RoleEditor), controller.Create)
	group.PUT("/:id", middleware.RequireRole(models.RoleEditor), controller.Update)
	group.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controller.Delete)

	return &contentEnv{repo: repo, uploadsDir: dir, router: r}
}

func (e *contentEnv) uploadCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(e.uploadsDir)
	require.NoError(t, err)
	return len(entries)
}

func tokenFor(t *testing.T, username string, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateToken(&models.User{
		ID:          1,
		Username:    username,
		DisplayName: "Editor User",
		Role:        role,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

// multipartRequest builds a content submission. files maps a part name to
// original file names; part content derives from the name.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string][]string, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for part, names := range files {
		for _, name := range names {
			fw, err := w.CreateFormFile(part, name)
			require.NoError(t, err)
			_, err = fw.Write([]byte("bytes-of-" + name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	t.Helper()
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataMap(t *testing.T, resp utils.JSONResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
