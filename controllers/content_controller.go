package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/birlikweb/cms/middleware"
	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/repository"
	"github.com/birlikweb/cms/storage"
	"github.com/birlikweb/cms/utils"
)

// ContentController handles one content type's endpoints. The admin surface
// creates and edits records through the shared submission pipeline; the
// public read endpoints are unauthenticated and cached.
type ContentController struct {
	repo  repository.ContentRepository
	store storage.Backend
	ctype string
}

// NewContentController binds the pipeline to one content type.
func NewContentController(repo repository.ContentRepository, store storage.Backend, ctype string) *ContentController {
	return &ContentController{repo: repo, store: store, ctype: ctype}
}

func (c *ContentController) cachePrefix() string {
	return "cache:content:" + c.ctype + ":"
}

// List returns filtered, paginated records of this content type. Results
// without a search term are cached; mutations invalidate by prefix.
func (c *ContentController) List(ctx *gin.Context) {
	filter := repository.ContentFilter{
		Status:   strings.TrimSpace(ctx.Query("status")),
		Category: strings.TrimSpace(ctx.Query("category")),
		Tag:      strings.TrimSpace(ctx.Query("tag")),
		Search:   strings.TrimSpace(ctx.Query("search")),
	}
	if n, err := strconv.Atoi(ctx.Query("page")); err == nil && n > 0 {
		filter.Page = n
	}
	if n, err := strconv.Atoi(ctx.Query("limit")); err == nil && n > 0 {
		if n > 100 {
			n = 100
		}
		filter.Limit = n
	}

	// Cache plain listings only; search terms would explode the key space.
	cacheKey := ""
	if filter.Search == "" {
		cacheKey = fmt.Sprintf("%slist:status=%s:cat=%s:tag=%s:page=%d:limit=%d",
			c.cachePrefix(), filter.Status, filter.Category, filter.Tag, filter.Page, filter.Limit)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	items, total, err := c.repo.List(ctx, c.ctype, filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list content")
		return
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	payload := gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": int((total + int64(limit) - 1) / int64(limit)),
		},
	}

	if cacheKey != "" {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Success: true, Data: payload}, time.Hour)
	}
	utils.Success(ctx, payload)
}

// Get returns a single record addressed by numeric id or by slug.
func (c *ContentController) Get(ctx *gin.Context) {
	idOrSlug := strings.TrimSpace(ctx.Param("id"))
	if idOrSlug == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing id or slug")
		return
	}

	cacheKey := c.cachePrefix() + "detail:" + idOrSlug
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var item *models.ContentItem
	var err error
	if id, convErr := strconv.ParseUint(idOrSlug, 10, 32); convErr == nil {
		item, err = c.repo.ByID(ctx, c.ctype, uint(id))
	} else {
		item, err = c.repo.BySlug(ctx, c.ctype, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "content not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load content")
		return
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Success: true, Data: item}, time.Hour)
	utils.Success(ctx, item)
}

// Create runs the submission pipeline for a new record: validate, allocate a
// unique slug, upload assets sequentially, persist. Requires editor role
// (enforced by middleware).
func (c *ContentController) Create(ctx *gin.Context) {
	sub, verr := parseSubmission(ctx)
	if verr != nil {
		utils.Error(ctx, http.StatusBadRequest, verr.Error())
		return
	}

	slug, err := utils.UniqueSlug(ctx, sub.title, func(sctx context.Context, s string) (bool, error) {
		return c.repo.SlugExists(sctx, c.ctype, s)
	})
	if err != nil {
		if errors.Is(err, utils.ErrEmptySlug) {
			utils.Error(ctx, http.StatusBadRequest, "title produces an empty slug")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to allocate slug")
		return
	}

	item := &models.ContentItem{
		Type:        c.ctype,
		Title:       sub.title,
		Slug:        slug,
		Excerpt:     sub.excerpt,
		Body:        sub.body,
		Category:    sub.category,
		Tags:        sub.tags,
		Status:      sub.status,
		Featured:    sub.featured,
		PublishDate: sub.publishDate,
		Author:      ctx.GetString(middleware.ContextAuthorKey),
	}
	if item.Status == "" {
		item.Status = models.StatusDraft
	}
	if item.Excerpt == "" {
		item.Excerpt = models.DeriveExcerpt(utils.SanitizeText(sub.body))
	}

	if err := uploadAssets(ctx, c.store, c.ctype, sub, item); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorw("asset upload failed", "type", c.ctype, "err", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to store uploaded assets")
		return
	}

	if err := c.repo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			utils.Error(ctx, http.StatusBadRequest, "a record with this slug already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to create content")
		return
	}

	utils.InvalidateByPrefix(c.cachePrefix())
	utils.Success(ctx, item)
}

// Update runs the submission pipeline against an existing record. The slug
// never changes; text fields merge, present file slots replace their
// previous assets (the replaced assets are not deleted).
func (c *ContentController) Update(ctx *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid content id")
		return
	}

	item, err := c.repo.ByID(ctx, c.ctype, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "content not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load content")
		return
	}

	sub, verr := parseSubmission(ctx)
	if verr != nil {
		utils.Error(ctx, http.StatusBadRequest, verr.Error())
		return
	}

	item.Title = sub.title
	item.Body = sub.body
	if sub.has["excerpt"] {
		item.Excerpt = sub.excerpt
	}
	if item.Excerpt == "" {
		item.Excerpt = models.DeriveExcerpt(utils.SanitizeText(sub.body))
	}
	if sub.has["category"] {
		item.Category = sub.category
	}
	if sub.has["tags"] {
		item.Tags = sub.tags
	}
	if sub.has["status"] {
		item.Status = sub.status
	}
	if sub.has["featured"] {
		item.Featured = sub.featured
	}
	if sub.has["publishDate"] {
		item.PublishDate = sub.publishDate
	}

	if err := uploadAssets(ctx, c.store, c.ctype, sub, item); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorw("asset upload failed", "type", c.ctype, "id", item.ID, "err", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to store uploaded assets")
		return
	}

	if err := c.repo.Update(ctx, item); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update content")
		return
	}

	utils.InvalidateByPrefix(c.cachePrefix())
	utils.Success(ctx, item)
}

// Delete removes a record. Assets already uploaded for it are not reclaimed;
// cleaning the storage tier is outside this subsystem.
func (c *ContentController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid content id")
		return
	}

	if err := c.repo.Delete(ctx, c.ctype, uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "content not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete content")
		return
	}

	utils.InvalidateByPrefix(c.cachePrefix())
	utils.Success(ctx, gin.H{"message": "content deleted"})
}
