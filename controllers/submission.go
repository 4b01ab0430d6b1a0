package controllers

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/storage"
	"github.com/birlikweb/cms/utils"
)

// validationError carries the failing fields of a rejected submission.
// It is surfaced before any upload or persistence side effect.
type validationError struct {
	fields []string
}

func (e *validationError) Error() string {
	return "invalid submission: " + strings.Join(e.fields, ", ")
}

// submission is one parsed multipart create/update request. The has set
// records which text fields were actually present so updates merge instead
// of blanking absent fields.
type submission struct {
	title       string
	excerpt     string
	body        string
	category    string
	tags        models.TagList
	status      string
	featured    bool
	publishDate *time.Time
	has         map[string]bool

	cover      *multipart.FileHeader
	gallery    []*multipart.FileHeader
	attachment *multipart.FileHeader
}

// parseSubmission validates a multipart submission. Every check here runs
// before the first upload: a submission failing validation performs zero
// side effects.
func parseSubmission(ctx *gin.Context) (*submission, *validationError) {
	sub := &submission{has: map[string]bool{}}
	verr := &validationError{}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, &validationError{fields: []string{"multipart form"}}
	}

	field := func(names ...string) (string, bool) {
		for _, n := range names {
			if vs, ok := form.Value[n]; ok && len(vs) > 0 {
				return vs[0], true
			}
		}
		return "", false
	}

	if v, ok := field("title"); ok {
		sub.title = strings.TrimSpace(utils.SanitizeText(v))
		sub.has["title"] = true
	}
	if sub.title == "" {
		verr.fields = append(verr.fields, "title is required")
	}

	if v, ok := field("body", "content"); ok {
		sub.body = utils.Sanitize(v)
		sub.has["body"] = true
	}
	if strings.TrimSpace(sub.body) == "" {
		verr.fields = append(verr.fields, "body is required")
	}

	if v, ok := field("excerpt", "summary"); ok {
		sub.excerpt = strings.TrimSpace(utils.SanitizeText(v))
		sub.has["excerpt"] = true
	}
	if v, ok := field("category"); ok {
		sub.category = strings.TrimSpace(utils.SanitizeText(v))
		sub.has["category"] = true
	}
	if v, ok := field("tags"); ok {
		sub.tags = models.ParseTags(v)
		sub.has["tags"] = true
	}

	if v, ok := field("status"); ok {
		sub.status = strings.TrimSpace(v)
		sub.has["status"] = true
		if !models.ValidStatus(sub.status) {
			verr.fields = append(verr.fields, "status must be draft, published or archived")
		}
	}

	if v, ok := field("featured"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			verr.fields = append(verr.fields, "featured must be true or false")
		}
		sub.featured = b
		sub.has["featured"] = true
	}

	if v, ok := field("publishDate"); ok && strings.TrimSpace(v) != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
		if err != nil {
			verr.fields = append(verr.fields, "publishDate must be an ISO date")
		} else {
			sub.publishDate = &t
		}
		sub.has["publishDate"] = true
	}

	files := func(names ...string) []*multipart.FileHeader {
		for _, n := range names {
			if fs, ok := form.File[n]; ok && len(fs) > 0 {
				return fs
			}
		}
		return nil
	}

	if fs := files("cover", "featuredImage"); len(fs) > 0 {
		sub.cover = fs[0]
	}
	sub.gallery = files("images")
	if len(sub.gallery) > models.MaxGalleryImages {
		verr.fields = append(verr.fields, "gallery exceeds 8 images")
	}
	if fs := files("file"); len(fs) > 0 {
		sub.attachment = fs[0]
	}

	if len(verr.fields) > 0 {
		return nil, verr
	}
	return sub, nil
}

// uploadAssets stores every present asset slot strictly sequentially, in
// slot order: cover, gallery, attachment. Each upload is awaited before the
// next begins and is attempted exactly once. There is no rollback: assets
// stored before a later failure stay where they are.
func uploadAssets(ctx context.Context, store storage.Backend, folder string, sub *submission, item *models.ContentItem) error {
	if sub.cover != nil {
		obj, err := store.Store(ctx, folder, storage.FileSource(sub.cover))
		if err != nil {
			return err
		}
		item.Cover = models.AssetReference{
			URL:          obj.URL,
			Backend:      obj.Backend,
			OriginalName: sub.cover.Filename,
		}
	}

	if len(sub.gallery) > 0 {
		gallery := make(models.AssetList, 0, len(sub.gallery))
		for _, fh := range sub.gallery {
			obj, err := store.Store(ctx, folder, storage.FileSource(fh))
			if err != nil {
				return err
			}
			gallery = append(gallery, models.AssetReference{
				URL:          obj.URL,
				Backend:      obj.Backend,
				OriginalName: fh.Filename,
			})
		}
		item.Gallery = gallery
	}

	if sub.attachment != nil {
		obj, err := store.Store(ctx, folder, storage.FileSource(sub.attachment))
		if err != nil {
			return err
		}
		item.Attachment = models.AssetReference{
			URL:          obj.URL,
			Backend:      obj.Backend,
			OriginalName: sub.attachment.Filename,
		}
	}

	return nil
}
