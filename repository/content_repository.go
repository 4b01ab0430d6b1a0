package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/birlikweb/cms/models"
)

// GormContentRepository implements ContentRepository on the MySQL store.
type GormContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a content repository over the given DB.
func NewContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

func (r *GormContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *GormContentRepository) Update(ctx context.Context, item *models.ContentItem) error {
	err := r.db.WithContext(ctx).Save(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *GormContentRepository) ByID(ctx context.Context, ctype string, id uint) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).
		Where("type = ? AND id = ?", ctype, id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormContentRepository) BySlug(ctx context.Context, ctype, slug string) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).
		Where("type = ? AND slug = ?", ctype, slug).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormContentRepository) List(ctx context.Context, ctype string, f ContentFilter) ([]models.ContentItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContentItem{}).
		Where("type = ?", ctype).
		Order("created_at DESC")
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Tag != "" {
		// tags are a comma-joined set; match whole entries only
		query = query.Where(
			"tags = ? OR tags LIKE ? OR tags LIKE ? OR tags LIKE ?",
			f.Tag, f.Tag+",%", "%,"+f.Tag, "%,"+f.Tag+",%",
		)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR body LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

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

	var items []models.ContentItem
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormContentRepository) SlugExists(ctx context.Context, ctype, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContentItem{}).
		Where("type = ? AND slug = ?", ctype, slug).
		Count(&count).Error
	return count > 0, err
}

func (r *GormContentRepository) Delete(ctx context.Context, ctype string, id uint) error {
	res := r.db.WithContext(ctx).
		Where("type = ? AND id = ?", ctype, id).
		Delete(&models.ContentItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
