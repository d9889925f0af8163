package repository

import (
	"context"
	"fmt"

	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/models"

	"gorm.io/gorm"
)

// KostRepository defines the interface for kost catalog operations.
type KostRepository interface {
	GetAll(ctx context.Context) ([]models.Kost, error)
	GetByID(ctx context.Context, id int64) (*models.Kost, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Kost, error)
	Create(ctx context.Context, k *models.Kost) error
	Update(ctx context.Context, id int64, k *models.Kost) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f dto.SearchFilters) ([]models.Kost, int64, error)
	ReplaceFacilities(ctx context.Context, kostID int64, names []string) error
}

type KostRepo struct {
	db *gorm.DB
}

func NewKostRepo(db *gorm.DB) *KostRepo {
	return &KostRepo{db: db}
}

// GetAll returns every kost newest-first (featured and admin surfaces).
func (r *KostRepo) GetAll(ctx context.Context) ([]models.Kost, error) {
	var list []models.Kost
	if err := r.db.WithContext(ctx).
		Preload("Facilities").
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list kosts: %w", err)
	}
	return list, nil
}

func (r *KostRepo) GetByID(ctx context.Context, id int64) (*models.Kost, error) {
	var k models.Kost
	if err := r.db.WithContext(ctx).Preload("Facilities").First(&k, id).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *KostRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Kost, error) {
	var list []models.Kost
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Facilities").
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get kosts by ids: %w", err)
	}
	return list, nil
}

func (r *KostRepo) Create(ctx context.Context, k *models.Kost) error {
	if err := r.db.WithContext(ctx).Create(k).Error; err != nil {
		return fmt.Errorf("create kost: %w", err)
	}
	return nil
}

func (r *KostRepo) Update(ctx context.Context, id int64, k *models.Kost) error {
	k.ID = id
	if err := r.db.WithContext(ctx).Omit("Facilities").Save(k).Error; err != nil {
		return fmt.Errorf("update kost: %w", err)
	}
	return nil
}

func (r *KostRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Kost{}, id).Error; err != nil {
		return fmt.Errorf("delete kost: %w", err)
	}
	return nil
}

// Search translates the filter set into a single paginated query.
// A kost matches the facility filter when it carries at least one of the
// requested facility tags.
func (r *KostRepo) Search(ctx context.Context, f dto.SearchFilters) ([]models.Kost, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Kost{})

	if f.Search != "" {
		p := "%" + f.Search + "%"
		db = db.Where("title ILIKE ? OR location ILIKE ?", p, p)
	}
	if f.Type != "" && f.Type != "all" {
		db = db.Where("type = ?", f.Type)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if len(f.Facilities) > 0 {
		sub := r.db.Table("kost_facilities").
			Select("kost_facilities.kost_id").
			Joins("JOIN facilities ON facilities.id = kost_facilities.facility_id").
			Where("facilities.name IN ?", f.Facilities)
		db = db.Where("kosts.id IN (?)", sub)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count kosts: %w", err)
	}

	var list []models.Kost
	offset := (f.Page - 1) * f.Limit
	if err := db.
		Preload("Facilities").
		Order("created_at desc").
		Limit(f.Limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("search kosts: %w", err)
	}

	return list, total, nil
}

// ReplaceFacilities sets the kost's facility tags to exactly the given names,
// creating missing tags on the fly.
func (r *KostRepo) ReplaceFacilities(ctx context.Context, kostID int64, names []string) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var k models.Kost
	if err := tx.First(&k, kostID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("kost not found: %w", err)
	}

	facilities := make([]models.Facility, 0, len(names))
	for _, name := range names {
		var fac models.Facility
		if err := tx.Where(models.Facility{Name: name}).FirstOrCreate(&fac).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("get or create facility: %w", err)
		}
		facilities = append(facilities, fac)
	}

	if err := tx.Model(&k).Association("Facilities").Replace(&facilities); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace facilities: %w", err)
	}
	return tx.Commit().Error
}
