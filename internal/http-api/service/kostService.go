package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"kostfinder/internal/cache"
	"kostfinder/internal/http-api/dto"
	"kostfinder/internal/http-api/models"
	"kostfinder/internal/http-api/repository"
)

var (
	ErrKostNotFound = errors.New("kost not found")
	ErrInvalidType  = errors.New("invalid kost type")
)

// Top-rated qualification and sizing rules for the featured surfaces.
const (
	topRatedMinAverage = 4.0
	topRatedMinReviews = 2
	topRatedLimit      = 6
)

const (
	cacheKeyFeatured = "kosts:featured"
	cacheKeyTopRated = "kosts:top-rated"
)

type KostService interface {
	Search(ctx context.Context, f dto.SearchFilters) (*dto.PaginatedKostResponse, error)
	GetDetail(ctx context.Context, id int64) (*dto.KostDetailResponse, error)
	Featured(ctx context.Context) ([]dto.KostResponse, error)
	TopRated(ctx context.Context) ([]dto.KostResponse, error)

	// admin operations
	ListAll(ctx context.Context) ([]dto.KostResponse, error)
	Create(ctx context.Context, in dto.CreateKostDTO) (*dto.KostResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateKostDTO) (*dto.KostResponse, error)
	Delete(ctx context.Context, id int64) error
}

type kostService struct {
	repo       repository.KostRepository
	ratingRepo repository.RatingRepository
	cache      *cache.Cache
}

// NewKostService wires the kost catalog. cache may be nil; the featured and
// top-rated surfaces then read straight from the database.
func NewKostService(repo repository.KostRepository, ratingRepo repository.RatingRepository, c *cache.Cache) KostService {
	return &kostService{repo: repo, ratingRepo: ratingRepo, cache: c}
}

// Search applies the filter set and joins rating aggregates onto each page item.
func (s *kostService) Search(ctx context.Context, f dto.SearchFilters) (*dto.PaginatedKostResponse, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Type = strings.TrimSpace(f.Type)

	if f.Type != "" && f.Type != "all" && !models.ValidType(f.Type) {
		return nil, ErrInvalidType
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 12
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	list, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}

	kosts, err := s.withAggregates(ctx, list)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedKostResponse{
		Kosts:      kosts,
		Pagination: dto.NewPagination(total, f.Page, f.Limit),
	}, nil
}

// GetDetail returns one kost plus its full review list and aggregates.
func (s *kostService) GetDetail(ctx context.Context, id int64) (*dto.KostDetailResponse, error) {
	kost, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKostNotFound
		}
		return nil, err
	}

	ratings, err := s.ratingRepo.GetByKost(ctx, id)
	if err != nil {
		return nil, err
	}

	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := 0.0
	if len(ratings) > 0 {
		avg = roundRating(float64(sum) / float64(len(ratings)))
	}

	ratingResponses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		ratingResponses = append(ratingResponses, *dto.FromModelToRatingResponse(&ratings[i]))
	}

	return &dto.KostDetailResponse{
		KostResponse: dto.FromModelToResponse(*kost, avg, int64(len(ratings))),
		Ratings:      ratingResponses,
	}, nil
}

// Featured returns every kost newest-first with aggregates, cached briefly.
func (s *kostService) Featured(ctx context.Context) ([]dto.KostResponse, error) {
	if s.cache == nil {
		return s.loadFeatured(ctx)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKeyFeatured, func(ctx context.Context) ([]dto.KostResponse, error) {
		return s.loadFeatured(ctx)
	})
	if err != nil {
		// cache trouble must not take the surface down
		return s.loadFeatured(ctx)
	}
	return out, nil
}

func (s *kostService) loadFeatured(ctx context.Context) ([]dto.KostResponse, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withAggregates(ctx, list)
}

// TopRated ranks kosts by their review aggregates: only kosts with average
// >= 4.0 and at least 2 reviews qualify, ordered by review count then average,
// capped at a small fixed size.
func (s *kostService) TopRated(ctx context.Context) ([]dto.KostResponse, error) {
	if s.cache == nil {
		return s.loadTopRated(ctx)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKeyTopRated, func(ctx context.Context) ([]dto.KostResponse, error) {
		return s.loadTopRated(ctx)
	})
	if err != nil {
		return s.loadTopRated(ctx)
	}
	return out, nil
}

func (s *kostService) loadTopRated(ctx context.Context) ([]dto.KostResponse, error) {
	rows, err := s.ratingRepo.AggregateByKost(ctx)
	if err != nil {
		return nil, err
	}

	ranked := RankTopRated(rows)

	ids := make([]int64, 0, len(ranked))
	for _, row := range ranked {
		ids = append(ids, row.KostID)
	}

	kosts, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Kost, len(kosts))
	for _, k := range kosts {
		byID[k.ID] = k
	}

	out := make([]dto.KostResponse, 0, len(ranked))
	for _, row := range ranked {
		k, ok := byID[row.KostID]
		if !ok {
			// rating rows can outlive a deleted kost briefly
			continue
		}
		out = append(out, dto.FromModelToResponse(k, roundRating(row.Average), row.Count))
	}
	return out, nil
}

// RankTopRated filters and orders rating aggregates for the top-rated surface.
func RankTopRated(rows []repository.RatingAggregate) []repository.RatingAggregate {
	qualified := make([]repository.RatingAggregate, 0, len(rows))
	for _, row := range rows {
		if row.Average >= topRatedMinAverage && row.Count >= topRatedMinReviews {
			qualified = append(qualified, row)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		if qualified[i].Count != qualified[j].Count {
			return qualified[i].Count > qualified[j].Count
		}
		return qualified[i].Average > qualified[j].Average
	})

	if len(qualified) > topRatedLimit {
		qualified = qualified[:topRatedLimit]
	}
	return qualified
}

func (s *kostService) ListAll(ctx context.Context) ([]dto.KostResponse, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withAggregates(ctx, list)
}

// Create validates and stores a new kost with product defaults for the
// optional fields, mirroring the admin console behavior.
func (s *kostService) Create(ctx context.Context, in dto.CreateKostDTO) (*dto.KostResponse, error) {
	if !models.ValidType(in.Type) {
		return nil, ErrInvalidType
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, errors.New("price must be non-negative")
	}

	k := in.ToModel()
	applyKostDefaults(&k)

	if err := s.repo.Create(ctx, &k); err != nil {
		return nil, err
	}

	if len(in.Facilities) > 0 {
		if err := s.repo.ReplaceFacilities(ctx, k.ID, in.Facilities); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.GetByID(ctx, k.ID)
	if err != nil {
		return nil, err
	}

	s.invalidateCached(ctx)

	resp := dto.FromModelToResponse(*created, 0, 0)
	return &resp, nil
}

func (s *kostService) Update(ctx context.Context, id int64, in dto.UpdateKostDTO) (*dto.KostResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKostNotFound
		}
		return nil, err
	}

	if in.Type != nil && !models.ValidType(*in.Type) {
		return nil, ErrInvalidType
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, errors.New("price must be non-negative")
	}

	in.ApplyTo(existing)

	if err := s.repo.Update(ctx, id, existing); err != nil {
		return nil, err
	}

	if in.Facilities != nil {
		if err := s.repo.ReplaceFacilities(ctx, id, in.Facilities); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	avg, err := s.ratingRepo.CalculateAverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.ratingRepo.CountRatings(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateCached(ctx)

	resp := dto.FromModelToResponse(*updated, roundRating(avg), count)
	return &resp, nil
}

func (s *kostService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKostNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCached(ctx)
	return nil
}

// invalidateCached drops the featured and top-rated entries after a catalog
// change. Rating churn is left to the short TTL.
func (s *kostService) invalidateCached(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheKeyFeatured, cacheKeyTopRated)
	}
}

// withAggregates joins rating aggregates onto a kost list in one query.
func (s *kostService) withAggregates(ctx context.Context, list []models.Kost) ([]dto.KostResponse, error) {
	ids := make([]int64, 0, len(list))
	for _, k := range list {
		ids = append(ids, k.ID)
	}

	aggs, err := s.ratingRepo.AggregateForKosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.KostResponse, 0, len(list))
	for _, k := range list {
		agg := aggs[k.ID] // zero value = unrated
		out = append(out, dto.FromModelToResponse(k, roundRating(agg.Average), agg.Count))
	}
	return out, nil
}

func applyKostDefaults(k *models.Kost) {
	if k.Description == "" {
		k.Description = "Kost description"
	}
	if k.Latitude == 0 {
		k.Latitude = -6.2088
	}
	if k.Longitude == 0 {
		k.Longitude = 106.8456
	}
	if k.Phone == "" {
		k.Phone = "081234567890"
	}
	if k.OwnerName == "" {
		k.OwnerName = "Owner"
	}
	if len(k.Images) == 0 {
		k.Images = []string{"https://via.placeholder.com/400x300/4A90E2/FFFFFF?text=Kost+Image"}
	}
}

// roundRating rounds to one decimal place, the precision shown everywhere.
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
