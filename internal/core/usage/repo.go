package usage

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind     Kind
	Provider string
	Since    time.Time
	Page     int
	PageSize int
}

// Stats aggregates records per kind and translation method.
type Stats struct {
	Total         int64            `json:"total"`
	Failed        int64            `json:"failed"`
	Fallbacks     int64            `json:"fallbacks"`
	Images        int64            `json:"images"`
	Characters    int64            `json:"characters"`
	ByKind        map[string]int64 `json:"byKind"`
	ByMethod      map[string]int64 `json:"byMethod"`
	AvgDurationMS float64          `json:"avgDurationMs"`
}

// Repo interface defines usage record operations
type Repo interface {
	Create(ctx context.Context, record *Record) error
	List(ctx context.Context, filter Filter) ([]Record, int64, error)
	Stats(ctx context.Context, since time.Time) (*Stats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct {
	db *gorm.DB
}

// NewRepo creates a new usage repository
func NewRepo(db *gorm.DB) Repo {
	return &repo{db: db}
}

// Create inserts a new record
func (r *repo) Create(ctx context.Context, record *Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repo) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&Record{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Provider != "" {
		q = q.Where("ocr_provider = ? OR translation_method = ?", f.Provider, f.Provider)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	return q
}

// List returns one page of records, newest first, and the total match count
func (r *repo) List(ctx context.Context, f Filter) ([]Record, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 200 {
		f.PageSize = 50
	}

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []Record
	err := r.filtered(ctx, f).
		Order("created_at DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Stats aggregates everything created at or after since
func (r *repo) Stats(ctx context.Context, since time.Time) (*Stats, error) {
	f := Filter{Since: since}
	stats := &Stats{ByKind: map[string]int64{}, ByMethod: map[string]int64{}}

	var totals struct {
		Total      int64
		Failed     int64
		Fallbacks  int64
		Images     int64
		Characters int64
		AvgMS      float64
	}
	err := r.filtered(ctx, f).Select(
		"COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failed, " +
			"COALESCE(SUM(CASE WHEN fallback_used THEN 1 ELSE 0 END), 0) AS fallbacks, " +
			"COALESCE(SUM(image_count), 0) AS images, " +
			"COALESCE(SUM(original_length), 0) AS characters, " +
			"COALESCE(AVG(duration_ms), 0) AS avg_ms",
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.Total = totals.Total
	stats.Failed = totals.Failed
	stats.Fallbacks = totals.Fallbacks
	stats.Images = totals.Images
	stats.Characters = totals.Characters
	stats.AvgDurationMS = totals.AvgMS

	type group struct {
		Name  string
		Count int64
	}

	var kinds []group
	if err := r.filtered(ctx, f).Select("kind AS name, COUNT(*) AS count").Group("kind").Scan(&kinds).Error; err != nil {
		return nil, err
	}
	for _, g := range kinds {
		stats.ByKind[g.Name] = g.Count
	}

	var methods []group
	if err := r.filtered(ctx, f).Select("translation_method AS name, COUNT(*) AS count").Group("translation_method").Scan(&methods).Error; err != nil {
		return nil, err
	}
	for _, g := range methods {
		stats.ByMethod[g.Name] = g.Count
	}

	return stats, nil
}

// DeleteOlderThan removes records created before cutoff
func (r *repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Record{})
	return res.RowsAffected, res.Error
}
