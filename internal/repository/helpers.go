package repository

import (
	"context"

	"shopapi/internal/slug"

	"gorm.io/gorm"
)

// conn returns tx when the caller is inside a transaction, db otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// takenSlugs lists slugs in model's table equal to base or base-N.
func takenSlugs(ctx context.Context, db *gorm.DB, model any, base string) ([]string, error) {
	var rows []string
	err := db.WithContext(ctx).Model(model).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &rows).Error
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, s := range rows {
		if slug.Suffixed(base, s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// deleteBySlug reports gorm.ErrRecordNotFound when nothing matched.
func deleteBySlug(ctx context.Context, db *gorm.DB, model any, s string) error {
	res := db.WithContext(ctx).Where("slug = ?", s).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
