package database

import (
	"context"

	"go-rbac-api/domain"
	"go-rbac-api/pkg/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SQLHandler holds the gorm plumbing shared by the postgres repositories.
// T is the row model, F its filter; applyFilter turns F into WHERE clauses.
type SQLHandler[T any, F any] struct {
	db          *gorm.DB
	applyFilter func(*gorm.DB, *F) *gorm.DB
}

func NewSQLHandler[T any, F any](db *gorm.DB, applyFilter func(*gorm.DB, *F) *gorm.DB) *SQLHandler[T, F] {
	return &SQLHandler[T, F]{db: db, applyFilter: applyFilter}
}

// DBOption swaps the session a call runs on, e.g. to join a transaction.
type DBOption func(*gorm.DB) *gorm.DB

// WithTx runs the call inside tx. A nil tx keeps the handler's session.
func WithTx(tx *gorm.DB) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		if tx == nil {
			return db
		}
		return tx
	}
}

func (h *SQLHandler[T, F]) DB() *gorm.DB {
	return h.db
}

func (h *SQLHandler[T, F]) session(ctx context.Context, opts []DBOption) *gorm.DB {
	db := h.db
	for _, opt := range opts {
		db = opt(db)
	}
	return db.WithContext(ctx)
}

func (h *SQLHandler[T, F]) scoped(ctx context.Context, filter *F, sort []string, opts []DBOption) *gorm.DB {
	db := h.applyFilter(h.session(ctx, opts), filter)
	for _, s := range sort {
		db = db.Order(s)
	}
	return db
}

// translateError maps gorm errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicateKey
	}
	return err
}

func (h *SQLHandler[T, F]) Create(ctx context.Context, entity *T, opts ...DBOption) error {
	return translateError(h.session(ctx, opts).Create(entity).Error)
}

func (h *SQLHandler[T, F]) FindOne(ctx context.Context, filter *F, opts ...DBOption) (*T, error) {
	var entity T
	if err := h.scoped(ctx, filter, nil, opts).First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (h *SQLHandler[T, F]) FindMany(ctx context.Context, filter *F, sort []string, opts ...DBOption) ([]*T, error) {
	var entities []*T
	if err := h.scoped(ctx, filter, sort, opts).Find(&entities).Error; err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

// FindPage counts every match before slicing out the requested page.
func (h *SQLHandler[T, F]) FindPage(ctx context.Context, filter *F, option *domain.FindPageOption, opts ...DBOption) ([]*T, *domain.Pagination, error) {
	if option == nil {
		option = &domain.FindPageOption{}
	}
	option.Normalize()

	total, err := h.Count(ctx, filter, opts...)
	if err != nil {
		return nil, nil, err
	}

	var entities []*T
	err = h.scoped(ctx, filter, option.Sort, opts).
		Offset(option.Offset()).
		Limit(option.PerPage).
		Find(&entities).Error
	if err != nil {
		return nil, nil, translateError(err)
	}
	return entities, domain.NewPagination(option.Page, option.PerPage, total), nil
}

// Count ignores paging and sorting; the filter alone decides what is counted.
func (h *SQLHandler[T, F]) Count(ctx context.Context, filter *F, opts ...DBOption) (int64, error) {
	var count int64
	err := h.scoped(ctx, filter, nil, opts).Model(new(T)).Count(&count).Error
	return count, translateError(err)
}

// UpdateFields updates live rows only and reports ErrRecordNotFound when none matched.
func (h *SQLHandler[T, F]) UpdateFields(ctx context.Context, id any, fields map[string]any, opts ...DBOption) error {
	result := h.session(ctx, opts).
		Model(new(T)).
		Where("id = ? AND deleted_at = 0", id).
		Updates(fields)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// DeleteByID soft-deletes a row. Deleting an already deleted row is ErrRecordNotFound.
func (h *SQLHandler[T, F]) DeleteByID(ctx context.Context, id any, extra map[string]any, opts ...DBOption) error {
	fields := map[string]any{"deleted_at": utils.NowUnixMillis()}
	for k, v := range extra {
		fields[k] = v
	}
	return h.UpdateFields(ctx, id, fields, opts...)
}
