package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListQuery narrows and orders a FindAll call.
type ListQuery struct {
	Search        string
	SearchColumns []string
	OrderBy       string // column name, defaults to created_at
	Ascending     bool
	Limit         int
}

// Repository is the CRUD surface shared by the reference-data tables
// (categories, lokasi simpan, tipe nota, suppliers, customers, vendors).
type Repository[T any] interface {
	Create(ctx context.Context, item *T) error
	FindAll(ctx context.Context, q ListQuery) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindOneBy(ctx context.Context, column string, value any, excludeID *uuid.UUID) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type crudRepo[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) Repository[T] {
	return &crudRepo[T]{db: db}
}

func (r *crudRepo[T]) Create(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *crudRepo[T]) FindAll(ctx context.Context, q ListQuery) ([]T, error) {
	var items []T
	tx := applyListQuery(r.db.WithContext(ctx), q)
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *crudRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// FindOneBy does a case-insensitive match on column; excludeID skips the row being updated.
func (r *crudRepo[T]) FindOneBy(ctx context.Context, column string, value any, excludeID *uuid.UUID) (*T, error) {
	var item T
	tx := r.db.WithContext(ctx).Where("LOWER("+column+") = LOWER(?)", value)
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}
	if err := tx.First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *crudRepo[T]) Update(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *crudRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var item T
	return affected(r.db.WithContext(ctx).Delete(&item, "id = ?", id))
}

var sortableColumns = map[string]bool{
	"created_at": true, "updated_at": true, "name": true, "email": true,
	"date": true, "code": true, "total_stock": true,
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func applyListQuery(tx *gorm.DB, q ListQuery) *gorm.DB {
	if q.Search != "" && len(q.SearchColumns) > 0 {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		clauses := make([]string, len(q.SearchColumns))
		args := make([]any, len(q.SearchColumns))
		for i, col := range q.SearchColumns {
			clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	order := q.OrderBy
	if !sortableColumns[order] {
		order = "created_at"
	}
	if q.Ascending {
		tx = tx.Order(order + " ASC")
	} else {
		tx = tx.Order(order + " DESC")
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}
