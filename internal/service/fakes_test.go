package service

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testActor = Actor{ID: uuid.New(), Name: "Budi", Email: "budi@example.com"}

func ptr[T any](v T) *T { return &v }

// memoryProducts doubles as ProductRepository and StockRepository. Adjust
// holds the lock for the whole update, like the single UPDATE statement.
type memoryProducts struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Product

	// afterFind runs outside the lock once FindByID has copied the row,
	// letting a test commit a concurrent write before the caller saves.
	afterFind func(id uuid.UUID)
}

func newMemoryProducts(products ...model.Product) *memoryProducts {
	r := &memoryProducts{items: make(map[uuid.UUID]model.Product)}
	for _, p := range products {
		r.put(p)
	}
	return r
}

func (r *memoryProducts) put(p model.Product) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.items[p.ID] = p
	return p.ID
}

func (r *memoryProducts) get(id uuid.UUID) model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

func (r *memoryProducts) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Code, p.Code) {
			return repository.ErrDuplicate
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.items[p.ID] = *p
	return nil
}

func (r *memoryProducts) FindAll(_ context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.items))
	for _, p := range r.items {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	p, ok := r.items[id]
	hook := r.afterFind
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if hook != nil {
		hook(id)
	}
	return &p, nil
}

func (r *memoryProducts) FindByCode(_ context.Context, code string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if strings.EqualFold(p.Code, code) {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryProducts) Update(_ context.Context, p *model.Product, withCounters bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := *p
	if !withCounters {
		next.StockIn, next.StockOut, next.TotalStock = stored.StockIn, stored.StockOut, stored.TotalStock
	}
	r.items[p.ID] = next
	return nil
}

func (r *memoryProducts) Delete(_ context.Context, id uuid.UUID, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryProducts) Adjust(_ context.Context, id uuid.UUID, deltaIn, deltaOut int) error {
	if deltaIn == 0 && deltaOut == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Adjust(deltaIn, deltaOut)
	r.items[id] = p
	return nil
}

type memoryGoodsIn struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.GoodsIn
}

func newMemoryGoodsIn() *memoryGoodsIn {
	return &memoryGoodsIn{items: make(map[uuid.UUID]model.GoodsIn)}
}

func (r *memoryGoodsIn) Create(_ context.Context, e *model.GoodsIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.items[e.ID] = *e
	return nil
}

func (r *memoryGoodsIn) FindAll(_ context.Context, _ repository.LedgerFilter) ([]model.GoodsIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.GoodsIn, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryGoodsIn) FindByID(_ context.Context, id uuid.UUID) (*model.GoodsIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *memoryGoodsIn) Update(_ context.Context, e *model.GoodsIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[e.ID] = *e
	return nil
}

func (r *memoryGoodsIn) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memoryGoodsOut struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.GoodsOut
}

func newMemoryGoodsOut() *memoryGoodsOut {
	return &memoryGoodsOut{items: make(map[uuid.UUID]model.GoodsOut)}
}

func (r *memoryGoodsOut) Create(_ context.Context, e *model.GoodsOut) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.items[e.ID] = *e
	return nil
}

func (r *memoryGoodsOut) FindAll(_ context.Context, _ repository.LedgerFilter) ([]model.GoodsOut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.GoodsOut, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryGoodsOut) FindByID(_ context.Context, id uuid.UUID) (*model.GoodsOut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *memoryGoodsOut) Update(_ context.Context, e *model.GoodsOut) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[e.ID] = *e
	return nil
}

func (r *memoryGoodsOut) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// memoryRepo is a generic Repository[T] keyed by the embedded BaseModel ID.
type memoryRepo[T any] struct {
	mu    sync.Mutex
	items []T
}

func idOf(item any) uuid.UUID {
	return reflect.ValueOf(item).Elem().FieldByName("ID").Interface().(uuid.UUID)
}

func columnOf(item any, column string) string {
	field := reflect.ValueOf(item).Elem().FieldByName(strings.ToUpper(column[:1]) + column[1:])
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return ""
		}
		field = field.Elem()
	}
	return field.String()
}

func (r *memoryRepo[T]) Create(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reflect.ValueOf(item).Elem().FieldByName("ID").Set(reflect.ValueOf(uuid.New()))
	r.items = append(r.items, *item)
	return nil
}

func (r *memoryRepo[T]) FindAll(_ context.Context, q repository.ListQuery) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.items))
	for i := range r.items {
		if q.Search != "" {
			hit := false
			for _, col := range q.SearchColumns {
				if strings.Contains(strings.ToLower(columnOf(&r.items[i], col)), strings.ToLower(q.Search)) {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		out = append(out, r.items[i])
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *memoryRepo[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if idOf(&r.items[i]) == id {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepo[T]) FindOneBy(_ context.Context, column string, value any, excludeID *uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if excludeID != nil && idOf(&r.items[i]) == *excludeID {
			continue
		}
		if strings.EqualFold(columnOf(&r.items[i], column), value.(string)) {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepo[T]) Update(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if idOf(&r.items[i]) == idOf(item) {
			r.items[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memoryRepo[T]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if idOf(&r.items[i]) == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memoryUsers struct {
	memoryRepo[model.User]
}

func (r *memoryUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOneBy(ctx, "email", email, nil)
}

func (r *memoryUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	return r.FindOneBy(ctx, "name", name, nil)
}

func (r *memoryUsers) UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Password = hashed
	return r.Update(ctx, user)
}

func (r *memoryUsers) FindAll(ctx context.Context) ([]model.User, error) {
	return r.memoryRepo.FindAll(ctx, repository.ListQuery{})
}

// recordingNotifier keeps every event it is given.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *recordingNotifier) Changed(_ context.Context, ev ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Action)
	}
	return out
}

func hpp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
