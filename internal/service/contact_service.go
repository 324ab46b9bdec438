package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
)

const keywordSearchLimit = 20

// contactRecord is a customer or vendor.
type contactRecord[T any] interface {
	*T
	SetContact(name string, email, phone, address *string)
	Contact() (name string, email, phone, address *string)
	StampCreated(by string)
	StampUpdated(by string)
}

type ContactRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// UpdateContactRequest overwrites only the fields that are present.
type UpdateContactRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type ContactListOptions struct {
	Search    string
	SortBy    string // created_at, name or email
	SortOrder string // asc or desc
}

type ContactService[T any] interface {
	Create(ctx context.Context, req *ContactRequest, actor Actor) (*T, error)
	List(ctx context.Context, opts ContactListOptions) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	GetByEmail(ctx context.Context, email string) (*T, error)
	Search(ctx context.Context, keyword string) ([]T, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateContactRequest, actor Actor) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService[T any, PT contactRecord[T]] struct {
	repo  repository.Repository[T]
	label string
}

func NewContactService[T any, PT contactRecord[T]](repo repository.Repository[T], label string) ContactService[T] {
	return &contactService[T, PT]{repo: repo, label: label}
}

func NewCustomerService(repo repository.Repository[model.Customer]) ContactService[model.Customer] {
	return NewContactService[model.Customer](repo, "customer")
}

func NewVendorService(repo repository.Repository[model.Vendor]) ContactService[model.Vendor] {
	return NewContactService[model.Vendor](repo, "vendor")
}

func (s *contactService[T, PT]) Create(ctx context.Context, req *ContactRequest, actor Actor) (*T, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, nil); err != nil {
		return nil, err
	}

	item := PT(new(T))
	item.SetContact(req.Name, req.Email, req.Phone, req.Address)
	item.StampCreated(actor.audit())
	if err := s.repo.Create(ctx, (*T)(item)); err != nil {
		return nil, storeErr(err, s.label)
	}
	return (*T)(item), nil
}

func (s *contactService[T, PT]) List(ctx context.Context, opts ContactListOptions) ([]T, error) {
	q := repository.ListQuery{
		Search:        strings.TrimSpace(opts.Search),
		SearchColumns: []string{"name", "email", "phone"},
		OrderBy:       "created_at",
		Ascending:     strings.EqualFold(opts.SortOrder, "asc"),
	}
	switch opts.SortBy {
	case "", "created_at":
	case "name", "email":
		q.OrderBy = opts.SortBy
	default:
		return nil, apperr.Validation("sort_by must be one of created_at, name, email", nil)
	}
	if opts.SortOrder != "" && !strings.EqualFold(opts.SortOrder, "asc") && !strings.EqualFold(opts.SortOrder, "desc") {
		return nil, apperr.Validation("sort_order must be asc or desc", nil)
	}

	items, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	return items, nil
}

func (s *contactService[T, PT]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	return item, nil
}

func (s *contactService[T, PT]) GetByEmail(ctx context.Context, email string) (*T, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.Validation("email is required", nil)
	}
	item, err := s.repo.FindOneBy(ctx, "email", email, nil)
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	return item, nil
}

func (s *contactService[T, PT]) Search(ctx context.Context, keyword string) ([]T, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.Validation("keyword is required", nil)
	}
	items, err := s.repo.FindAll(ctx, repository.ListQuery{
		Search:        keyword,
		SearchColumns: []string{"name", "email", "phone", "address"},
		OrderBy:       "name",
		Ascending:     true,
		Limit:         keywordSearchLimit,
	})
	if err != nil {
		return nil, storeErr(err, s.label)
	}
	return items, nil
}

func (s *contactService[T, PT]) Update(ctx context.Context, id uuid.UUID, req *UpdateContactRequest, actor Actor) (*T, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, s.label)
	}

	name, email, phone, address := PT(item).Contact()
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if err := s.ensureEmailFree(ctx, req.Email, &id); err != nil {
			return nil, err
		}
		email = req.Email
	}
	if req.Phone != nil {
		phone = req.Phone
	}
	if req.Address != nil {
		address = req.Address
	}
	PT(item).SetContact(name, email, phone, address)
	PT(item).StampUpdated(actor.audit())

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeErr(err, s.label)
	}
	return item, nil
}

func (s *contactService[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.repo.Delete(ctx, id), s.label)
}

func (s *contactService[T, PT]) ensureEmailFree(ctx context.Context, email *string, self *uuid.UUID) error {
	if email == nil {
		return nil
	}
	_, err := s.repo.FindOneBy(ctx, "email", *email, self)
	switch {
	case err == nil:
		return apperr.Conflict(fmt.Sprintf("%s email '%s' already exists", s.label, *email))
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return storeErr(err, s.label)
	}
}

// normalizeEmail trims and lowercases; blank becomes nil.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

type SupplierRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=50"`
}

type SupplierService interface {
	Create(ctx context.Context, req *SupplierRequest, actor Actor) (*model.Supplier, error)
	List(ctx context.Context, search string) ([]model.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor Actor) (*model.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.Repository[model.Supplier]
}

func NewSupplierService(repo repository.Repository[model.Supplier]) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req *SupplierRequest, actor Actor) (*model.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier := &model.Supplier{Name: req.Name, Phone: req.Phone}
	supplier.StampCreated(actor.audit())
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, storeErr(err, "supplier")
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, search string) ([]model.Supplier, error) {
	suppliers, err := s.repo.FindAll(ctx, repository.ListQuery{
		Search:        strings.TrimSpace(search),
		SearchColumns: []string{"name", "phone"},
	})
	if err != nil {
		return nil, storeErr(err, "supplier")
	}
	return suppliers, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "supplier")
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor Actor) (*model.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "supplier")
	}
	supplier.Name = req.Name
	supplier.Phone = req.Phone
	supplier.StampUpdated(actor.audit())
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, storeErr(err, "supplier")
	}
	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.repo.Delete(ctx, id), "supplier")
}
