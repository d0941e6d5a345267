package service

// Client and supplier services share the same shape; the resources are
// structurally identical contact books kept as separate tables.

import (
	"context"
	"errors"
	"time"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateContactRequest) (*dto.ContactResponse, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*dto.ContactResponse, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) (*dto.ContactListResponse, error)
	Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateContactRequest) (*dto.ContactResponse, error)
	Deactivate(ctx context.Context, owner, id uuid.UUID) error
}

type SupplierService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateContactRequest) (*dto.ContactResponse, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*dto.ContactResponse, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) (*dto.ContactListResponse, error)
	Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateContactRequest) (*dto.ContactResponse, error)
	Deactivate(ctx context.Context, owner, id uuid.UUID) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateContactRequest) (*dto.ContactResponse, error) {
	c := &model.Client{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Notes:     req.Notes,
		Active:    true,
		CreatedBy: owner,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *clientService) Get(ctx context.Context, owner, id uuid.UUID) (*dto.ContactResponse, error) {
	c, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *clientService) List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) (*dto.ContactListResponse, error) {
	normalizeContactFilter(&filter)
	clients, total, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContactResponse, 0, len(clients))
	for i := range clients {
		data = append(data, *clientToResponse(&clients[i]))
	}
	return &dto.ContactListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clientService) Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	c, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	applyContactUpdate(req, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.Active)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *clientService) Deactivate(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, owner, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, owner, id)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateContactRequest) (*dto.ContactResponse, error) {
	sp := &model.Supplier{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Notes:     req.Notes,
		Active:    true,
		CreatedBy: owner,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return supplierToResponse(sp), nil
}

func (s *supplierService) Get(ctx context.Context, owner, id uuid.UUID) (*dto.ContactResponse, error) {
	sp, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return supplierToResponse(sp), nil
}

func (s *supplierService) List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) (*dto.ContactListResponse, error) {
	normalizeContactFilter(&filter)
	suppliers, total, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContactResponse, 0, len(suppliers))
	for i := range suppliers {
		data = append(data, *supplierToResponse(&suppliers[i]))
	}
	return &dto.ContactListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *supplierService) Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	sp, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	applyContactUpdate(req, &sp.Name, &sp.Phone, &sp.Email, &sp.Address, &sp.Notes, &sp.Active)
	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, err
	}
	return supplierToResponse(sp), nil
}

func (s *supplierService) Deactivate(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, owner, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, owner, id)
}

func normalizeContactFilter(filter *dto.ContactFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
}

func applyContactUpdate(req dto.UpdateContactRequest, name *string, phone, email, address, notes **string, active *bool) {
	if req.Name != nil {
		*name = *req.Name
	}
	if req.Phone != nil {
		*phone = req.Phone
	}
	if req.Email != nil {
		*email = req.Email
	}
	if req.Address != nil {
		*address = req.Address
	}
	if req.Notes != nil {
		*notes = req.Notes
	}
	if req.Active != nil {
		*active = *req.Active
	}
}

func clientToResponse(c *model.Client) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		Active:    c.Active,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func supplierToResponse(sp *model.Supplier) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:        sp.ID.String(),
		Name:      sp.Name,
		Phone:     sp.Phone,
		Email:     sp.Email,
		Address:   sp.Address,
		Notes:     sp.Notes,
		Active:    sp.Active,
		CreatedAt: sp.CreatedAt.UTC().Format(time.RFC3339),
	}
}
