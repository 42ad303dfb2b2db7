package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/model"
)

type PartnerStore interface {
	List(ctx context.Context) ([]model.Partner, error)
	Search(ctx context.Context, req model.PartnerSearch) (model.Page[model.Partner], error)
	Get(ctx context.Context, id int64) (model.Partner, error)
	FindByName(ctx context.Context, name string) (model.Partner, bool, error)
	Create(ctx context.Context, p model.Partner) (model.Partner, error)
	Update(ctx context.Context, p model.Partner) (model.Partner, error)
}

type PartnerService struct {
	base
	store PartnerStore
}

func NewPartnerService(log *zerolog.Logger, store PartnerStore) *PartnerService {
	return &PartnerService{base: base{log: log}, store: store}
}

func (s *PartnerService) ListPartners(ctx context.Context) ([]model.Partner, error) {
	partners, err := s.store.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list_partners", err)
	}
	return partners, nil
}

func (s *PartnerService) SearchPartners(ctx context.Context, req model.PartnerSearch) (model.Page[model.Partner], error) {
	page, err := s.store.Search(ctx, req)
	if err != nil {
		return model.Page[model.Partner]{}, s.fail(ctx, "search_partners", err)
	}
	return page, nil
}

// GetPartner loads the partner with its default contact.
func (s *PartnerService) GetPartner(ctx context.Context, id int64) (model.Partner, error) {
	partner, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Partner{}, s.fail(ctx, "get_partner", err)
	}
	return partner, nil
}

func (s *PartnerService) CreatePartner(ctx context.Context, p model.Partner) (model.Partner, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.checkNameFree(ctx, p.Name, 0); err != nil {
		return model.Partner{}, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return model.Partner{}, s.fail(ctx, "create_partner", err)
	}
	return created, nil
}

func (s *PartnerService) UpdatePartner(ctx context.Context, p model.Partner) (model.Partner, error) {
	p.Name = strings.TrimSpace(p.Name)
	if _, err := s.GetPartner(ctx, p.ID); err != nil {
		return model.Partner{}, err
	}
	if err := s.checkNameFree(ctx, p.Name, p.ID); err != nil {
		return model.Partner{}, err
	}

	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return model.Partner{}, s.fail(ctx, "update_partner", err)
	}
	return updated, nil
}

func (s *PartnerService) checkNameFree(ctx context.Context, name string, id int64) error {
	existing, found, err := s.store.FindByName(ctx, name)
	if err != nil {
		return s.fail(ctx, "find_partner", err)
	}
	if found && existing.ID != id {
		return errs.NewConflictError(fmt.Sprintf("Partner with name %q already exists", name), errs.CodeEntityExists)
	}
	return nil
}
