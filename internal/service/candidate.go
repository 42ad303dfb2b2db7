package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/model"
)

type CandidateStore interface {
	Search(ctx context.Context, req model.CandidateSearch) (model.Page[model.Candidate], error)
	Get(ctx context.Context, id int64) (model.Candidate, error)
	GetByNumber(ctx context.Context, number string) (model.Candidate, error)
}

// CandidateService is read-only; candidates are registered elsewhere.
type CandidateService struct {
	base
	store CandidateStore
}

func NewCandidateService(log *zerolog.Logger, store CandidateStore) *CandidateService {
	return &CandidateService{base: base{log: log}, store: store}
}

func (s *CandidateService) SearchCandidates(ctx context.Context, req model.CandidateSearch) (model.Page[model.Candidate], error) {
	page, err := s.store.Search(ctx, req)
	if err != nil {
		return model.Page[model.Candidate]{}, s.fail(ctx, "search_candidates", err)
	}
	return page, nil
}

func (s *CandidateService) GetCandidate(ctx context.Context, id int64) (model.Candidate, error) {
	candidate, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Candidate{}, s.fail(ctx, "get_candidate", err)
	}
	return candidate, nil
}

func (s *CandidateService) GetCandidateByNumber(ctx context.Context, number string) (model.Candidate, error) {
	candidate, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return model.Candidate{}, s.fail(ctx, "get_candidate_by_number", err)
	}
	return candidate, nil
}
