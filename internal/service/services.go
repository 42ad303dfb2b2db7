package service

import (
	"github.com/deppfellow/talent-catalog/internal/lib/job"
	"github.com/deppfellow/talent-catalog/internal/repository"
	"github.com/deppfellow/talent-catalog/internal/server"
)

type Services struct {
	Auth      *AuthService
	Job       *job.JobService
	Country   *CountryService
	User      *UserService
	Partner   *PartnerService
	SavedList *SavedListService
	Candidate *CandidateService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	queue := s.Job.Client

	return &Services{
		Auth:      NewAuthService(s),
		Job:       s.Job,
		Country:   NewCountryService(s.Logger, repos.Country, repos.CountryNames, queue),
		User:      NewUserService(s.Logger, repos.User, queue),
		Partner:   NewPartnerService(s.Logger, repos.Partner),
		SavedList: NewSavedListService(s.Logger, repos.SavedList),
		Candidate: NewCandidateService(s.Logger, repos.Candidate),
	}, nil
}
