package repository

import (
	"github.com/deppfellow/talent-catalog/internal/server"
)

// Repositories groups every repository so services get one dependency.
type Repositories struct {
	Country      *CountryRepository
	User         *UserRepository
	Partner      *PartnerRepository
	SavedList    *SavedListRepository
	Candidate    *CandidateRepository
	CountryNames *CountryNameCache
}

func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Country:      NewCountryRepository(pool),
		User:         NewUserRepository(pool),
		Partner:      NewPartnerRepository(pool),
		SavedList:    NewSavedListRepository(pool),
		Candidate:    NewCandidateRepository(pool),
		CountryNames: NewCountryNameCache(s.Redis, s.Config.Redis.CacheTTL, s.Metrics),
	}
}
