package handler

import (
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
	"github.com/deppfellow/talent-catalog/static"
)

// Handlers is the set of endpoint groups the router mounts, one per admin
// resource plus the system endpoints (health, docs).
type Handlers struct {
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
	Country     *CountryHandler
	User        *UserHandler
	Partner     *PartnerHandler
	SavedList   *SavedListHandler
	Candidate   *CandidateHandler
	VisaPathway *VisaPathwayHandler
}

// NewHandlers wires each handler to the services it calls.
//
// Saved lists also get the user service, to resolve the acting admin.
// Candidates also get the country service, whose name index the candidate
// projection reads.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s, static.FS),
		Country:     NewCountryHandler(s, services.Country),
		User:        NewUserHandler(s, services.User),
		Partner:     NewPartnerHandler(s, services.Partner),
		SavedList:   NewSavedListHandler(s, services.SavedList, services.User),
		Candidate:   NewCandidateHandler(s, services.Candidate, services.Country),
		VisaPathway: NewVisaPathwayHandler(s),
	}
}
