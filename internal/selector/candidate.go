package selector

import "github.com/deppfellow/talent-catalog/internal/dto"

// CountryNames resolves country ids to display names.
type CountryNames interface {
	CountryName(id int64) (string, bool)
}

// CountryNameIndex is an in-memory CountryNames, loaded before projection
// starts.
type CountryNameIndex map[int64]string

func (idx CountryNameIndex) CountryName(id int64) (string, bool) {
	name, ok := idx[id]
	return name, ok
}

// CandidateSelector projects a candidate. Country and nationality ids are
// expanded to {id, name} through the country name lookup.
type CandidateSelector struct {
	names CountryNames
	users Selector
}

// NewCandidateSelector builds a candidate selector resolving country names
// through names and projecting the candidate's account through users.
func NewCandidateSelector(names CountryNames, users Selector) CandidateSelector {
	return CandidateSelector{names: names, users: users}
}

func (s CandidateSelector) Select() *dto.Builder {
	return dto.NewBuilder().
		Add("id").
		Add("candidateNumber").
		Add("status").
		Add("gender").
		Add("dob").
		Add("city").
		Add("state").
		Add("phone").
		AddNested("user", s.users.Select()).
		AddFunc("countryId", "country", s.countryRef()).
		AddFunc("nationalityId", "nationality", s.countryRef()).
		AddNested("occupations", dto.NewBuilder().
			Add("id").
			Add("yearsExperience").
			AddNested("occupation", dto.NewBuilder().
				Add("id").
				Add("name"))).
		Add("updatedDate")
}

// countryRef expands a country id into an ordered {id, name} projection.
func (s CandidateSelector) countryRef() func(value any) any {
	ref := dto.NewBuilder().Add("id").Add("name")

	return func(value any) any {
		id, ok := value.(int64)
		if !ok || id == 0 {
			return nil
		}

		country := map[string]any{"id": id, "name": nil}
		if name, found := s.names.CountryName(id); found {
			country["name"] = name
		}
		return ref.Build(country)
	}
}
