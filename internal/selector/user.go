package selector

import "github.com/deppfellow/talent-catalog/internal/dto"

// UserSelector projects an admin user. The extended projection, used when a
// single user is fetched, adds account flags, the user's partner and the
// countries the user may see.
type UserSelector struct {
	Extended bool
}

func (s UserSelector) Select() *dto.Builder {
	b := dto.NewBuilder().
		Add("id").
		Add("username").
		Add("email").
		Add("firstName").
		Add("lastName").
		Add("fullName").
		Add("role").
		Add("status")

	if s.Extended {
		b.Add("readOnly").
			Add("usingMfa").
			Add("createdDate").
			AddNested("partner", PartnerSelector{}.Select()).
			AddNested("sourceCountries", CountrySelector{}.Select())
	}

	return b
}

// PartnerSelector projects a partner, optionally with its default contact.
type PartnerSelector struct {
	WithContact bool
}

func (s PartnerSelector) Select() *dto.Builder {
	b := dto.NewBuilder().
		Add("id").
		Add("name").
		Add("abbreviation").
		Add("status").
		Add("websiteUrl").
		Add("autoAssignable").
		Add("defaultSourcePartner").
		AddNested("sourceCountries", CountrySelector{}.Select())

	if s.WithContact {
		b.AddNested("defaultContact", UserSelector{}.Select())
	}

	return b
}
