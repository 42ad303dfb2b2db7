package model

// VisaPathway is a visa route into a destination country. Only the shape is
// declared; there is no storage or service behind it yet.
type VisaPathway struct {
	ID          int64
	Name        string
	Description string
	Country     *Country
}
