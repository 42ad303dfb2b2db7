package model

import "time"

// CandidateStatus is where a candidate is in the registration workflow.
type CandidateStatus string

const (
	CandidateStatusDraft      CandidateStatus = "draft"
	CandidateStatusPending    CandidateStatus = "pending"
	CandidateStatusActive     CandidateStatus = "active"
	CandidateStatusIncomplete CandidateStatus = "incomplete"
	CandidateStatusEmployed   CandidateStatus = "employed"
	CandidateStatusWithdrawn  CandidateStatus = "withdrawn"
	CandidateStatusDeleted    CandidateStatus = "deleted"
)

// Occupation is a job category.
type Occupation struct {
	ID   int64
	Name string
}

// CandidateOccupation is one occupation a candidate has experience in.
type CandidateOccupation struct {
	ID              int64
	Occupation      Occupation
	YearsExperience int
}

// Candidate is a displaced person registered in the catalog. Country and
// nationality are stored as ids and resolved to names at projection time.
type Candidate struct {
	ID              int64
	CandidateNumber string
	Status          CandidateStatus
	Gender          string
	Dob             *time.Time
	City            string
	State           string
	Phone           string
	CountryID       int64
	NationalityID   int64
	User            *User
	Occupations     []CandidateOccupation
	UpdatedDate     time.Time
}

// CandidateSearch filters the candidate search.
type CandidateSearch struct {
	Keyword        string
	Statuses       []CandidateStatus
	NationalityIDs []int64
	PageRequest
}
