// Package types defines the shared data structures passed between pipeline stages.
package types

// CandidateProfile is the structured result of extracting one application document.
type CandidateProfile struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email"`
	Summary  string `json:"summary"`
	FullText string `json:"full_text"`
}

// CandidateRef identifies a candidate chosen for contact (interview or offer).
type CandidateRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Ref returns the contact reference for a profile.
func (p *CandidateProfile) Ref() CandidateRef {
	return CandidateRef{Name: p.Name, Email: p.Email, Phone: p.Phone}
}
