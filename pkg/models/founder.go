package models

import "strings"

// Columns is the fixed export order.
var Columns = []string{
	"first_name",
	"last_name",
	"current_role",
	"current_company",
	"batch",
	"linkedin_url",
	"profile_url",
}

// FounderRecord is one directory entry. Every field defaults to "".
type FounderRecord struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	CurrentRole    string `json:"current_role"`
	CurrentCompany string `json:"current_company"`
	Batch          string `json:"batch"`
	LinkedInURL    string `json:"linkedin_url"`
	ProfileURL     string `json:"profile_url"`
}

// Row returns the record's values in Columns order.
func (f FounderRecord) Row() []string {
	return []string{
		f.FirstName,
		f.LastName,
		f.CurrentRole,
		f.CurrentCompany,
		f.Batch,
		f.LinkedInURL,
		f.ProfileURL,
	}
}

func (f FounderRecord) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// Anchor is a link element read from a rendered page. Err is set when the
// element could not be read; Href and Text are then unreliable.
type Anchor struct {
	Href string
	Text string
	Err  error
}
