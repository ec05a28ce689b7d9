package crawler

import (
	"strings"
	"testing"

	"founders-crawler/pkg/models"
)

func TestParseFounderText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.FounderRecord
	}{
		{
			name: "directory card",
			text: "Andy Fang\n**Co-founder** at **DoorDash**\nS13",
			want: models.FounderRecord{FirstName: "Andy", LastName: "Fang", CurrentRole: "Co-founder", CurrentCompany: "DoorDash", Batch: "S13"},
		},
		{
			name: "empty",
			text: "",
		},
		{
			name: "blank lines only",
			text: "  \n\t\n ",
		},
		{
			name: "single token",
			text: "Madonna",
			want: models.FounderRecord{FirstName: "Madonna"},
		},
		{
			name: "multi word last name",
			text: "  Jean  Claude Van Damme \n",
			want: models.FounderRecord{FirstName: "Jean", LastName: "Claude Van Damme"},
		},
		{
			name: "earlier batch wins",
			text: "Jane Doe\nW21\nS22",
			want: models.FounderRecord{FirstName: "Jane", LastName: "Doe", Batch: "W21"},
		},
		{
			name: "bare keyword becomes role",
			text: "Jane Doe\n**Founder** & CEO\nX25",
			want: models.FounderRecord{FirstName: "Jane", LastName: "Doe", CurrentRole: "Founder & CEO", Batch: "X25"},
		},
		{
			name: "combined line overrides bare role",
			text: "Jane Doe\nCEO\nCTO at Acme",
			want: models.FounderRecord{FirstName: "Jane", LastName: "Doe", CurrentRole: "CTO", CurrentCompany: "Acme"},
		},
		{
			name: "first bare role kept",
			text: "Jane Doe\nVP Sales\nDirector of Ops",
			want: models.FounderRecord{FirstName: "Jane", LastName: "Doe", CurrentRole: "VP Sales"},
		},
		{
			name: "at without title keyword",
			text: "Jane Doe\nWorks at Home",
			want: models.FounderRecord{FirstName: "Jane", LastName: "Doe"},
		},
		{
			name: "keywords are case sensitive",
			text: "Jane Doe\nfounder at acme",
			want: models.FounderRecord{FirstName: "Jane", LastName: "Doe"},
		},
		{
			name: "company keeps later at",
			text: "Sam Lee\nChief Scientist at Look at Me Inc\nF24",
			want: models.FounderRecord{FirstName: "Sam", LastName: "Lee", CurrentRole: "Chief Scientist", CurrentCompany: "Look at Me Inc", Batch: "F24"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFounderText(tt.text)
			if got != tt.want {
				t.Errorf("Expected %+v, Got %+v", tt.want, got)
			}
		})
	}
}

func TestParseFounderText_Deterministic(t *testing.T) {
	text := "Andy Fang\n**Co-founder** at **DoorDash**\nS13"
	first := ParseFounderText(text)
	for i := 0; i < 5; i++ {
		if got := ParseFounderText(text); got != first {
			t.Fatalf("Run %d differs: Expected %+v, Got %+v", i, first, got)
		}
	}
}

func TestParseFounderText_Idempotent(t *testing.T) {
	inputs := []string{
		"Andy Fang\n**Co-founder** at **DoorDash**\nS13",
		"Sam Lee\nChief Scientist at Look at Me Inc\nF24",
		"Ana Maria Lopez\nPresident at Foo Bar\nW09",
	}

	for _, in := range inputs {
		rec := ParseFounderText(in)
		rebuilt := strings.Join([]string{
			rec.FullName(),
			rec.CurrentRole + roleSeparator + rec.CurrentCompany,
			rec.Batch,
		}, "\n")

		if got := ParseFounderText(rebuilt); got != rec {
			t.Errorf("Expected %+v, Got %+v (from %q)", rec, got, rebuilt)
		}
	}
}

func TestParseFounderText_SingleBatchAnywhere(t *testing.T) {
	for _, code := range []string{"S21", "W22", "F24", "X25"} {
		text := "Pat Kim\nBuilding things\nBatch " + code + " alum"
		if got := ParseFounderText(text).Batch; got != code {
			t.Errorf("Expected batch %q, Got %q", code, got)
		}
	}
}
