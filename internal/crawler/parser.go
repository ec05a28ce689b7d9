package crawler

import (
	"regexp"
	"strings"

	"founders-crawler/pkg/models"
)

// TitleKeywords mark a line as describing a role. Matching is case-sensitive.
var TitleKeywords = []string{"CEO", "CTO", "Founder", "Co-founder", "President", "VP", "Chief", "Director"}

var batchPattern = regexp.MustCompile(`[SWFX]\d{2}`)

const roleSeparator = " at "

// ParseFounderText turns one directory entry's text block into a record.
//
// The first non-empty line is the name. Each later line is tried against
// these rules in order and consumed by the first that matches:
//
//  1. "<role> at <company>" where role holds a title keyword. A later
//     combined line overwrites an earlier one.
//  2. A batch code ([SWFX] and two digits), only while batch is unset.
//  3. A bare title keyword, taken whole as the role while role is unset.
//
// Lines matching nothing are ignored. The function never fails.
func ParseFounderText(text string) models.FounderRecord {
	var rec models.FounderRecord

	lines := splitLines(text)
	if len(lines) == 0 {
		return rec
	}

	name := strings.Fields(lines[0])
	if len(name) > 0 {
		rec.FirstName = name[0]
		rec.LastName = strings.Join(name[1:], " ")
	}

	for _, line := range lines[1:] {
		if role, company, ok := splitRoleAt(line); ok {
			rec.CurrentRole = role
			rec.CurrentCompany = company
			continue
		}

		if rec.Batch == "" {
			if batch := batchPattern.FindString(line); batch != "" {
				rec.Batch = batch
				continue
			}
		}

		if rec.CurrentRole == "" && hasTitleKeyword(line) {
			rec.CurrentRole = line
		}
	}

	rec.CurrentRole = stripMarkers(rec.CurrentRole)
	rec.CurrentCompany = stripMarkers(rec.CurrentCompany)
	return rec
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func splitRoleAt(line string) (role, company string, ok bool) {
	role, company, found := strings.Cut(line, roleSeparator)
	if !found || !hasTitleKeyword(role) {
		return "", "", false
	}
	return strings.TrimSpace(role), strings.TrimSpace(company), true
}

func hasTitleKeyword(s string) bool {
	for _, kw := range TitleKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func stripMarkers(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}
