package models

import (
	"strconv"
	"strings"
	"time"
)

// Revision is one row of the datasheet revision list.
type Revision struct {
	TypeName  string
	TimeStamp *time.Time
	Version   string
}

// RevisionRow is a revision as shown in the "recent updates" table.
type RevisionRow struct {
	TypeName  string `json:"Type Name"`
	TimeStamp string `json:"TimeStamp"`
	Version   string `json:"Version"`
	Link      string `json:"link"`
}

const revisionIcon = "![icon](/assets/inbox-document-text.png) "

// Row formats the revision for display: a date-only timestamp and the type
// name as an icon-prefixed markdown link to its detail page.
func (r Revision) Row() RevisionRow {
	row := RevisionRow{
		TypeName: revisionIcon + "[" + r.TypeName + "](/details/" + r.TypeName + ")",
		Version:  r.Version,
		Link:     "/details/" + r.TypeName,
	}
	if r.TimeStamp != nil {
		row.TimeStamp = r.TimeStamp.Format("2006-01-02")
	}
	return row
}

// StripTypeNameMarkdown undoes Row's decoration of a Type Name cell.
func StripTypeNameMarkdown(cell string) string {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell), strings.TrimSpace(revisionIcon)))
	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 0 {
			s = s[1:end]
		}
	}
	return strings.TrimSpace(s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
