package models

import (
	"time"
)

// ModuleRecord is one row of the master datasheet CSV. JSON names follow the
// CSV headers so grid columns keep the CSV titles.
type ModuleRecord struct {
	Module     string     `json:"Module"`
	Power      string     `json:"Power"`
	TypeName   string     `json:"Type Name"`
	Item       string     `json:"Item"`
	Parameter  string     `json:"Parameter"`
	Conditions string     `json:"Conditions"`
	Symbol     string     `json:"Symbol"`
	Values     string     `json:"Values"`
	Min        *float64   `json:"Min"`
	Typ        *float64   `json:"Typ"`
	Max        *float64   `json:"Max"`
	Unit       string     `json:"Unit"`
	User       string     `json:"User"`
	TimeStamp  *time.Time `json:"TimeStamp"`
	Version    string     `json:"Version"`
	ReportLink string     `json:"Report Link"`
	ReportYear int        `json:"Report Year"`
}

// RecordColumns is the grid column order.
var RecordColumns = []string{
	"Module", "Power", "Type Name", "Item", "Parameter", "Report Year",
	"Conditions", "Symbol", "Values", "Min", "Typ", "Max", "Unit", "User",
	"TimeStamp", "Version", "Report Link",
}

// Cells renders the record in RecordColumns order for exports.
func (r ModuleRecord) Cells() []string {
	num := func(v *float64) string {
		if v == nil {
			return ""
		}
		return formatFloat(*v)
	}
	ts, year := "", ""
	if r.TimeStamp != nil {
		ts = r.TimeStamp.Format("2006-01-02 15:04:05")
	}
	if r.ReportYear != 0 {
		year = formatFloat(float64(r.ReportYear))
	}
	return []string{
		r.Module, r.Power, r.TypeName, r.Item, r.Parameter, year,
		r.Conditions, r.Symbol, r.Values, num(r.Min), num(r.Typ), num(r.Max), r.Unit, r.User,
		ts, r.Version, r.ReportLink,
	}
}
