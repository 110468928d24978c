package catalog

// CodeInfo is the display label and description for a catalog code.
type CodeInfo struct {
	Label       string
	Description string
}

// CodeTable maps a code (e.g. "NM", "R4") to its display information.
type CodeTable map[string]CodeInfo

// Tables bundles the static code tables used during enrichment.
// The grade table is shared across item, box and papers grades.
type Tables struct {
	Status CodeTable
	Grade  CodeTable
	Rarity CodeTable
}

// StatusCodes are the accession status codes.
var StatusCodes = CodeTable{
	"A":  {Label: "Accessioned", Description: "Active in collection"},
	"L":  {Label: "On Loan", Description: "Currently on loan"},
	"M":  {Label: "Missing", Description: "Item is missing"},
	"X":  {Label: "Deaccessioned", Description: "Removed from collection"},
	"XE": {Label: "Exchanged", Description: "Exchanged with another institution"},
	"XD": {Label: "Donated", Description: "Donated to another institution"},
	"XS": {Label: "Sold", Description: "Sold"},
}

// GradeCodes are the condition grades for items, boxes and papers.
var GradeCodes = CodeTable{
	"M":  {Label: "Mint", Description: "Never-used and in perfect condition"},
	"NM": {Label: "Near Mint", Description: "Possibly used but must appear to be new"},
	"EX": {Label: "Excellent", Description: "Used, but barely with very minor signs of wear"},
	"VG": {Label: "Very Good", Description: "Looks very good but has minor blemishes"},
	"G":  {Label: "Good", Description: "Looks used with defects"},
	"F":  {Label: "Fair", Description: "Looks significantly used with serious defects"},
	"P":  {Label: "Poor", Description: "Barely collectible, severe damage"},
	"U":  {Label: "Unknown", Description: "Component condition is unknown"},
	"X":  {Label: "Missing", Description: "Component is missing"},
}

// RarityCodes are the rarity scale R1 (common) through R6 (unique).
var RarityCodes = CodeTable{
	"R1": {Label: "Common", Description: "Easy to find"},
	"R2": {Label: "Less common", Description: "Somewhat difficult to find"},
	"R3": {Label: "Scarce", Description: "Difficult to find"},
	"R4": {Label: "Rare", Description: "Very difficult to find"},
	"R5": {Label: "Very rare", Description: "Almost impossible to find"},
	"R6": {Label: "Unique", Description: "Unique, or nearly so"},
}

// DefaultTables returns the built-in code tables.
func DefaultTables() Tables {
	return Tables{
		Status: StatusCodes,
		Grade:  GradeCodes,
		Rarity: RarityCodes,
	}
}

// LookupStatus returns the status info; unknown codes are labelled with the raw code.
func (t Tables) LookupStatus(code string) CodeInfo {
	if info, ok := t.Status[code]; ok {
		return info
	}
	return CodeInfo{Label: code}
}

// LookupGrade returns the grade info; unknown codes get an empty label.
func (t Tables) LookupGrade(code string) CodeInfo {
	if info, ok := t.Grade[code]; ok {
		return info
	}
	return CodeInfo{}
}

// LookupRarity returns the rarity info; unknown codes are labelled with the raw code.
func (t Tables) LookupRarity(code string) CodeInfo {
	if info, ok := t.Rarity[code]; ok {
		return info
	}
	return CodeInfo{Label: code}
}
