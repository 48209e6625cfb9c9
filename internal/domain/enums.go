package domain

import "strings"

// EditionType is the print tier of a book. Stored as its ordinal.
type EditionType int

const (
	EditionNormal EditionType = iota
	EditionPromo
	EditionGold
)

var editionNames = [...]string{"Normal", "Promo", "Gold"}

func (e EditionType) String() string {
	if !e.Valid() {
		return "EditionType(?)"
	}
	return editionNames[e]
}

func (e EditionType) Valid() bool { return e >= EditionNormal && int(e) < len(editionNames) }

// EditionTypes lists every edition type in ordinal order.
func EditionTypes() []EditionType {
	return []EditionType{EditionNormal, EditionPromo, EditionGold}
}

// ParseEditionType matches a canonical name, ignoring case.
func ParseEditionType(s string) (EditionType, bool) {
	for _, e := range EditionTypes() {
		if strings.EqualFold(e.String(), strings.TrimSpace(s)) {
			return e, true
		}
	}
	return 0, false
}

// AgeRestriction is the target audience of a book. Stored as its ordinal.
type AgeRestriction int

const (
	AgeMinor AgeRestriction = iota
	AgeTeen
	AgeAdult
)

var ageNames = [...]string{"Minor", "Teen", "Adult"}

func (a AgeRestriction) String() string {
	if !a.Valid() {
		return "AgeRestriction(?)"
	}
	return ageNames[a]
}

func (a AgeRestriction) Valid() bool { return a >= AgeMinor && int(a) < len(ageNames) }

func AgeRestrictions() []AgeRestriction {
	return []AgeRestriction{AgeMinor, AgeTeen, AgeAdult}
}

// ParseAgeRestriction matches a canonical name, ignoring case.
func ParseAgeRestriction(s string) (AgeRestriction, bool) {
	for _, a := range AgeRestrictions() {
		if strings.EqualFold(a.String(), strings.TrimSpace(s)) {
			return a, true
		}
	}
	return 0, false
}
