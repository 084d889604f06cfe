package sirene

import "strings"

// Response is the subset of the /siren/{siren} payload the application reads.
type Response struct {
	UniteLegale UniteLegale `json:"uniteLegale"`
}

// UniteLegale is a legal unit. Only the fields used for the display name are decoded.
type UniteLegale struct {
	SIREN                  string    `json:"siren"`
	PrenomUsuelUniteLegale string    `json:"prenomUsuelUniteLegale"`
	Periodes               []Periode `json:"periodesUniteLegale"`
}

// Periode is one historical period of a legal unit, most recent first.
type Periode struct {
	DenominationUniteLegale         string `json:"denominationUniteLegale"`
	DenominationUsuelle1UniteLegale string `json:"denominationUsuelle1UniteLegale"`
	NomUniteLegale                  string `json:"nomUniteLegale"`
}

// ResolveName picks the display name of a legal unit from its current period:
// the legal denomination, else the usual denomination followed by the
// individual's name in parentheses, else the bare individual's name.
// An empty name is a valid result.
func ResolveName(u UniteLegale) string {
	var p Periode
	if len(u.Periodes) > 0 {
		p = u.Periodes[0]
	}
	if p.DenominationUniteLegale != "" {
		return p.DenominationUniteLegale
	}
	person := strings.TrimSpace(p.NomUniteLegale + " " + u.PrenomUsuelUniteLegale)
	if p.DenominationUsuelle1UniteLegale != "" {
		if person == "" {
			return p.DenominationUsuelle1UniteLegale
		}
		return p.DenominationUsuelle1UniteLegale + " (" + person + ")"
	}
	return person
}
