package sirene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name string
		unit UniteLegale
		want string
	}{
		{
			name: "legal denomination wins",
			unit: UniteLegale{Periodes: []Periode{{DenominationUniteLegale: "ACME SARL", DenominationUsuelle1UniteLegale: "ACME", NomUniteLegale: "DUPONT"}}},
			want: "ACME SARL",
		},
		{
			name: "usual denomination with the person",
			unit: UniteLegale{PrenomUsuelUniteLegale: "JEAN", Periodes: []Periode{{DenominationUsuelle1UniteLegale: "ACME", NomUniteLegale: "DUPONT"}}},
			want: "ACME (DUPONT JEAN)",
		},
		{
			name: "usual denomination alone",
			unit: UniteLegale{Periodes: []Periode{{DenominationUsuelle1UniteLegale: "ACME"}}},
			want: "ACME",
		},
		{
			name: "person only",
			unit: UniteLegale{PrenomUsuelUniteLegale: "JEAN", Periodes: []Periode{{NomUniteLegale: "DUPONT"}}},
			want: "DUPONT JEAN",
		},
		{
			name: "first name without period",
			unit: UniteLegale{PrenomUsuelUniteLegale: "JEAN"},
			want: "JEAN",
		},
		{
			name: "nothing known",
			unit: UniteLegale{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveName(tt.unit))
		})
	}
}

func TestResolveNameUsesCurrentPeriod(t *testing.T) {
	body := []byte(`{"uniteLegale":{"periodesUniteLegale":[
		{"denominationUniteLegale":"NOUVEAU NOM"},
		{"denominationUniteLegale":"ANCIEN NOM"}
	]}}`)
	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "NOUVEAU NOM", ResolveName(resp.UniteLegale))
}
