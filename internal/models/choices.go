package models

// Choice is a stored code and its display label.
type Choice struct {
	Value string
	Label string
}

// Choices is an ordered set of allowed codes for a single-choice field.
type Choices []Choice

// Label returns the display label for a code. Unknown codes are returned as-is,
// the empty code renders as an empty string.
func (c Choices) Label(value string) string {
	for _, ch := range c {
		if ch.Value == value {
			return ch.Label
		}
	}
	return value
}

// Valid reports whether value is one of the allowed codes.
func (c Choices) Valid(value string) bool {
	for _, ch := range c {
		if ch.Value == value {
			return true
		}
	}
	return false
}

// Ordered keeps the values present in c, in declaration order, without duplicates.
func (c Choices) Ordered(values []string) []string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		seen[v] = true
	}
	out := make([]string, 0, len(values))
	for _, ch := range c {
		if seen[ch.Value] {
			out = append(out, ch.Value)
		}
	}
	return out
}

// Client questionnaire choices.
var (
	OuiNonNSP = Choices{
		{"yes", "Oui"},
		{"no", "Non"},
		{"dont_know", "Je ne sais pas"},
	}
	OuiNonNA = Choices{
		{"yes", "Oui"},
		{"no", "Non"},
		{"not_applicable", "Non applicable"},
	}
	GestionFutureChoices = Choices{
		{"internal", "Gérer en interne avec accompagnement"},
		{"delegate", "Déléguer au cabinet"},
		{"dont_know", "Je ne sais pas, besoin de conseils"},
	}
	AisanceOutilsChoices = Choices{
		{"very_comfortable", "Très à l'aise"},
		{"medium", "Moyen"},
		{"not_comfortable", "Pas du tout à l'aise"},
	}
	// ModeEchangeChoices covers both how purchase invoices are received and how sales invoices are sent.
	ModeEchangeChoices = Choices{
		{"paper", "Principalement par courrier papier"},
		{"email", "Principalement par email (PDF)"},
		{"mixed", "Mix papier/email"},
		{"platform", "Via plateforme dématérialisée"},
		{"other", "Autre"},
	}
	ConservationChoices = Choices{
		{"paper", "Classement papier uniquement"},
		{"electronic", "Archivage électronique uniquement"},
		{"mixed", "Mix papier + électronique"},
		{"accounting_firm", "Confié au cabinet comptable"},
	}
	AccompagnementChoices = Choices{
		{"information", "Information et sensibilisation sur la réforme"},
		{"conseil", "Conseil sur le choix des outils"},
		{"formation", "Formation à l'utilisation des outils"},
		{"parametrage", "Paramétrage et mise en place des solutions"},
		{"gestion_complete", "Gestion complète de la facturation électronique"},
		{"support", "Support et assistance régulière"},
		{"aucun", "Aucun accompagnement nécessaire"},
		{"autre", "Autre"},
	}
)

// Collaborateur questionnaire choices.
var (
	AssujettieTVAChoices = Choices{
		{"yes", "Oui"},
		{"no", "Non"},
		{"unsure", "J'ai un doute"},
	}
	TailleEntrepriseChoices = Choices{
		{"small_medium", "TPE/PME"},
		{"mid_sized", "ETI"},
		{"large", "Grande entreprise"},
	}
	RegimeTVAChoices = Choices{
		{"franchise", "Franchise en base"},
		{"simplified_real", "Réel simplifié"},
		{"quarterly_real", "Réel trimestriel"},
		{"monthly_real", "Réel mensuel"},
	}
	ActiviteExonereeChoices = Choices{
		{"health", "Prestations santé"},
		{"education", "Enseignement et formation"},
		{"real_estate", "Opérations immobilières"},
		{"nonprofit", "Associations à but non lucratif"},
		{"banking", "Opérations bancaires et financières"},
		{"insurance", "Opérations d'assurance"},
		{"mixed", "Activité mixte ou n'exerce pas dans ces secteurs"},
	}
	NbFacturesChoices = Choices{
		{"less_than_50", "Moins de 50"},
		{"between_50_200", "Entre 50 et 200"},
		{"between_200_1000", "Entre 200 et 1000"},
		{"between_1000_5000", "Entre 1000 et 5000"},
		{"more_than_5000", "Plus de 5000"},
		{"not_applicable", "N/A"},
	}
	NbTiersChoices = Choices{
		{"less_than_10", "Moins de 10"},
		{"between_10_50", "Entre 10 et 50"},
		{"between_50_200", "Entre 50 et 200"},
		{"more_than_200", "Plus de 200"},
		{"not_applicable", "N/A"},
	}
)

// FieldChoices maps each single- or multi-choice questionnaire field to its
// allowed codes. Fields shared by both questionnaires use the same set.
var FieldChoices = map[string]Choices{
	"factures_format_electronique": OuiNonNSP,
	"caisse_enregistreuse":         OuiNonNA,
	"caisse_certifiee":             OuiNonNSP,
	"plateforme_agreee":            OuiNonNSP,
	"gestion_future":               GestionFutureChoices,
	"aisance_outils":               AisanceOutilsChoices,
	"reception_factures_achats":    ModeEchangeChoices,
	"envoi_factures_ventes":        ModeEchangeChoices,
	"conservation_factures":        ConservationChoices,
	"accompagnement_souhaite":      AccompagnementChoices,
	"assujettie_tva":               AssujettieTVAChoices,
	"taille_entreprise":            TailleEntrepriseChoices,
	"regime_tva":                   RegimeTVAChoices,
	"activite_exoneree_tva":        ActiviteExonereeChoices,
	"nb_factures_ventes":           NbFacturesChoices,
	"nb_factures_achats":           NbFacturesChoices,
	"nb_clients_actifs":            NbTiersChoices,
	"nb_fournisseurs_actifs":       NbTiersChoices,
}
