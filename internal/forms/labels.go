package forms

import (
	"sort"

	"github.com/UTurtleDev/gcl/validation"
)

// ClientLabels are the questions of the client questionnaire, by field.
var ClientLabels = map[string]string{
	"logiciel_facturation":         "Utilisez-vous un logiciel de facturation ?",
	"logiciel_facturation_nom":     "Si oui, lequel ?",
	"factures_format_electronique": "Vos factures sont-elles déjà au format électronique ?",
	"logiciel_devis":               "Utilisez-vous un logiciel de devis ?",
	"logiciel_devis_nom":           "Si oui, lequel ?",
	"caisse_enregistreuse":         "Utilisez-vous une caisse enregistreuse ?",
	"caisse_enregistreuse_nom":     "Si oui, quelle marque/modèle ?",
	"caisse_certifiee":             "Votre caisse est-elle certifiée conforme ?",
	"plateforme_agreee":            "Utilisez-vous une plateforme agréée pour la facturation ?",
	"plateforme_agreee_nom":        "Si oui, laquelle ?",
	"gestion_future":               "Comment souhaitez-vous gérer la facturation électronique ?",
	"aisance_outils":               "Quel est votre niveau d'aisance avec les outils numériques ?",
	"reception_factures_achats":    "Comment recevez-vous actuellement vos factures d'achats ?",
	"reception_achats_autre":       "Autre (précisez)",
	"envoi_factures_ventes":        "Comment envoyez-vous actuellement vos factures de ventes ?",
	"envoi_ventes_autre":           "Autre (précisez)",
	"conservation_factures":        "Comment conservez-vous vos factures ?",
	"accompagnement_souhaite":      "Quel type d'accompagnement souhaitez-vous ?",
	"accompagnement_autre":         "Autre (précisez)",
	"commentaires":                 "Commentaires ou questions supplémentaires",
}

// CollaborateurLabels are the questions of the staff questionnaire, by field.
var CollaborateurLabels = map[string]string{
	"assujettie_tva":                "L'entreprise est-elle assujettie à la TVA ?",
	"code_ape":                      "Code APE (NAF)",
	"activite_precise":              "Description précise de l'activité",
	"taille_entreprise":             "Taille de l'entreprise",
	"regime_tva":                    "Régime de TVA",
	"activite_exoneree_tva":         "Secteur d'activité (exonération TVA)",
	"plateforme_agreee":             "Utilise une plateforme de dématérialisation agréée",
	"plateforme_agreee_nom":         "Si oui, laquelle ?",
	"nb_factures_ventes":            "Nombre de factures de ventes par an",
	"nb_clients_actifs":             "Nombre de clients actifs",
	"vente_btob_domestique":         "Ventes B2B France",
	"vente_btob_export":             "Ventes B2B Export (hors UE)",
	"vente_btoc_facture":            "Ventes B2C avec facture",
	"vente_btoc_caisse":             "Ventes B2C avec ticket de caisse",
	"nb_factures_achats":            "Nombre de factures d'achats par an",
	"nb_fournisseurs_actifs":        "Nombre de fournisseurs actifs",
	"achat_btob_domestique":         "Achats B2B France",
	"achat_btob_intracommunautaire": "Achats B2B intracommunautaires (UE)",
	"achat_btob_hors_ue":            "Achats B2B hors UE",
	"commentaires":                  "Observations et informations complémentaires",
}

// FieldError is a violation paired with the question it concerns.
type FieldError struct {
	Field string
	Label string
	Code  string
}

// Describe lists violations in a stable order with their labels.
func Describe(v validation.Violations, labels map[string]string) []FieldError {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	out := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		label := labels[f]
		if label == "" {
			label = f
		}
		out = append(out, FieldError{Field: f, Label: label, Code: v[f]})
	}
	return out
}
