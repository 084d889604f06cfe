package forms

import (
	"net/url"

	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/validation"
)

const maxCodeAPELength = 10

// CollaborateurForm mirrors the staff questionnaire. Every field is optional.
type CollaborateurForm struct {
	AssujettieTVA       string
	CodeAPE             string
	ActivitePrecise     string
	TailleEntreprise    string
	RegimeTVA           string
	ActiviteExonereeTVA string

	PlateformeAgreee    bool
	PlateformeAgreeeNom string

	NbFacturesVentes   string
	NbClientsActifs    string
	VenteB2BDomestique bool
	VenteB2BExport     bool
	VenteB2CFacture    bool
	VenteB2CCaisse     bool

	NbFacturesAchats           string
	NbFournisseursActifs       string
	AchatB2BDomestique         bool
	AchatB2BIntracommunautaire bool
	AchatB2BHorsUE             bool

	Commentaires string
}

// ParseCollaborateur reads and validates a staff questionnaire submission.
func ParseCollaborateur(values url.Values) (CollaborateurForm, validation.Violations) {
	f := CollaborateurForm{
		AssujettieTVA:              text(values, "assujettie_tva"),
		CodeAPE:                    text(values, "code_ape"),
		ActivitePrecise:            text(values, "activite_precise"),
		TailleEntreprise:           text(values, "taille_entreprise"),
		RegimeTVA:                  text(values, "regime_tva"),
		ActiviteExonereeTVA:        text(values, "activite_exoneree_tva"),
		PlateformeAgreee:           checkbox(values, "plateforme_agreee"),
		PlateformeAgreeeNom:        text(values, "plateforme_agreee_nom"),
		NbFacturesVentes:           text(values, "nb_factures_ventes"),
		NbClientsActifs:            text(values, "nb_clients_actifs"),
		VenteB2BDomestique:         checkbox(values, "vente_btob_domestique"),
		VenteB2BExport:             checkbox(values, "vente_btob_export"),
		VenteB2CFacture:            checkbox(values, "vente_btoc_facture"),
		VenteB2CCaisse:             checkbox(values, "vente_btoc_caisse"),
		NbFacturesAchats:           text(values, "nb_factures_achats"),
		NbFournisseursActifs:       text(values, "nb_fournisseurs_actifs"),
		AchatB2BDomestique:         checkbox(values, "achat_btob_domestique"),
		AchatB2BIntracommunautaire: checkbox(values, "achat_btob_intracommunautaire"),
		AchatB2BHorsUE:             checkbox(values, "achat_btob_hors_ue"),
		Commentaires:               text(values, "commentaires"),
	}

	v := validation.Violations{}
	validation.Choice("assujettie_tva", f.AssujettieTVA, models.AssujettieTVAChoices, v)
	validation.Choice("taille_entreprise", f.TailleEntreprise, models.TailleEntrepriseChoices, v)
	validation.Choice("regime_tva", f.RegimeTVA, models.RegimeTVAChoices, v)
	validation.Choice("activite_exoneree_tva", f.ActiviteExonereeTVA, models.ActiviteExonereeChoices, v)
	validation.Choice("nb_factures_ventes", f.NbFacturesVentes, models.NbFacturesChoices, v)
	validation.Choice("nb_factures_achats", f.NbFacturesAchats, models.NbFacturesChoices, v)
	validation.Choice("nb_clients_actifs", f.NbClientsActifs, models.NbTiersChoices, v)
	validation.Choice("nb_fournisseurs_actifs", f.NbFournisseursActifs, models.NbTiersChoices, v)
	validation.MaxLength("code_ape", f.CodeAPE, maxCodeAPELength, v)
	validation.MaxLength("plateforme_agreee_nom", f.PlateformeAgreeeNom, maxNameLength, v)
	return f, v
}

// CollaborateurFormFrom prefills a form with stored answers.
func CollaborateurFormFrom(q *models.CollaborateurQuestionnaire) CollaborateurForm {
	if q == nil {
		return CollaborateurForm{}
	}
	return CollaborateurForm{
		AssujettieTVA:              q.AssujettieTVA,
		CodeAPE:                    q.CodeAPE,
		ActivitePrecise:            q.ActivitePrecise,
		TailleEntreprise:           q.TailleEntreprise,
		RegimeTVA:                  q.RegimeTVA,
		ActiviteExonereeTVA:        q.ActiviteExonereeTVA,
		PlateformeAgreee:           q.PlateformeAgreee,
		PlateformeAgreeeNom:        q.PlateformeAgreeeNom,
		NbFacturesVentes:           q.NbFacturesVentes,
		NbClientsActifs:            q.NbClientsActifs,
		VenteB2BDomestique:         q.VenteB2BDomestique,
		VenteB2BExport:             q.VenteB2BExport,
		VenteB2CFacture:            q.VenteB2CFacture,
		VenteB2CCaisse:             q.VenteB2CCaisse,
		NbFacturesAchats:           q.NbFacturesAchats,
		NbFournisseursActifs:       q.NbFournisseursActifs,
		AchatB2BDomestique:         q.AchatB2BDomestique,
		AchatB2BIntracommunautaire: q.AchatB2BIntracommunautaire,
		AchatB2BHorsUE:             q.AchatB2BHorsUE,
		Commentaires:               q.Commentaires,
	}
}

// ApplyTo overwrites every answer of q with the form values. The collaborateur
// is set by the caller.
func (f CollaborateurForm) ApplyTo(q *models.CollaborateurQuestionnaire) {
	q.AssujettieTVA = f.AssujettieTVA
	q.CodeAPE = f.CodeAPE
	q.ActivitePrecise = f.ActivitePrecise
	q.TailleEntreprise = f.TailleEntreprise
	q.RegimeTVA = f.RegimeTVA
	q.ActiviteExonereeTVA = f.ActiviteExonereeTVA
	q.PlateformeAgreee = f.PlateformeAgreee
	q.PlateformeAgreeeNom = f.PlateformeAgreeeNom
	q.NbFacturesVentes = f.NbFacturesVentes
	q.NbClientsActifs = f.NbClientsActifs
	q.VenteB2BDomestique = f.VenteB2BDomestique
	q.VenteB2BExport = f.VenteB2BExport
	q.VenteB2CFacture = f.VenteB2CFacture
	q.VenteB2CCaisse = f.VenteB2CCaisse
	q.NbFacturesAchats = f.NbFacturesAchats
	q.NbFournisseursActifs = f.NbFournisseursActifs
	q.AchatB2BDomestique = f.AchatB2BDomestique
	q.AchatB2BIntracommunautaire = f.AchatB2BIntracommunautaire
	q.AchatB2BHorsUE = f.AchatB2BHorsUE
	q.Commentaires = f.Commentaires
}
