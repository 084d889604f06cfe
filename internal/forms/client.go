package forms

import (
	"net/url"
	"slices"

	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/validation"
)

// ClientForm mirrors the client questionnaire fields, as submitted.
type ClientForm struct {
	LogicielFacturation        bool
	LogicielFacturationNom     string
	FacturesFormatElectronique string
	LogicielDevis              bool
	LogicielDevisNom           string
	CaisseEnregistreuse        string
	CaisseEnregistreuseNom     string
	CaisseCertifiee            string
	PlateformeAgreee           string
	PlateformeAgreeeNom        string

	GestionFuture string
	AisanceOutils string

	ReceptionFacturesAchats string
	ReceptionAchatsAutre    string
	EnvoiFacturesVentes     string
	EnvoiVentesAutre        string
	ConservationFactures    string

	AccompagnementSouhaite []string
	AccompagnementAutre    string

	Commentaires string
}

// ParseClient reads and validates a client questionnaire submission.
func ParseClient(values url.Values) (ClientForm, validation.Violations) {
	f := ClientForm{
		LogicielFacturation:        checkbox(values, "logiciel_facturation"),
		LogicielFacturationNom:     text(values, "logiciel_facturation_nom"),
		FacturesFormatElectronique: text(values, "factures_format_electronique"),
		LogicielDevis:              checkbox(values, "logiciel_devis"),
		LogicielDevisNom:           text(values, "logiciel_devis_nom"),
		CaisseEnregistreuse:        text(values, "caisse_enregistreuse"),
		CaisseEnregistreuseNom:     text(values, "caisse_enregistreuse_nom"),
		CaisseCertifiee:            text(values, "caisse_certifiee"),
		PlateformeAgreee:           text(values, "plateforme_agreee"),
		PlateformeAgreeeNom:        text(values, "plateforme_agreee_nom"),
		GestionFuture:              text(values, "gestion_future"),
		AisanceOutils:              text(values, "aisance_outils"),
		ReceptionFacturesAchats:    text(values, "reception_factures_achats"),
		ReceptionAchatsAutre:       text(values, "reception_achats_autre"),
		EnvoiFacturesVentes:        text(values, "envoi_factures_ventes"),
		EnvoiVentesAutre:           text(values, "envoi_ventes_autre"),
		ConservationFactures:       text(values, "conservation_factures"),
		AccompagnementAutre:        text(values, "accompagnement_autre"),
		Commentaires:               text(values, "commentaires"),
	}

	v := validation.Violations{}
	validation.Required("factures_format_electronique", f.FacturesFormatElectronique, v)
	validation.Required("gestion_future", f.GestionFuture, v)
	validation.Required("aisance_outils", f.AisanceOutils, v)

	validation.Choice("factures_format_electronique", f.FacturesFormatElectronique, models.OuiNonNSP, v)
	validation.Choice("caisse_enregistreuse", f.CaisseEnregistreuse, models.OuiNonNA, v)
	validation.Choice("caisse_certifiee", f.CaisseCertifiee, models.OuiNonNSP, v)
	validation.Choice("plateforme_agreee", f.PlateformeAgreee, models.OuiNonNSP, v)
	validation.Choice("gestion_future", f.GestionFuture, models.GestionFutureChoices, v)
	validation.Choice("aisance_outils", f.AisanceOutils, models.AisanceOutilsChoices, v)
	validation.Choice("reception_factures_achats", f.ReceptionFacturesAchats, models.ModeEchangeChoices, v)
	validation.Choice("envoi_factures_ventes", f.EnvoiFacturesVentes, models.ModeEchangeChoices, v)
	validation.Choice("conservation_factures", f.ConservationFactures, models.ConservationChoices, v)

	accomp := multi(values, "accompagnement_souhaite")
	validation.Choices("accompagnement_souhaite", accomp, models.AccompagnementChoices, v)
	f.AccompagnementSouhaite = models.AccompagnementChoices.Ordered(accomp)

	for field, val := range map[string]string{
		"logiciel_facturation_nom": f.LogicielFacturationNom,
		"logiciel_devis_nom":       f.LogicielDevisNom,
		"caisse_enregistreuse_nom": f.CaisseEnregistreuseNom,
		"plateforme_agreee_nom":    f.PlateformeAgreeeNom,
		"reception_achats_autre":   f.ReceptionAchatsAutre,
		"envoi_ventes_autre":       f.EnvoiVentesAutre,
		"accompagnement_autre":     f.AccompagnementAutre,
	} {
		validation.MaxLength(field, val, maxNameLength, v)
	}
	return f, v
}

// ClientFormFrom prefills a form with stored answers.
func ClientFormFrom(q *models.ClientQuestionnaire) ClientForm {
	if q == nil {
		return ClientForm{}
	}
	return ClientForm{
		LogicielFacturation:        q.LogicielFacturation,
		LogicielFacturationNom:     q.LogicielFacturationNom,
		FacturesFormatElectronique: q.FacturesFormatElectronique,
		LogicielDevis:              q.LogicielDevis,
		LogicielDevisNom:           q.LogicielDevisNom,
		CaisseEnregistreuse:        q.CaisseEnregistreuse,
		CaisseEnregistreuseNom:     q.CaisseEnregistreuseNom,
		CaisseCertifiee:            q.CaisseCertifiee,
		PlateformeAgreee:           q.PlateformeAgreee,
		PlateformeAgreeeNom:        q.PlateformeAgreeeNom,
		GestionFuture:              q.GestionFuture,
		AisanceOutils:              q.AisanceOutils,
		ReceptionFacturesAchats:    q.ReceptionFacturesAchats,
		ReceptionAchatsAutre:       q.ReceptionAchatsAutre,
		EnvoiFacturesVentes:        q.EnvoiFacturesVentes,
		EnvoiVentesAutre:           q.EnvoiVentesAutre,
		ConservationFactures:       q.ConservationFactures,
		AccompagnementSouhaite:     slices.Clone([]string(q.AccompagnementSouhaite)),
		AccompagnementAutre:        q.AccompagnementAutre,
		Commentaires:               q.Commentaires,
	}
}

// ApplyTo overwrites every answer of q with the form values.
func (f ClientForm) ApplyTo(q *models.ClientQuestionnaire) {
	q.LogicielFacturation = f.LogicielFacturation
	q.LogicielFacturationNom = f.LogicielFacturationNom
	q.FacturesFormatElectronique = f.FacturesFormatElectronique
	q.LogicielDevis = f.LogicielDevis
	q.LogicielDevisNom = f.LogicielDevisNom
	q.CaisseEnregistreuse = f.CaisseEnregistreuse
	q.CaisseEnregistreuseNom = f.CaisseEnregistreuseNom
	q.CaisseCertifiee = f.CaisseCertifiee
	q.PlateformeAgreee = f.PlateformeAgreee
	q.PlateformeAgreeeNom = f.PlateformeAgreeeNom
	q.GestionFuture = f.GestionFuture
	q.AisanceOutils = f.AisanceOutils
	q.ReceptionFacturesAchats = f.ReceptionFacturesAchats
	q.ReceptionAchatsAutre = f.ReceptionAchatsAutre
	q.EnvoiFacturesVentes = f.EnvoiFacturesVentes
	q.EnvoiVentesAutre = f.EnvoiVentesAutre
	q.ConservationFactures = f.ConservationFactures
	q.AccompagnementSouhaite = append([]string{}, f.AccompagnementSouhaite...)
	q.AccompagnementAutre = f.AccompagnementAutre
	q.Commentaires = f.Commentaires
}

// HasAccompagnement is used by templates to check a box.
func (f ClientForm) HasAccompagnement(key string) bool {
	return slices.Contains(f.AccompagnementSouhaite, key)
}
