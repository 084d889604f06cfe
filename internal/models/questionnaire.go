package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClientQuestionnaire is filled in by the client. At most one per company:
// the company SIREN is the primary key.
type ClientQuestionnaire struct {
	CompanySIREN string `gorm:"primaryKey;size:9" json:"siren"`

	// Tools in use
	LogicielFacturation        bool   `gorm:"not null;default:false" json:"logiciel_facturation"`
	LogicielFacturationNom     string `gorm:"size:255" json:"logiciel_facturation_nom"`
	FacturesFormatElectronique string `gorm:"size:20" json:"factures_format_electronique"`
	LogicielDevis              bool   `gorm:"not null;default:false" json:"logiciel_devis"`
	LogicielDevisNom           string `gorm:"size:255" json:"logiciel_devis_nom"`
	CaisseEnregistreuse        string `gorm:"size:20" json:"caisse_enregistreuse"`
	CaisseEnregistreuseNom     string `gorm:"size:255" json:"caisse_enregistreuse_nom"`
	CaisseCertifiee            string `gorm:"size:20" json:"caisse_certifiee"`
	PlateformeAgreee           string `gorm:"size:20" json:"plateforme_agreee"`
	PlateformeAgreeeNom        string `gorm:"size:255" json:"plateforme_agreee_nom"`

	// Outlook
	GestionFuture string `gorm:"size:20" json:"gestion_future"`
	AisanceOutils string `gorm:"size:20" json:"aisance_outils"`

	// Current practices
	ReceptionFacturesAchats string `gorm:"size:20" json:"reception_factures_achats"`
	ReceptionAchatsAutre    string `gorm:"size:255" json:"reception_achats_autre"`
	EnvoiFacturesVentes     string `gorm:"size:20" json:"envoi_factures_ventes"`
	EnvoiVentesAutre        string `gorm:"size:255" json:"envoi_ventes_autre"`
	ConservationFactures    string `gorm:"size:20" json:"conservation_factures"`

	// AccompagnementSouhaite holds AccompagnementChoices keys in declaration order.
	// An empty list means nothing was checked or nothing was answered yet.
	AccompagnementSouhaite datatypes.JSONSlice[string] `json:"accompagnement_souhaite"`
	AccompagnementAutre    string                      `gorm:"size:255" json:"accompagnement_autre"`

	Commentaires string `gorm:"type:text" json:"commentaires"`

	CreatedAt          time.Time  `json:"date_completion"`
	UpdatedAt          time.Time  `json:"date_modification"`
	CookiesConsentDate *time.Time `json:"cookies_consent_date,omitempty"`

	// ModifiedByID is the staff member who last edited the answers from the back office.
	ModifiedByID *uint `gorm:"index" json:"modifie_par_collaborateur,omitempty"`
	ModifiedBy   *User `gorm:"foreignKey:ModifiedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// CollaborateurQuestionnaire is filled in by a staff member about a company.
type CollaborateurQuestionnaire struct {
	CompanySIREN string `gorm:"primaryKey;size:9" json:"siren"`

	AssujettieTVA       string `gorm:"size:20" json:"assujettie_tva"`
	CodeAPE             string `gorm:"size:10" json:"code_ape"`
	ActivitePrecise     string `gorm:"type:text" json:"activite_precise"`
	TailleEntreprise    string `gorm:"size:20" json:"taille_entreprise"`
	RegimeTVA           string `gorm:"size:20" json:"regime_tva"`
	ActiviteExonereeTVA string `gorm:"size:20" json:"activite_exoneree_tva"`

	PlateformeAgreee    bool   `gorm:"not null;default:false" json:"plateforme_agreee"`
	PlateformeAgreeeNom string `gorm:"size:255" json:"plateforme_agreee_nom"`

	// Sales
	NbFacturesVentes   string `gorm:"size:20" json:"nb_factures_ventes"`
	NbClientsActifs    string `gorm:"size:20" json:"nb_clients_actifs"`
	VenteB2BDomestique bool   `gorm:"column:vente_btob_domestique;not null;default:false" json:"vente_btob_domestique"`
	VenteB2BExport     bool   `gorm:"column:vente_btob_export;not null;default:false" json:"vente_btob_export"`
	VenteB2CFacture    bool   `gorm:"column:vente_btoc_facture;not null;default:false" json:"vente_btoc_facture"`
	VenteB2CCaisse     bool   `gorm:"column:vente_btoc_caisse;not null;default:false" json:"vente_btoc_caisse"`

	// Purchases
	NbFacturesAchats           string `gorm:"size:20" json:"nb_factures_achats"`
	NbFournisseursActifs       string `gorm:"size:20" json:"nb_fournisseurs_actifs"`
	AchatB2BDomestique         bool   `gorm:"column:achat_btob_domestique;not null;default:false" json:"achat_btob_domestique"`
	AchatB2BIntracommunautaire bool   `gorm:"column:achat_btob_intracommunautaire;not null;default:false" json:"achat_btob_intracommunautaire"`
	AchatB2BHorsUE             bool   `gorm:"column:achat_btob_hors_ue;not null;default:false" json:"achat_btob_hors_ue"`

	Commentaires string `gorm:"type:text" json:"commentaires"`

	CollaborateurID uint  `gorm:"not null;index" json:"collaborateur_id"`
	Collaborateur   *User `gorm:"foreignKey:CollaborateurID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt          time.Time  `json:"date_completion"`
	UpdatedAt          time.Time  `json:"date_modification"`
	CookiesConsentDate *time.Time `json:"cookies_consent_date,omitempty"`
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Cabinet{},
		&User{},
		&Company{},
		&ClientQuestionnaire{},
		&CollaborateurQuestionnaire{},
	}
}
