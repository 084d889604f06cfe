package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
)

const (
	exportBatchSize  = 200
	exportDateLayout = "02/01/2006 15:04"
	utf8BOM          = "\ufeff"
)

// ExportHeaders is the header row of the questionnaire export, in column order.
var ExportHeaders = []string{
	"SIREN", "Nom Entreprise", "Date Création", "Date Modification",
	"Q. Client Complété", "Q. Collaborateur Complété",
	"Client - Logiciel Facturation", "Client - Logiciel Facturation Nom",
	"Client - Factures Format Électronique",
	"Client - Logiciel Devis", "Client - Logiciel Devis Nom",
	"Client - Caisse Enregistreuse", "Client - Caisse Enregistreuse Nom",
	"Client - Caisse Certifiée",
	"Client - Plateforme Agréée", "Client - Plateforme Agréée Nom",
	"Client - Gestion Future", "Client - Aisance Outils",
	"Client - Réception Factures Achats", "Client - Reception Achats Autre",
	"Client - Envoi Factures Ventes", "Client - Envoi Ventes Autre",
	"Client - Conservation Factures",
	"Client - Accompagnement Souhaité", "Client - Accompagnement Autre",
	"Client - Commentaires",
	"Collab - Assujettie TVA", "Collab - Code APE", "Collab - Activité Précise",
	"Collab - Taille Entreprise", "Collab - Régime TVA", "Collab - Activité Exonérée TVA",
	"Collab - Plateforme Agréée", "Collab - Plateforme Agréée Nom",
	"Collab - Nb Factures Ventes", "Collab - Nb Clients Actifs",
	"Collab - Vente B2B France", "Collab - Vente B2B Export",
	"Collab - Vente B2C Facture", "Collab - Vente B2C Caisse",
	"Collab - Nb Factures Achats", "Collab - Nb Fournisseurs Actifs",
	"Collab - Achat B2B France", "Collab - Achat B2B UE", "Collab - Achat B2B Hors UE",
	"Collab - Commentaires",
}

// ExportService writes the spreadsheet export of every active company.
type ExportService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewExportService renders dates in loc; nil means UTC.
func NewExportService(db *gorm.DB, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{db: db, loc: loc}
}

// WriteCSV streams the export to w: BOM, header row, then one row per
// non-archived company in SIREN order. Batches resume after the last SIREN
// seen, so rows written concurrently cannot shift a company between batches.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.UseCRLF = true
	if err := cw.Write(ExportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var batch []models.Company
		err := s.db.WithContext(ctx).
			Preload("ClientQuestionnaire").
			Preload("CollaborateurQuestionnaire").
			Where("is_archived = ? AND siren > ?", false, after).
			Order("siren ASC").
			Limit(exportBatchSize).
			Find(&batch).Error
		if err != nil {
			return fmt.Errorf("load export batch: %w", err)
		}
		for i := range batch {
			if err := cw.Write(s.row(&batch[i])); err != nil {
				return fmt.Errorf("write row %s: %w", batch[i].SIREN, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
		if len(batch) < exportBatchSize {
			return nil
		}
		after = batch[len(batch)-1].SIREN
	}
}

func (s *ExportService) row(c *models.Company) []string {
	out := make([]string, 0, len(ExportHeaders))
	out = append(out,
		c.SIREN,
		c.Name,
		c.CreatedAt.In(s.loc).Format(exportDateLayout),
		c.UpdatedAt.In(s.loc).Format(exportDateLayout),
		ouiNon(c.HasClient()),
		ouiNon(c.HasCollaborateur()),
	)
	out = append(out, clientColumns(c.ClientQuestionnaire)...)
	out = append(out, collaborateurColumns(c.CollaborateurQuestionnaire)...)
	return out
}

func clientColumns(q *models.ClientQuestionnaire) []string {
	if q == nil {
		return make([]string, 20)
	}
	return []string{
		ouiNon(q.LogicielFacturation),
		q.LogicielFacturationNom,
		models.OuiNonNSP.Label(q.FacturesFormatElectronique),
		ouiNon(q.LogicielDevis),
		q.LogicielDevisNom,
		models.OuiNonNA.Label(q.CaisseEnregistreuse),
		q.CaisseEnregistreuseNom,
		models.OuiNonNSP.Label(q.CaisseCertifiee),
		models.OuiNonNSP.Label(q.PlateformeAgreee),
		q.PlateformeAgreeeNom,
		models.GestionFutureChoices.Label(q.GestionFuture),
		models.AisanceOutilsChoices.Label(q.AisanceOutils),
		models.ModeEchangeChoices.Label(q.ReceptionFacturesAchats),
		q.ReceptionAchatsAutre,
		models.ModeEchangeChoices.Label(q.EnvoiFacturesVentes),
		q.EnvoiVentesAutre,
		models.ConservationChoices.Label(q.ConservationFactures),
		strings.Join(q.AccompagnementSouhaite, ", "),
		q.AccompagnementAutre,
		q.Commentaires,
	}
}

func collaborateurColumns(q *models.CollaborateurQuestionnaire) []string {
	if q == nil {
		return make([]string, 20)
	}
	return []string{
		models.AssujettieTVAChoices.Label(q.AssujettieTVA),
		q.CodeAPE,
		q.ActivitePrecise,
		models.TailleEntrepriseChoices.Label(q.TailleEntreprise),
		models.RegimeTVAChoices.Label(q.RegimeTVA),
		models.ActiviteExonereeChoices.Label(q.ActiviteExonereeTVA),
		ouiNon(q.PlateformeAgreee),
		q.PlateformeAgreeeNom,
		models.NbFacturesChoices.Label(q.NbFacturesVentes),
		models.NbTiersChoices.Label(q.NbClientsActifs),
		ouiNon(q.VenteB2BDomestique),
		ouiNon(q.VenteB2BExport),
		ouiNon(q.VenteB2CFacture),
		ouiNon(q.VenteB2CCaisse),
		models.NbFacturesChoices.Label(q.NbFacturesAchats),
		models.NbTiersChoices.Label(q.NbFournisseursActifs),
		ouiNon(q.AchatB2BDomestique),
		ouiNon(q.AchatB2BIntracommunautaire),
		ouiNon(q.AchatB2BHorsUE),
		q.Commentaires,
	}
}

func ouiNon(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
