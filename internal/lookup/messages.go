package lookup

import "github.com/UTurtleDev/gcl/internal/sirene"

// Error keys produced by a failed lookup.
const (
	KeyNotFound   = "Entreprise non trouvée"
	KeyTimeout    = "Délai d'attente dépassé"
	KeyConnection = "Erreur de connexion à l'API INSEE"
	KeyTechnical  = "Erreur technique"
)

// MsgInvalidFormat is returned, unmapped, for malformed input.
const MsgInvalidFormat = "Le SIREN doit contenir exactement 9 chiffres"

var friendlyMessages = map[string]string{
	KeyNotFound:   "Ce numéro SIREN n'existe pas dans la base des entreprises françaises. Vérifiez qu'il est correct (9 chiffres).",
	KeyTimeout:    "Le service de vérification des entreprises ne répond pas. Veuillez réessayer dans quelques instants.",
	KeyConnection: "Impossible de vérifier le SIREN pour le moment. Veuillez réessayer ultérieurement.",
	KeyTechnical:  "Une erreur technique est survenue. Si le problème persiste, contactez le support.",
}

// FriendlyMessage maps an error key to the text shown to users.
// Unknown keys pass through unchanged.
func FriendlyMessage(key string) string {
	if msg, ok := friendlyMessages[key]; ok {
		return msg
	}
	return key
}

// Category is the error taxonomy exposed to callers.
type Category string

const (
	CategoryNone       Category = ""
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategoryTimeout    Category = "timeout"
	CategoryTransport  Category = "transport"
	CategoryUpstream   Category = "upstream"
)

func classify(o sirene.Outcome) (Category, string) {
	switch o {
	case sirene.OutcomeNotFound:
		return CategoryNotFound, KeyNotFound
	case sirene.OutcomeTimeout:
		return CategoryTimeout, KeyTimeout
	case sirene.OutcomeUpstreamError:
		return CategoryUpstream, KeyConnection
	default:
		return CategoryTransport, KeyTechnical
	}
}
