// Package i18n holds UI message translations. French is the default language.
package i18n

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	DefaultLang    = "fr"
	LangParam      = "lang"
	LangCookieName = "lang"
)

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

var messages = map[string]map[string]string{
	"fr": {
		"required":       "Ce champ est obligatoire.",
		"invalid_choice": "Sélectionnez un choix valide.",
		"too_long":       "Ce texte est trop long.",
		"invalid_siren":  "Le SIREN doit contenir exactement 9 chiffres",

		"nav.home":      "Accueil",
		"nav.dashboard": "Tableau de bord",
		"nav.login":     "Connexion",
		"nav.logout":    "Déconnexion",
		"nav.legal":     "Mentions légales",

		"action.submit":   "Valider",
		"action.continue": "Continuer",
		"action.cancel":   "Annuler",
		"action.edit":     "Modifier",
		"action.archive":  "Archiver",
		"action.export":   "Exporter en CSV",
		"action.search":   "Rechercher",

		"login.invalid": "Email ou mot de passe incorrect.",
		"login.denied":  "Ce compte n'a pas accès à l'espace collaborateur.",
		"yes":           "Oui",
		"no":            "Non",
	},
	"en": {
		"required":       "This field is required.",
		"invalid_choice": "Select a valid choice.",
		"too_long":       "This text is too long.",
		"invalid_siren":  "The SIREN must be exactly 9 digits",

		"nav.home":      "Home",
		"nav.dashboard": "Dashboard",
		"nav.login":     "Sign in",
		"nav.logout":    "Sign out",
		"nav.legal":     "Legal notice",

		"action.submit":   "Submit",
		"action.continue": "Continue",
		"action.cancel":   "Cancel",
		"action.edit":     "Edit",
		"action.archive":  "Archive",
		"action.export":   "Export as CSV",
		"action.search":   "Search",

		"login.invalid": "Invalid email or password.",
		"login.denied":  "This account cannot access the staff area.",
		"yes":           "Yes",
		"no":            "No",
	},
}

// T translates code. Unknown languages fall back to French, unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the best supported language for an Accept-Language header.
func DetectLanguage(accept string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Normalize returns lang if it is supported, otherwise the default.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := messages[lang]; ok {
		return lang
	}
	return DefaultLang
}

type ctxKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}

// Middleware resolves the request language from the lang query parameter, the
// lang cookie, then Accept-Language. An explicit query choice is remembered in a cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie(LangCookieName); err == nil && c.Value != "" {
			lang = Normalize(c.Value)
		}
		if q := r.URL.Query().Get(LangParam); q != "" {
			lang = Normalize(q)
			http.SetCookie(w, &http.Cookie{
				Name:     LangCookieName,
				Value:    lang,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
