// Package view renders html/template pages wrapped in the shared layout.
package view

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/UTurtleDev/gcl/auth"
	"github.com/UTurtleDev/gcl/i18n"
	"github.com/UTurtleDev/gcl/internal/models"
)

// FragmentDir holds templates rendered without the layout (HTMX snippets).
const FragmentDir = "fragments"

const dateLayout = "02/01/2006 15:04"

var (
	mu       sync.RWMutex
	baseDir  string
	devMode  bool
	location = time.UTC
	tplCache = map[string]*template.Template{}

	// canProfileResolver lets templates check staff permissions without this
	// package knowing about the gate.
	canProfileResolver func(*http.Request, string, string) bool
	// defaultsProvider supplies values every page receives, such as the
	// practice contact block and pending flashes.
	defaultsProvider func(*http.Request) map[string]any
)

// SetCanProfileResolver sets the callback behind the "can" template func.
func SetCanProfileResolver(f func(*http.Request, string, string) bool) {
	mu.Lock()
	canProfileResolver = f
	mu.Unlock()
}

// SetDefaultsProvider sets the callback whose values are merged into every
// page's data. Keys already set by the handler win.
func SetDefaultsProvider(f func(*http.Request) map[string]any) {
	mu.Lock()
	defaultsProvider = f
	mu.Unlock()
}

// SetLocation sets the zone used by the "date" template func.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	mu.Lock()
	location = loc
	mu.Unlock()
}

// SetDevMode disables the template cache so edits show up on reload.
func SetDevMode(dev bool) {
	mu.Lock()
	devMode = dev
	mu.Unlock()
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	mu.Lock()
	baseDir = filepath.Clean(path)
	tplCache = map[string]*template.Template{}
	mu.Unlock()
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	mu.Lock()
	tplCache = map[string]*template.Template{}
	baseDir = ""
	mu.Unlock()
}

func templatesDir() string {
	mu.RLock()
	dir := baseDir
	mu.RUnlock()
	if dir != "" {
		return dir
	}
	for _, c := range []string{"templates", "../templates", "../../templates", "../../../templates"} {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			dir = filepath.Clean(c)
			break
		}
	}
	if dir == "" {
		dir = "templates"
	}
	mu.Lock()
	baseDir = dir
	mu.Unlock()
	return dir
}

// Funcs returns the template helpers bound to r.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.LangFromContext(r.Context())
	mu.RLock()
	can := canProfileResolver
	loc := location
	mu.RUnlock()
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"can": func(resource, action string) bool {
			return can != nil && can(r, resource, action)
		},
		"year":  func() int { return time.Now().Year() },
		"asset": versionedAsset,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format(dateLayout)
		},
		"label":   func(c models.Choices, value string) string { return c.Label(value) },
		"choices": func(field string) models.Choices { return models.FieldChoices[field] },
		"labelOf": func(field, value string) string { return models.FieldChoices[field].Label(value) },
		"ouiNon": func(b bool) string {
			if b {
				return i18n.T(lang, "yes")
			}
			return i18n.T(lang, "no")
		},
		"checked": func(on bool) template.HTMLAttr {
			if on {
				return "checked"
			}
			return ""
		},
		"selected": func(current, value string) template.HTMLAttr {
			if current == value {
				return "selected"
			}
			return ""
		},
		"has": func(values []string, v string) bool { return slices.Contains(values, v) },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// versionedAsset returns /static/<name>?v=<hash> for cache busting.
func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	b, err := os.ReadFile(filepath.Join("static", rel))
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
}

// Render executes the named page inside layout.html with every partial
// available. Templates under fragments/ and full documents are rendered alone.
// Output is buffered so that a failing template never sends a partial page.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Year"]; !ok {
		data["Year"] = time.Now().Year()
	}
	if _, ok := data["IsLoggedIn"]; !ok {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	mu.RLock()
	defaults := defaultsProvider
	mu.RUnlock()
	// Fragments must not consume flashes meant for the next full page.
	if defaults != nil && !isFragment(name) {
		for k, v := range defaults(r) {
			if _, ok := data[k]; !ok {
				data[k] = v
			}
		}
	}

	t, err := lookup(r, name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = buf.WriteTo(w)
	return err
}

// lookup parses name, using the cache outside dev mode. Cached templates keep
// the funcs of the first request; per-request funcs are rebound on a clone.
func lookup(r *http.Request, name string) (*template.Template, error) {
	mu.RLock()
	cached, ok := tplCache[name]
	dev := devMode
	mu.RUnlock()
	if ok && !dev {
		c, err := cached.Clone()
		if err != nil {
			return nil, err
		}
		return c.Funcs(Funcs(r)), nil
	}

	t, err := parse(r, name)
	if err != nil {
		return nil, err
	}
	if !dev {
		mu.Lock()
		tplCache[name] = t
		mu.Unlock()
		return t.Clone()
	}
	return t, nil
}

func parse(r *http.Request, name string) (*template.Template, error) {
	dir := templatesDir()
	mainPath := filepath.Join(dir, name)
	content, err := os.ReadFile(mainPath)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	funcs := Funcs(r)

	standalone := isFragment(name) ||
		bytes.Contains(bytes.ToLower(content), []byte("<!doctype"))
	layoutPath := filepath.Join(dir, "layout.html")
	if _, err := os.Stat(layoutPath); err != nil {
		standalone = true
	}
	if standalone {
		return template.New(filepath.Base(name)).Funcs(funcs).ParseFiles(mainPath)
	}

	partials, err := filepath.Glob(filepath.Join(dir, "partials", "*.html"))
	if err != nil {
		return nil, err
	}
	files := append([]string{layoutPath, mainPath}, partials...)
	t, err := template.New("layout.html").Funcs(funcs).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

func isFragment(name string) bool {
	return strings.HasPrefix(filepath.ToSlash(name), FragmentDir+"/")
}
