package web

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"reflect"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/keyword"
	"github.com/hpungsan/rankwatch/internal/session"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "dashboard", "new"
	Mode    session.Mode
	User    *keyword.User
}

// DashboardPageData is the template data for the keyword list page.
type DashboardPageData struct {
	PageData
	Items     []keyword.Summary
	FetchErr  string
	GuestNote bool
}

// DetailPageData is the template data for the keyword detail page.
type DetailPageData struct {
	PageData
	Keyword   *keyword.Detail
	NotesHTML template.HTML
}

// FormPageData is the template data for the login, register, and new-keyword
// forms.
type FormPageData struct {
	PageData
	Error  string
	Values map[string]string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"flagLabel": flagLabel,
		"deref":     deref,
		"hasValue":  hasValue,
		"join":      joinComma,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"dashboard": "dashboard.html",
		"detail":    "detail.html",
		"login":     "login.html",
		"register":  "register.html",
		"new":       "new.html",
		"loading":   "loading.html",
		"error":     "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// page builds the common fields from the current session snapshot.
func (r *Renderer) page(title, nav string, st session.State) PageData {
	return PageData{
		Title:   title,
		Version: r.version,
		Nav:     nav,
		Mode:    st.Mode,
		User:    st.User,
	}
}

// renderPage renders a named page template with HTTP 200.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders the error page for a failed operation.
func (r *Renderer) renderError(w http.ResponseWriter, st session.State, err error) {
	var rwErr *errors.Error
	if !stderrors.As(err, &rwErr) {
		rwErr = errors.NewInternal(err)
	}

	status := rwErr.Status
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}

	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), "", st),
		StatusCode: status,
		Message:    rwErr.Message,
	})
}

// renderNotes converts the keyword's markdown notes to HTML using goldmark.
func renderNotes(detail *keyword.Detail) template.HTML {
	if detail.Notes == nil || *detail.Notes == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(*detail.Notes), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(*detail.Notes))
	}
	return template.HTML(buf.String())
}

// flagLabel renders a possibly-nil flag as its display label.
func flagLabel(f *keyword.Flag) string {
	if f == nil {
		return "-"
	}
	return f.Label()
}

// joinComma joins a string slice for display, "-" when empty.
func joinComma(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}

// deref dereferences a pointer, returning the zero value if nil.
func deref(v any) any {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return rv.Elem().Interface()
	}
	return v
}

// hasValue checks if a pointer value is non-nil.
func hasValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return true
}

// actionMessage maps an operation error to the single user-facing message
// for that action. Validation details pass through; everything else gets one
// localized line per action, and the user must re-submit.
func actionMessage(action string, err error) string {
	var rwErr *errors.Error
	if stderrors.As(err, &rwErr) && rwErr.Code == errors.ErrValidationFailed {
		return rwErr.Message
	}
	switch action {
	case "login":
		return "Login failed. Check your email and password."
	case "register":
		return "Registration failed. The email may already be in use."
	case "create":
		return "Could not create the keyword."
	case "crawl":
		return "Could not trigger the crawl."
	case "export":
		return "CSV export failed. Please try again shortly."
	default:
		return "The request failed. Please try again."
	}
}
