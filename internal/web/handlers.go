package web

import (
	"net/http"
	"path/filepath"

	"github.com/hpungsan/rankwatch/internal/ops"
	"github.com/hpungsan/rankwatch/internal/session"
)

// Handlers contains HTTP route handlers for the dashboard UI.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
	guard    *session.Guard
}

// NewHandlers wires the handlers over the shared environment. The route
// guard's redirect-once latch re-arms on every session state change, so each
// identity epoch gets at most one login redirect.
func NewHandlers(env *ops.Env, renderer *Renderer) *Handlers {
	h := &Handlers{
		env:      env,
		renderer: renderer,
		guard:    &session.Guard{},
	}
	env.Session.Subscribe(func(session.State) { h.guard.Reset() })
	return h
}

// requireAuth gates a protected view on the route guard's decision: a
// neutral loading page before hydration, the view itself when authenticated,
// a redirect to the login view the first time an identity epoch is turned
// away, and the login form rendered in place after that (no redirect loop).
func (h *Handlers) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := h.env.Session.Snapshot()
		switch h.guard.Evaluate(st) {
		case session.DecisionPending:
			h.renderer.renderPage(w, "loading", struct{ PageData }{h.renderer.page("Loading", "", st)})
		case session.DecisionAllow:
			next(w, r)
		case session.DecisionRedirectLogin:
			http.Redirect(w, r, "/login", http.StatusFound)
		default: // DecisionDeny: the redirect for this epoch was already issued
			h.renderer.renderPageStatus(w, http.StatusForbidden, "login", FormPageData{
				PageData: h.renderer.page("Login", "", st),
			})
		}
	}
}

// HandleDashboard handles GET /dashboard, the keyword list for the current
// mode. Open to guests; a fetch failure renders inline rather than replacing
// the page.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	data := DashboardPageData{
		PageData:  h.renderer.page("Keywords", "dashboard", st),
		GuestNote: st.Mode == session.ModeGuest,
	}

	result, err := ops.ListKeywords(r.Context(), h.env)
	if err != nil {
		data.FetchErr = "Could not load keywords."
	} else {
		data.Items = result.Items
	}

	h.renderer.renderPage(w, "dashboard", data)
}

// HandleDetail handles GET /keywords/{id}, the keyword detail view.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	result, err := ops.KeywordDetail(r.Context(), h.env, ops.KeywordDetailInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, st, err)
		return
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData:  h.renderer.page(result.Detail.Query, "", st),
		Keyword:   result.Detail,
		NotesHTML: renderNotes(result.Detail),
	})
}

// HandleLoginForm handles GET /login.
func (h *Handlers) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	h.renderer.renderPage(w, "login", FormPageData{
		PageData: h.renderer.page("Login", "", st),
	})
}

// HandleLogin handles POST /login.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, st, err)
		return
	}

	_, err := ops.Login(r.Context(), h.env, ops.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.renderer.renderPageStatus(w, http.StatusUnauthorized, "login", FormPageData{
			PageData: h.renderer.page("Login", "", st),
			Error:    actionMessage("login", err),
			Values:   map[string]string{"email": r.PostFormValue("email")},
		})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleRegisterForm handles GET /register.
func (h *Handlers) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	h.renderer.renderPage(w, "register", FormPageData{
		PageData: h.renderer.page("Register", "", st),
	})
}

// HandleRegister handles POST /register.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, st, err)
		return
	}

	_, err := ops.Register(r.Context(), h.env, ops.RegisterInput{
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	})
	if err != nil {
		h.renderer.renderPageStatus(w, http.StatusBadRequest, "register", FormPageData{
			PageData: h.renderer.page("Register", "", st),
			Error:    actionMessage("register", err),
			Values:   map[string]string{"email": r.PostFormValue("email")},
		})
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleNewForm handles GET /keywords/new.
func (h *Handlers) HandleNewForm(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	h.renderer.renderPage(w, "new", FormPageData{
		PageData: h.renderer.page("New keyword", "new", st),
	})
}

// HandleCreate handles POST /keywords. The created keyword's detail view
// performs a fresh fetch; nothing is pre-populated here.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, st, err)
		return
	}

	result, err := ops.CreateKeyword(r.Context(), h.env, ops.CreateKeywordInput{
		Query:         r.PostFormValue("query"),
		Category:      r.PostFormValue("category"),
		TargetNames:   r.PostFormValue("target_names"),
		TargetDomains: r.PostFormValue("target_domains"),
		Notes:         r.PostFormValue("notes"),
	})
	if err != nil {
		h.renderer.renderPageStatus(w, http.StatusBadRequest, "new", FormPageData{
			PageData: h.renderer.page("New keyword", "new", st),
			Error:    actionMessage("create", err),
			Values: map[string]string{
				"query":          r.PostFormValue("query"),
				"category":       r.PostFormValue("category"),
				"target_names":   r.PostFormValue("target_names"),
				"target_domains": r.PostFormValue("target_domains"),
				"notes":          r.PostFormValue("notes"),
			},
		})
		return
	}

	http.Redirect(w, r, "/keywords/"+result.Keyword.ID, http.StatusSeeOther)
}

// HandleCrawl handles POST /keywords/{id}/crawl: trigger a re-crawl and
// return to the view that asked for it.
func (h *Handlers) HandleCrawl(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	_, err := ops.TriggerCrawl(r.Context(), h.env, ops.TriggerCrawlInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, st, err)
		return
	}

	back := r.Referer()
	if back == "" {
		back = "/dashboard"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleExport handles GET /export: stream the CSV to the browser under the
// name derived from the backend's Content-Disposition.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	st := h.env.Session.Snapshot()
	guest := st.Mode == session.ModeGuest

	result, err := h.env.Client.Export(r.Context(), guest)
	if err != nil {
		h.renderer.renderError(w, st, err)
		return
	}

	name := ops.ExtractFilename(result.ContentDisposition)
	if name == "" {
		name = ops.DefaultExportName
		if guest {
			name = ops.DefaultGuestExportName
		}
	}
	name = filepath.Base(name)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(result.Data)
}

// HandleLogout handles POST /logout.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := ops.Logout(r.Context(), h.env); err != nil {
		h.renderer.renderError(w, h.env.Session.Snapshot(), err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
