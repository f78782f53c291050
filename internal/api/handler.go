package api

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stockdesk/m/domain"
	"stockdesk/m/internal/apiclient"
	"stockdesk/m/internal/console"
	"stockdesk/m/internal/session"
	"stockdesk/m/internal/view"
)

type ctxKey string

const ctxEmail ctxKey = "email"

// Gateway is the part of the backend the HTTP shell talks to directly.
type Gateway interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	Health(ctx context.Context) error
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	console   *console.Console
	sessions  *session.Manager
	gateway   Gateway
	log       *slog.Logger
	templates *template.Template
}

// New constructs a Handler with parsed templates.
func New(c *console.Console, sessions *session.Manager, gateway Gateway, log *slog.Logger) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{console: c, sessions: sessions, gateway: gateway, log: log, templates: tmpl}, nil
}

// Router wires up the console.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)

		r.Get("/login", h.loginPage)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(pr chi.Router) {
			pr.Use(h.requireSignedIn)

			pr.Get("/", h.index)
			pr.Get("/sections/{section}", h.showSection)
			pr.Get("/sections/{section}/refresh", h.refreshSection)

			pr.Get("/modals/{modal}", h.openModal)
			pr.Post("/modals/{modal}", h.submitModal)
			pr.Post("/modals/{modal}/close", h.closeModal)

			pr.Get("/products/{batch}/delete", h.deleteDialog)
			pr.Post("/products/{batch}/delete", h.deleteProduct)
			pr.Get("/orders/{orderID}/confirm", h.confirmDialog)
			pr.Post("/orders/{orderID}/confirm", h.confirmOrder)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "backend": "ok"}
	if err := h.gateway.Health(r.Context()); err != nil {
		h.log.Warn("backend health check failed", "error", err)
		status["backend"] = "unreachable"
	}
	respondJSON(w, http.StatusOK, status)
}

// requireSignedIn attaches the stored bearer token in the authenticated variant and
// sends anonymous viewers to the login page.
func (h *Handler) requireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.console.Auth() {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := h.sessions.Load(r.Context(), session.ID(r.Context()))
		if err != nil {
			h.log.Error("load session", "error", err)
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		if !sess.SignedIn() {
			h.redirect(w, r, "/login")
			return
		}
		ctx := apiclient.WithToken(r.Context(), sess.Token)
		ctx = context.WithValue(ctx, ctxEmail, sess.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if !h.console.Auth() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess, err := h.sessions.Load(r.Context(), session.ID(r.Context()))
	if err == nil && sess.SignedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "login", loginView{})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.console.Auth() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	sess, err := h.gateway.SignIn(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		h.log.Info("sign in rejected", "email", email, "error", err)
		h.render(w, http.StatusUnauthorized, "login", loginView{Email: email, Error: apiclient.Message(err, "Login failed")})
		return
	}

	sid := session.ID(r.Context())
	if err := h.sessions.Save(r.Context(), sid, sess); err != nil {
		h.log.Error("save session", "error", err)
		http.Error(w, "unable to save session", http.StatusInternalServerError)
		return
	}
	h.console.Forget(sid)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sid := session.ID(r.Context())
	if err := h.sessions.Clear(r.Context(), sid); err != nil {
		h.log.Error("clear session", "error", err)
	}
	h.console.Forget(sid)
	h.redirect(w, r, "/login")
}

// index renders the full page with the requested (or last active) section loaded.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	viewer := session.ID(r.Context())
	name := r.URL.Query().Get("section")
	if name == "" {
		name = h.console.Active(viewer).Name
	}

	page, err := h.console.Activate(r.Context(), viewer, name)
	if errors.Is(err, console.ErrUnknownSection) {
		page, err = h.console.Activate(r.Context(), viewer, h.console.DefaultSection())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := pageView{
		Auth:  h.console.Auth(),
		Nav:   navView{Sections: h.console.Sections(), Active: page.Active},
		Slots: h.emptySlots(),
	}
	data.Email, _ = r.Context().Value(ctxEmail).(string)
	for _, p := range page.Panels {
		data.Slots[p.Target()] = paint(p, false)
	}
	data.Toast, _ = h.toastSince(viewer, time.Time{})
	h.render(w, http.StatusOK, "page", data)
}

func (h *Handler) emptySlots() map[string]panelView {
	slots := map[string]panelView{}
	for _, id := range []string{view.DashboardTarget, view.ProductsTarget, view.DraftsTarget, view.OrdersTarget, view.ExpiryTarget} {
		slots[id] = panelView{ID: id}
	}
	return slots
}

func (h *Handler) showSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	if !isHTMX(r) {
		http.Redirect(w, r, "/?section="+url.QueryEscape(name), http.StatusSeeOther)
		return
	}
	start := time.Now()
	page, err := h.console.Activate(r.Context(), session.ID(r.Context()), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, start, updateView{
		Panels: paintAll(page.Panels),
		Nav:    &navView{OOB: true, Sections: h.console.Sections(), Active: page.Active},
	})
}

func (h *Handler) refreshSection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	out, err := h.console.Refresh(r.Context(), session.ID(r.Context()), chi.URLParam(r, "section"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, start, updateView{Panels: paintAll(out.Panels)})
}

func (h *Handler) openModal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m, err := h.console.OpenModal(session.ID(r.Context()), chi.URLParam(r, "modal"), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, start, updateView{Modal: &modalView{OOB: true, Modal: &m}})
}

func (h *Handler) submitModal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	start := time.Now()
	out, err := h.console.SubmitModal(r.Context(), session.ID(r.Context()), chi.URLParam(r, "modal"), r.PostForm)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.update(w, r, start, outcomeView(out))
}

func (h *Handler) closeModal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	origin := console.OriginCancel
	if r.PostForm.Get("origin") == "backdrop" {
		origin = console.OriginBackdrop
	}
	closed, err := h.console.CloseModal(session.ID(r.Context()), chi.URLParam(r, "modal"), origin, r.PostForm.Get("target"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !closed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.update(w, r, time.Now(), updateView{Modal: closedModal()})
}

func (h *Handler) deleteDialog(w http.ResponseWriter, r *http.Request) {
	dialog := console.DeleteDialog(chi.URLParam(r, "batch"))
	h.update(w, r, time.Now(), updateView{Modal: &modalView{OOB: true, Confirm: &dialog}})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	start := time.Now()
	out, err := h.console.DeleteProduct(r.Context(), session.ID(r.Context()), chi.URLParam(r, "batch"), decision(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u := outcomeView(out)
	u.Modal = closedModal()
	h.update(w, r, start, u)
}

func (h *Handler) confirmDialog(w http.ResponseWriter, r *http.Request) {
	dialog := console.ConfirmOrderDialog(chi.URLParam(r, "orderID"))
	h.update(w, r, time.Now(), updateView{Modal: &modalView{OOB: true, Confirm: &dialog}})
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	start := time.Now()
	out, err := h.console.ConfirmOrder(r.Context(), session.ID(r.Context()), chi.URLParam(r, "orderID"), decision(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u := outcomeView(out)
	u.Modal = closedModal()
	h.update(w, r, start, u)
}

// decision reads the answer posted from a confirmation dialog.
func decision(r *http.Request) func(string) bool {
	return console.Answer(r.PostForm.Get("decision") == "yes")
}

func outcomeView(out console.Outcome) updateView {
	u := updateView{Panels: paintAll(out.Panels)}
	switch {
	case out.Modal != nil:
		u.Modal = &modalView{OOB: true, Modal: out.Modal}
	case out.Closed != "":
		u.Modal = closedModal()
	}
	return u
}

// update writes an out-of-band-only response, adding the toast raised by this
// request if there is one. Browsers without htmx are sent back to the page.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, start time.Time, u updateView) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if t, ok := h.toastSince(session.ID(r.Context()), start); ok {
		t.OOB = true
		u.Toast = &t
	}
	w.Header().Set("HX-Reswap", "none")
	h.render(w, http.StatusOK, "update", u)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, console.ErrSignedOut):
		h.redirect(w, r, "/login")
	case errors.Is(err, console.ErrUnknownSection), errors.Is(err, console.ErrUnknownModal):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("console request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// redirect navigates the whole page, through HX-Redirect for htmx requests.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
