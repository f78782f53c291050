package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"stockdesk/m/internal/console"
	"stockdesk/m/internal/view"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("console").Funcs(template.FuncMap{
		"sectionPath": view.SectionPath,
		"refreshPath": view.RefreshPath,
		"modalPath":   func(name string) string { return view.ModalPath(name, nil) },
	}).ParseFS(templateFS, "templates/*.gohtml")
}

// panelView paints one container. OOB marks it for an htmx out-of-band swap.
type panelView struct {
	ID        string
	OOB       bool
	Fragment  *view.Fragment
	Dashboard *view.Dashboard
}

func paint(p view.Panel, oob bool) panelView {
	pv := panelView{ID: p.Target(), OOB: oob}
	switch v := p.(type) {
	case view.Fragment:
		pv.Fragment = &v
	case view.Dashboard:
		pv.Dashboard = &v
	}
	return pv
}

func paintAll(panels []view.Panel) []panelView {
	out := make([]panelView, 0, len(panels))
	for _, p := range panels {
		out = append(out, paint(p, true))
	}
	return out
}

type navView struct {
	OOB      bool
	Sections []console.Section
	Active   console.Section
}

type modalView struct {
	OOB     bool
	Modal   *view.Modal
	Confirm *view.Confirm
}

type toastView struct {
	OOB     bool
	Message string
	Class   string
	Delay   int64
}

type pageView struct {
	Auth  bool
	Email string
	Nav   navView
	Slots map[string]panelView
	Modal modalView
	Toast toastView
}

// updateView is an htmx response made only of out-of-band swaps. Nil parts leave
// their element untouched.
type updateView struct {
	Panels []panelView
	Modal  *modalView
	Nav    *navView
	Toast  *toastView
}

type loginView struct {
	Email string
	Error string
}

func closedModal() *modalView {
	return &modalView{OOB: true}
}

// toastSince returns the viewer's toast when it was raised at or after since.
func (h *Handler) toastSince(viewer string, since time.Time) (toastView, bool) {
	t, ok := h.console.Toast(viewer)
	if !ok || t.ShownAt.Before(since) {
		return toastView{Class: "hidden"}, false
	}
	return toastView{Message: t.Message, Class: string(t.Severity), Delay: t.DelayMillis()}, true
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("render template", "template", name, "error", err)
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}
