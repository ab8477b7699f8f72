package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kanolab/patternshop/internal/order"
	"github.com/kanolab/patternshop/internal/policy"
	"github.com/kanolab/patternshop/internal/store"
	"github.com/kanolab/patternshop/internal/wire"
)

type indexEntry struct {
	Title      string
	ControlURL string
	DPURL      string
}

type indexView struct {
	Entries []indexEntry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var view indexView
	for _, cat := range s.registry.Categories() {
		view.Entries = append(view.Entries, indexEntry{
			Title:      cat.Title,
			ControlURL: s.links.Link(cat.ID, wire.StepProducts, order.SelectionState{Variant: order.VariantControl}),
			DPURL:      s.links.Link(cat.ID, wire.StepProducts, order.SelectionState{Variant: order.VariantDP}),
		})
	}
	s.render(w, "index", view)
}

// category resolves the {category} route param before the page handler
// runs. Unknown ids are a plain 404.
func (s *Server) category(h func(http.ResponseWriter, *http.Request, *order.Category)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, ok := s.registry.Lookup(chi.URLParam(r, "category"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r, cat)
	}
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request, cat *order.Category) {
	variant := order.ResolveVariant(r.URL.Query().Get(wire.ParamVariant))
	view := policy.BuildProducts(cat, variant, s.links)

	s.record(w, r, store.Event{
		CategoryID: cat.ID,
		Step:       string(wire.StepProducts),
		Type:       store.EventStepView,
		Variant:    variant,
		State:      order.SelectionState{Variant: variant},
	})
	s.render(w, "products", view)
}

func (s *Server) handleShipping(w http.ResponseWriter, r *http.Request, cat *order.Category) {
	st := s.decode(r, cat)
	view := policy.BuildShipping(cat, st, s.links)

	s.record(w, r, store.Event{
		CategoryID: cat.ID,
		Step:       string(wire.StepShipping),
		Type:       store.EventStepView,
		Variant:    st.Variant,
		State:      view.Effective,
		TotalYen:   view.Breakdown.TotalYen,
	})
	s.render(w, "shipping", view)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request, cat *order.Category) {
	st := s.decode(r, cat)
	revealed := r.URL.Query().Get(wire.RevealParam) == "1"
	view := policy.BuildConfirm(cat, st, revealed, s.links)

	typ := store.EventStepView
	if revealed {
		typ = store.EventReveal
	}
	s.record(w, r, store.Event{
		CategoryID: cat.ID,
		Step:       string(wire.StepConfirm),
		Type:       typ,
		Variant:    st.Variant,
		State:      view.Effective,
		TotalYen:   view.Breakdown.TotalYen,
	})
	s.render(w, "confirm", view)
}

func (s *Server) decode(r *http.Request, cat *order.Category) order.SelectionState {
	q := r.URL.Query()
	variant := order.ResolveVariant(q.Get(wire.ParamVariant))
	return wire.Decode(q, cat, wire.DefaultsFor(cat.Policy(variant)))
}

// record appends a funnel event, best effort. Recording failures are
// logged and never surface to the visitor.
func (s *Server) record(w http.ResponseWriter, r *http.Request, ev store.Event) {
	if s.events == nil {
		return
	}
	ev.SessionToken = s.session(w, r)
	if _, err := s.events.Append(r.Context(), ev); err != nil {
		s.log.Warn("event append failed",
			"session", ev.SessionToken, "category", ev.CategoryID, "step", ev.Step, "err", err)
	}
}

// session returns the funnel token from the cookie, minting one when the
// visitor has none yet.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token := s.newToken()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
