package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/alarke567/alarkey567/internal/contact"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
	"github.com/alarke567/alarkey567/internal/observability"
)

// contactView is shared by the contact page and the htmx form fragment.
type contactView struct {
	Lang      string
	CSRFToken string
	Values    contact.Submission
	Errors    map[string]string
	Failure   string
	Success   bool
	Reference string
	NextURL   string
	Fields    []contactField
}

// contactField is one rendered control of the form.
type contactField struct {
	contact.Field
	Value string
	Error string
}

func contactFields(values contact.Submission, errs map[string]string) []contactField {
	out := make([]contactField, 0, len(contact.Fields))
	for _, f := range contact.Fields {
		out = append(out, contactField{Field: f, Value: values.Value(f.Name), Error: errs[f.Name]})
	}
	return out
}

func (s *server) handleContact(w http.ResponseWriter, r *http.Request) {
	// product pages link here with the product name as subject
	prefill := contact.Submission{Subject: strings.TrimSpace(r.URL.Query().Get("subject"))}
	s.renderContact(w, r, http.StatusOK, contactView{Values: prefill})
}

// handleContactSubmit validates the form, relays it and re-renders the form state.
func (s *server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	logger := observability.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	sub := contact.FromForm(r.PostForm)
	view := contactView{Values: sub}

	if errs := sub.Validate(); errs != nil {
		view.Errors = errs.Localize(s.bundle, lang)
		s.renderContact(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout())
	defer cancel()
	receipt, err := s.contact.Send(ctx, sub, lang)
	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.Bool("unavailable", errors.Is(err, contact.ErrRelayUnavailable))}
		var rerr *contact.RelayError
		if errors.As(err, &rerr) {
			fields = append(fields, zap.Int("relay_status", rerr.Status))
		}
		logger.Warn("contact relay failed", fields...)
		view.Failure = s.bundle.T(lang, "contact.error.generic")
		s.renderContact(w, r, http.StatusBadGateway, view)
		return
	}
	logger.Info("contact submission accepted",
		zap.String("reference", receipt.Reference),
		zap.Bool("relayed", receipt.Relayed))
	s.renderContact(w, r, http.StatusOK, contactView{Success: true, Reference: receipt.Reference, NextURL: receipt.NextURL()})
}

func (s *server) renderContact(w http.ResponseWriter, r *http.Request, status int, view contactView) {
	view.Lang = mw.Lang(r)
	view.CSRFToken = mw.CSRFToken(r)
	if !view.Success {
		view.Fields = contactFields(view.Values, view.Errors)
	}
	if mw.IsHTMX(r.Context()) && r.Method == http.MethodPost {
		s.renderFragment(w, r, "frag_contact_form", status, view)
		return
	}
	vm := s.site.NewPage(r, nav.PageContact, "contact.title", "contact.description", "")
	vm.Body = view
	s.renderPage(w, r, "contact", status, vm)
}
