// Package handlers render provides HTTP response and HTMX utilities.
package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// RenderResponse renders Templ components to HTTP responses.
func RenderResponse(ctx context.Context, w http.ResponseWriter, r *http.Request, component templ.Component) {
	RenderStatus(ctx, w, r, http.StatusOK, component)
}

// RenderStatus renders component with status. The component is rendered before
// anything is written so a render failure can still become a 500.
func RenderStatus(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteHTML(w, status, buf.Bytes())
}

// WriteHTML writes pre-rendered markup.
func WriteHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}

// Navigate sends the client to location: HX-Redirect for HTMX requests,
// 303 See Other otherwise so a form POST is followed by a GET.
func Navigate(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// IsHTMXRequest checks if the request came from HTMX.
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
