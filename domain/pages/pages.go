// Package pages models statically generated detail pages and their render states.
package pages

import (
	"net/url"
	"time"
)

// DetailPathPrefix is the route prefix of item detail pages.
const DetailPathPrefix = "/todo/"

// DetailState is the render state of a detail page request.
type DetailState string

const (
	// StateFallbackLoading is served while a page unknown at build time is generated.
	StateFallbackLoading DetailState = "fallback-loading"
	// StateLoaded means the item was resolved and rendered.
	StateLoaded DetailState = "loaded"
	// StateNotFound means the data service has no item with the identifier.
	StateNotFound DetailState = "not-found"
)

// PageSource records how a stored page was produced.
type PageSource string

const (
	SourceBuild    PageSource = "build"
	SourceFallback PageSource = "fallback"
	SourceCreate   PageSource = "create"
)

// StaticPath is one pre-renderable detail page.
type StaticPath struct {
	ID   string
	Path string
}

// NewStaticPath builds the static path for an item identifier.
func NewStaticPath(id string) StaticPath {
	return StaticPath{ID: id, Path: DetailPath(id)}
}

// DetailPath returns the detail route for an item identifier.
func DetailPath(id string) string {
	return DetailPathPrefix + url.PathEscape(id)
}

// PageRecord is a rendered detail page kept by a page store.
type PageRecord struct {
	Path        string
	ItemID      string
	HTML        []byte
	Props       []byte // JSON encoded item the page was rendered from
	Source      PageSource
	GeneratedAt time.Time
}

// DetailPage is the outcome of resolving a detail route.
type DetailPage struct {
	State  DetailState
	Record *PageRecord // set when State is StateLoaded
}
