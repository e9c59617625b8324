// Package view holds the server-side document model that the synchronizer
// toggles and the templ components that render it.
package view

import (
	"sync"

	"github.com/miapp/portal/internal/core/domain"
)

// Element is the render state of one region.
type Element struct {
	Visible bool
	Text    string
}

// Document is the set of regions present on a page. It satisfies
// ports.ViewBinding; operations on regions it does not contain are ignored.
type Document struct {
	mu       sync.RWMutex
	elements map[domain.Region]*Element
}

// NewDocument returns a document containing regions, all visible and empty.
func NewDocument(regions ...domain.Region) *Document {
	d := &Document{elements: make(map[domain.Region]*Element, len(regions))}
	for _, r := range regions {
		d.elements[r] = &Element{Visible: true}
	}
	return d
}

// HomeDocument is the landing page: both navs and the worker call-to-action.
func HomeDocument() *Document {
	return NewDocument(domain.RegionGuestNav, domain.RegionLoggedNav, domain.RegionUserName, domain.RegionHeroWorker)
}

// NavDocument is any other page: navs only.
func NavDocument() *Document {
	return NewDocument(domain.RegionGuestNav, domain.RegionLoggedNav, domain.RegionUserName)
}

func (d *Document) Show(r domain.Region) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[r]; ok {
		el.Visible = true
	}
}

func (d *Document) Hide(r domain.Region) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[r]; ok {
		el.Visible = false
	}
}

func (d *Document) SetText(r domain.Region, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[r]; ok {
		el.Text = text
	}
}

// Has reports whether the page contains r.
func (d *Document) Has(r domain.Region) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.elements[r]
	return ok
}

// Element returns a copy of the region's state and whether it exists.
func (d *Document) Element(r domain.Region) (Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[r]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

// Visible reports whether r exists and is shown.
func (d *Document) Visible(r domain.Region) bool {
	el, ok := d.Element(r)
	return ok && el.Visible
}

// Text returns the text of r, or "" when absent.
func (d *Document) Text(r domain.Region) string {
	el, _ := d.Element(r)
	return el.Text
}
