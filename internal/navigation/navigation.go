// Package navigation tracks which console section is active and which modals
// are open.
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"
)

// ErrUnknownSection is returned when a section id is not registered.
var ErrUnknownSection = errors.New("navigation: unknown section")

// Section ids.
const (
	SectionDashboard     = "dashboard"
	SectionProducts      = "produtos"
	SectionStock         = "estoque"
	SectionCategories    = "categorias"
	SectionManufacturers = "fabricantes"
	SectionSpecSheets    = "ficha-tecnica"
)

// Section is one entry of the sidebar. Modal is the id of the section's
// entity form, empty for the dashboard.
type Section struct {
	ID     string
	Title  string
	Icon   string
	Modal  string
	Active bool
}

// Path is the section's console URL.
func (s Section) Path() string {
	return "/" + s.ID
}

var sections = []Section{
	{ID: SectionDashboard, Title: "Dashboard", Icon: "chart"},
	{ID: SectionProducts, Title: "Gerenciar Produtos", Icon: "box", Modal: "produto"},
	{ID: SectionStock, Title: "Gerenciar Estoque", Icon: "warehouse", Modal: "estoque"},
	{ID: SectionCategories, Title: "Gerenciar Categorias", Icon: "tags", Modal: "categoria"},
	{ID: SectionManufacturers, Title: "Gerenciar Fabricantes", Icon: "industry", Modal: "fabricante"},
	{ID: SectionSpecSheets, Title: "Gerenciar Fichas Técnicas", Icon: "file", Modal: "ficha-tecnica"},
}

// Sections returns the sidebar entries in display order, none active.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Lookup finds a section by id.
func Lookup(id string) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Nav is the sidebar state for one rendered page.
type Nav struct {
	Sections []Section
}

// Activate marks id as the only active section.
func Activate(id string) (Nav, error) {
	if _, ok := Lookup(id); !ok {
		return Nav{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	nav := Nav{Sections: Sections()}
	for i := range nav.Sections {
		nav.Sections[i].Active = nav.Sections[i].ID == id
	}
	return nav, nil
}

// Active returns the active section.
func (n Nav) Active() (Section, bool) {
	for _, s := range n.Sections {
		if s.Active {
			return s, true
		}
	}
	return Section{}, false
}

// ModalQueryKey is the query parameter carrying open modal ids.
const ModalQueryKey = "modal"

// Modals tracks open dialogs. The shared overlay is shown while at least one
// is open.
type Modals struct {
	open map[string]struct{}
}

// NewModals returns an empty modal set.
func NewModals() *Modals {
	return &Modals{open: map[string]struct{}{}}
}

// ModalsFromQuery restores the modals named in the query that are also in
// allowed. Other ids are ignored.
func ModalsFromQuery(q url.Values, allowed ...string) *Modals {
	m := NewModals()
	for _, raw := range q[ModalQueryKey] {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id != "" && slices.Contains(allowed, id) {
				m.Open(id)
			}
		}
	}
	return m
}

// Open shows a modal.
func (m *Modals) Open(id string) {
	if m.open == nil {
		m.open = map[string]struct{}{}
	}
	m.open[id] = struct{}{}
}

// Close hides a modal. Closing one that is not open is a no-op.
func (m *Modals) Close(id string) {
	delete(m.open, id)
}

// IsOpen reports whether id is shown.
func (m *Modals) IsOpen(id string) bool {
	if m == nil {
		return false
	}
	_, ok := m.open[id]
	return ok
}

// OverlayActive reports whether the shared overlay is shown.
func (m *Modals) OverlayActive() bool {
	return m != nil && len(m.open) > 0
}

// IDs lists the open modals, sorted.
func (m *Modals) IDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, len(m.open))
	for id := range m.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Query encodes the open modals as a query string, empty when none is open.
func (m *Modals) Query() string {
	ids := m.IDs()
	if len(ids) == 0 {
		return ""
	}
	return url.Values{ModalQueryKey: {strings.Join(ids, ",")}}.Encode()
}

// Reopen is the URL of section with its entity form modal open, or the plain
// section path when the section has no form.
func Reopen(s Section) string {
	if s.Modal == "" {
		return s.Path()
	}
	m := NewModals()
	m.Open(s.Modal)
	return s.Path() + "?" + m.Query()
}
