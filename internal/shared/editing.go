package shared

import "github.com/saep/inventory-console/internal/catalog"

const (
	editingTypeKey = "editing_type"
	editingIDKey   = "editing_id"
)

// EditingMarker records which entity the open form updates. The zero value
// means the form creates a new entity.
type EditingMarker struct {
	Type string
	ID   catalog.ID
}

// Active reports whether an entity is under edit.
func (m EditingMarker) Active() bool {
	return m.Type != "" && m.ID != 0
}

// For returns the id under edit when the marker belongs to entityType.
func (m EditingMarker) For(entityType string) (catalog.ID, bool) {
	if !m.Active() || m.Type != entityType {
		return 0, false
	}
	return m.ID, true
}

// Editing returns the session's marker.
func (s *Session) Editing() EditingMarker {
	if s == nil {
		return EditingMarker{}
	}
	id, err := catalog.ParseID(s.Get(editingIDKey))
	if err != nil {
		return EditingMarker{}
	}
	return EditingMarker{Type: s.Get(editingTypeKey), ID: id}
}

// SetEditing switches the session's forms into update mode.
func (s *Session) SetEditing(m EditingMarker) {
	if s == nil {
		return
	}
	if !m.Active() {
		s.ClearEditing()
		return
	}
	s.Set(editingTypeKey, m.Type)
	s.Set(editingIDKey, m.ID.String())
}

// ClearEditing puts the session's forms back into create mode.
func (s *Session) ClearEditing() {
	if s == nil {
		return
	}
	s.Delete(editingTypeKey)
	s.Delete(editingIDKey)
}
