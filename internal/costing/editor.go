package costing

import (
	"errors"
	"strings"
)

// ErrInvalidTransition reports an editor transition the state machine does not allow.
var ErrInvalidTransition = errors.New("costing: invalid editor transition")

// EditorMode is the screen an entity editor is on.
type EditorMode string

const (
	ModeViewing  EditorMode = "viewing"
	ModeCreating EditorMode = "creating"
	ModeEditing  EditorMode = "editing"
)

// EditorState is shared by the material and recipe editors. ID is only set
// while editing.
type EditorState struct {
	Mode EditorMode `json:"mode"`
	ID   string     `json:"id,omitempty"`
}

// Viewing is the initial editor state.
func Viewing() EditorState {
	return EditorState{Mode: ModeViewing}
}

// Normalize maps the zero value and unknown modes to Viewing.
func (s EditorState) Normalize() EditorState {
	switch s.Mode {
	case ModeCreating:
		return EditorState{Mode: ModeCreating}
	case ModeEditing:
		if strings.TrimSpace(s.ID) != "" {
			return s
		}
	}
	return Viewing()
}

// Create moves Viewing to Creating.
func (s EditorState) Create() (EditorState, error) {
	if s.Normalize().Mode != ModeViewing {
		return s, ErrInvalidTransition
	}
	return EditorState{Mode: ModeCreating}, nil
}

// Edit moves Viewing to Editing(id).
func (s EditorState) Edit(id string) (EditorState, error) {
	id = strings.TrimSpace(id)
	if s.Normalize().Mode != ModeViewing || id == "" {
		return s, ErrInvalidTransition
	}
	return EditorState{Mode: ModeEditing, ID: id}, nil
}

// Saved returns to Viewing after a successful save.
func (s EditorState) Saved() (EditorState, error) {
	if s.Normalize().Mode == ModeViewing {
		return s, ErrInvalidTransition
	}
	return Viewing(), nil
}

// Rejected keeps the current form open after a failed save.
func (s EditorState) Rejected() (EditorState, error) {
	if s.Normalize().Mode == ModeViewing {
		return s, ErrInvalidTransition
	}
	return s.Normalize(), nil
}

// Cancel abandons the form and returns to Viewing.
func (s EditorState) Cancel() (EditorState, error) {
	if s.Normalize().Mode == ModeViewing {
		return s, ErrInvalidTransition
	}
	return Viewing(), nil
}

// Open reports whether a form is being edited.
func (s EditorState) Open() bool {
	return s.Normalize().Mode != ModeViewing
}
