package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated is returned when an operation has no actor.
	ErrUnauthenticated = errors.New("store: unauthenticated")
	// ErrForbidden is returned when an actor asks for another owner's data without admin rights.
	ErrForbidden = errors.New("store: forbidden")
)

// Identity is the authenticated actor of a request.
type Identity struct {
	UserID uint
	Name   string
	Email  string
	Admin  bool
}

// Authenticated reports whether the identity refers to a stored user.
func (i Identity) Authenticated() bool {
	return i.UserID > 0
}

// Owner identifies whose records a material or recipe belongs to.
type Owner struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// OwnerOf returns the actor as an owner record.
func OwnerOf(actor Identity) Owner {
	name := strings.TrimSpace(actor.Name)
	if name == "" {
		name = actor.Email
	}
	return Owner{ID: actor.UserID, Name: name}
}

// ResolveOwner picks the owner new records are written for. Only admins may
// act as somebody else.
func ResolveOwner(actor Identity, actingAs *Owner) (Owner, error) {
	if !actor.Authenticated() {
		return Owner{}, ErrUnauthenticated
	}
	if actingAs == nil || actingAs.ID == 0 || actingAs.ID == actor.UserID {
		return OwnerOf(actor), nil
	}
	if !actor.Admin {
		return Owner{}, ErrForbidden
	}
	owner := *actingAs
	if strings.TrimSpace(owner.Name) == "" {
		owner.Name = fallbackOwnerName(owner.ID)
	}
	return owner, nil
}

// Scope limits list and lookup queries. A zero OwnerID on an admin scope
// means every owner.
type Scope struct {
	OwnerID uint
	All     bool
}

// ScopeFor derives the read scope of an actor. The owner filter is honoured
// for admins only.
func ScopeFor(actor Identity, ownerFilter uint) (Scope, error) {
	if !actor.Authenticated() {
		return Scope{}, ErrUnauthenticated
	}
	if !actor.Admin {
		return Scope{OwnerID: actor.UserID}, nil
	}
	if ownerFilter == 0 {
		return Scope{All: true}, nil
	}
	return Scope{OwnerID: ownerFilter}, nil
}

func fallbackOwnerName(id uint) string {
	raw := fmt.Sprintf("%d", id)
	if len(raw) > 6 {
		raw = raw[:6]
	}
	return fmt.Sprintf("User (%s...)", raw)
}
