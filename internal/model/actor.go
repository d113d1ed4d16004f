package model

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidActor = errors.New("invalid actor")

type ActorRole string

const (
	RoleClient   ActorRole = "client"
	RoleProvider ActorRole = "provider"
	RoleAdmin    ActorRole = "admin"
)

// Actor is the caller of an operation, as verified upstream.
type Actor struct {
	ID   uuid.UUID
	Role ActorRole
}

func ParseActorRole(s string) (ActorRole, error) {
	switch r := ActorRole(s); r {
	case RoleClient, RoleProvider, RoleAdmin:
		return r, nil
	}
	return "", ErrInvalidActor
}

func (a Actor) Validate() error {
	if a.ID == uuid.Nil {
		return ErrInvalidActor
	}
	if _, err := ParseActorRole(string(a.Role)); err != nil {
		return err
	}
	return nil
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
