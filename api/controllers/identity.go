package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/api/middleware"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

// currentUserID resolves the authenticated user from the request context.
// Handlers behind the auth middleware always have one; a missing value means
// the route was wired without it.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func parseUUID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
