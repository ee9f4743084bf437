// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/sec"
)

// ProfileResolver adapts a [ProfileStore] to the authorization gate.
type ProfileResolver struct {
	profiles ProfileStore
}

// NewProfileResolver creates a [ProfileResolver].
func NewProfileResolver(profiles ProfileStore) *ProfileResolver {
	return &ProfileResolver{profiles: profiles}
}

// ResolveIdentity returns the current principal for id, or nil when no
// profile exists.
func (resolver *ProfileResolver) ResolveIdentity(ctx context.Context, id string) (*sec.Principal, error) {
	profile, err := resolver.profiles.FindByID(ctx, id)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}

	principal := profile.Principal()
	return &principal, nil
}
