// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"context"
	"fmt"
)

// Update appends new versions of members that are already present in the
// archive. Every member name is checked first; if any is absent the whole
// operation aborts with ErrMemberNotFound before a single byte of the
// archive changes. When all members pass, the full list is delegated to
// Append, so the archive keeps every earlier version and extraction yields
// the most recent one.
//
// The membership gate is all-or-nothing; the append phase itself carries the
// same non-atomicity as Append.
func Update(ctx context.Context, archivePath string, members []string, opts WriteOptions) (*WriteResult, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	for _, member := range members {
		ok, err := Contains(archivePath, member)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, member)
		}
	}

	return Append(ctx, archivePath, members, opts)
}
