// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"fmt"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// memberStat carries the filesystem metadata a member header is built from.
type memberStat struct {
	uname    string
	gname    string
	size     int64
	mode     int64
	uid      int64
	gid      int64
	mtime    int64
	devMajor int64
	devMinor int64
}

// statMember gathers header metadata for one member path. Both the stat call
// and the numeric-to-symbolic owner/group resolution must succeed.
func statMember(path string) (memberStat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return memberStat{}, fmt.Errorf("%w: stat %s: %w", ErrMetadata, path, err)
	}

	owner, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10))
	if err != nil {
		return memberStat{}, fmt.Errorf("%w: look up owner name of %s: %w", ErrMetadata, path, err)
	}

	group, err := user.LookupGroupId(strconv.FormatUint(uint64(st.Gid), 10))
	if err != nil {
		return memberStat{}, fmt.Errorf("%w: look up group name of %s: %w", ErrMetadata, path, err)
	}

	return memberStat{
		uname:    owner.Username,
		gname:    group.Name,
		size:     st.Size,
		mode:     int64(st.Mode),
		uid:      int64(st.Uid),
		gid:      int64(st.Gid),
		mtime:    st.Mtim.Sec,
		devMajor: int64(unix.Major(uint64(st.Dev))),
		devMinor: int64(unix.Minor(uint64(st.Dev))),
	}, nil
}
