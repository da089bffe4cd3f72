// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"bytes"
	"fmt"
	"strconv"
)

// fillHeader populates one 512-byte header block with current filesystem
// metadata for path. The name field is truncated to 100 bytes and the prefix
// field is left empty, so longer paths lose their leading components on write.
// The checksum is computed last, over the otherwise complete block.
func fillHeader(block []byte, path string) error {
	clear(block[:blockSize])

	st, err := statMember(path)
	if err != nil {
		return err
	}

	putString(block[nameOff:nameOff+nameLen], path)
	putOctal(block[modeOff:modeOff+modeLen], st.mode&0o7777)
	putOctal(block[uidOff:uidOff+uidLen], st.uid)
	putOctal(block[gidOff:gidOff+gidLen], st.gid)
	putOctal(block[sizeOff:sizeOff+sizeLen], st.size)
	putOctal(block[mtimeOff:mtimeOff+mtimeLen], st.mtime)
	block[typeFlagOff] = typeFlagRegular
	putString(block[magicOff:magicOff+magicLen], magicValue)
	copy(block[versionOff:versionOff+versionLen], versionValue)
	putString(block[unameOff:unameOff+unameLen], st.uname)
	putString(block[gnameOff:gnameOff+gnameLen], st.gname)
	putOctal(block[devMajorOff:devMajorOff+devMajorLen], st.devMajor)
	putOctal(block[devMinorOff:devMinorOff+devMinorLen], st.devMinor)

	updateChecksum(block)

	return nil
}

// updateChecksum stores the header checksum: the field is blanked to eight
// ASCII spaces first, then every byte of the block is summed as an unsigned
// value. Skipping the blanking step desyncs the sum from standard tar tools.
func updateChecksum(block []byte) {
	for i := chksumOff; i < chksumOff+chksumLen; i++ {
		block[i] = ' '
	}

	putOctal(block[chksumOff:chksumOff+chksumLen], int64(checksum(block)))
}

// checksum sums all 512 header bytes with the checksum field read as spaces.
func checksum(block []byte) uint32 {
	var sum uint32
	for i := 0; i < blockSize; i++ {
		if i >= chksumOff && i < chksumOff+chksumLen {
			sum += uint32(' ')
			continue
		}

		sum += uint32(block[i])
	}

	return sum
}

// verifyChecksum recomputes the header checksum and compares it with the
// stored field value.
func verifyChecksum(block []byte) error {
	stored, ok := parseOctal(block[chksumOff : chksumOff+chksumLen])
	if !ok {
		return fmt.Errorf("%w: unparsable checksum field", ErrFormat)
	}

	if computed := int64(checksum(block)); computed != stored {
		return fmt.Errorf("%w: checksum mismatch (stored %07o, computed %07o)", ErrFormat, stored, computed)
	}

	return nil
}

// parseHeader decodes one non-zero header block into entry metadata.
// Offsets and block counts are filled in by the caller.
func parseHeader(block []byte) (EntryInfo, error) {
	entry := EntryInfo{
		Name:     cstring(block[nameOff : nameOff+nameLen]),
		Prefix:   cstring(block[prefixOff : prefixOff+prefixLen]),
		TypeFlag: block[typeFlagOff],
	}

	size, ok := parseOctal(block[sizeOff : sizeOff+sizeLen])
	if !ok {
		return EntryInfo{}, fmt.Errorf("%w: unparsable size field for %q", ErrFormat, entry.Name)
	}

	entry.Size = size
	entry.Blocks = contentBlocks(size)

	return entry, nil
}

// isEndOfArchiveBlock reports whether every byte of the block is zero.
func isEndOfArchiveBlock(block []byte) bool {
	for _, b := range block {
		if b != 0 {
			return false
		}
	}

	return true
}

// putOctal formats v as zero-padded octal ASCII filling the field up to a
// single trailing NUL, the numeric field convention of the format.
func putOctal(field []byte, v int64) {
	digits := len(field) - 1
	s := strconv.FormatInt(v, 8)
	if len(s) > digits {
		s = s[len(s)-digits:]
	}

	pad := digits - len(s)
	for i := 0; i < pad; i++ {
		field[i] = '0'
	}

	copy(field[pad:], s)
	field[digits] = 0
}

// parseOctal reads a leading run of octal digits after optional spaces.
// Bytes following the first non-digit are tolerated as padding. ok is false
// when the field holds no digits at all.
func parseOctal(field []byte) (v int64, ok bool) {
	i := 0
	for i < len(field) && field[i] == ' ' {
		i++
	}

	start := i
	for i < len(field) && field[i] >= '0' && field[i] <= '7' {
		v = v<<3 | int64(field[i]-'0')
		i++
	}

	return v, i > start
}

// putString copies s into a zero-filled field, truncating to the field width.
func putString(field []byte, s string) {
	copy(field, s)
}

// cstring returns the field contents up to the first NUL.
func cstring(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}

	return string(field)
}
