// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutOctal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		width int
		value int64
		want  string
	}{
		{name: "small in 8", width: 8, value: 0o644, want: "0000644\x00"},
		{name: "zero in 8", width: 8, value: 0, want: "0000000\x00"},
		{name: "size in 12", width: 12, value: 3, want: "00000000003\x00"},
		{name: "large in 12", width: 12, value: 0o17777777777, want: "17777777777\x00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			field := make([]byte, tc.width)
			putOctal(field, tc.value)
			if got := string(field); got != tc.want {
				t.Fatalf("putOctal(%d) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestParseOctal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		field  string
		want   int64
		wantOK bool
	}{
		{name: "plain", field: "00000000003\x00", want: 3, wantOK: true},
		{name: "leading spaces", field: "  0000644\x00", want: 0o644, wantOK: true},
		{name: "padding after digits", field: "0017\x00garbage", want: 0o17, wantOK: true},
		{name: "stops at non octal digit", field: "12958", want: 0o12, wantOK: true},
		{name: "no digits", field: "\x00\x00\x00", wantOK: false},
		{name: "only spaces", field: "        ", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parseOctal([]byte(tc.field))
			if ok != tc.wantOK {
				t.Fatalf("parseOctal(%q) ok=%v, want %v", tc.field, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("parseOctal(%q) = %d, want %d", tc.field, got, tc.want)
			}
		})
	}
}

func TestIsEndOfArchiveBlock(t *testing.T) {
	t.Parallel()

	block := make([]byte, blockSize)
	if !isEndOfArchiveBlock(block) {
		t.Fatal("all-zero block must be an end-of-archive block")
	}

	block[blockSize-1] = 1
	if isEndOfArchiveBlock(block) {
		t.Fatal("block with a non-zero byte must not be an end-of-archive block")
	}
}

func TestFillHeader_Layout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("Hi\n"), 0o644); err != nil {
		t.Fatalf("write member: %v", err)
	}

	var block [blockSize]byte
	if err := fillHeader(block[:], path); err != nil {
		t.Fatalf("fillHeader: %v", err)
	}

	if got := cstring(block[nameOff : nameOff+nameLen]); got != path {
		t.Fatalf("name field=%q, want %q", got, path)
	}
	if got := string(block[magicOff : magicOff+magicLen]); got != "ustar\x00" {
		t.Fatalf("magic field=%q, want %q", got, "ustar\x00")
	}
	if got := block[versionOff : versionOff+versionLen]; !bytes.Equal(got, []byte("00")) {
		t.Fatalf("version field=%q, want raw bytes %q", got, "00")
	}
	if block[typeFlagOff] != typeFlagRegular {
		t.Fatalf("typeflag=%q, want %q", block[typeFlagOff], typeFlagRegular)
	}
	if got := string(block[sizeOff : sizeOff+sizeLen]); got != "00000000003\x00" {
		t.Fatalf("size field=%q, want %q", got, "00000000003\x00")
	}
	if got := cstring(block[prefixOff : prefixOff+prefixLen]); got != "" {
		t.Fatalf("prefix field=%q, want empty: the write path never splits long names", got)
	}

	mtime, ok := parseOctal(block[mtimeOff : mtimeOff+mtimeLen])
	if !ok || mtime <= 0 {
		t.Fatalf("mtime field=%q must parse to a positive value", block[mtimeOff:mtimeOff+mtimeLen])
	}
}

func TestFillHeader_ChecksumSelfConsistent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAB}, 700), 0o600); err != nil {
		t.Fatalf("write member: %v", err)
	}

	var block [blockSize]byte
	if err := fillHeader(block[:], path); err != nil {
		t.Fatalf("fillHeader: %v", err)
	}

	if err := verifyChecksum(block[:]); err != nil {
		t.Fatalf("verifyChecksum on fresh header: %v", err)
	}

	stored, ok := parseOctal(block[chksumOff : chksumOff+chksumLen])
	if !ok {
		t.Fatal("checksum field must parse as octal")
	}
	if computed := int64(checksum(block[:])); computed != stored {
		t.Fatalf("recomputed checksum %07o != stored %07o", computed, stored)
	}
}

func TestUpdateChecksum_BlanksFieldBeforeSumming(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write member: %v", err)
	}

	var block [blockSize]byte
	if err := fillHeader(block[:], path); err != nil {
		t.Fatalf("fillHeader: %v", err)
	}

	// Poison the stored checksum; recomputation must not depend on it.
	copy(block[chksumOff:chksumOff+chksumLen], "7777777\x00")
	updateChecksum(block[:])

	if err := verifyChecksum(block[:]); err != nil {
		t.Fatalf("verifyChecksum after poisoned field: %v", err)
	}
}

func TestVerifyChecksum_Mismatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write member: %v", err)
	}

	var block [blockSize]byte
	if err := fillHeader(block[:], path); err != nil {
		t.Fatalf("fillHeader: %v", err)
	}

	block[nameOff] ^= 0xFF
	if err := verifyChecksum(block[:]); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat on corrupted header, got %v", err)
	}
}

func TestFillHeader_TruncatesLongName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	longName := strings.Repeat("a", 120) + ".txt"
	path := filepath.Join(dir, longName)
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write member: %v", err)
	}

	var block [blockSize]byte
	if err := fillHeader(block[:], path); err != nil {
		t.Fatalf("fillHeader: %v", err)
	}

	got := cstring(block[nameOff : nameOff+nameLen])
	if got != path[:nameLen] {
		t.Fatalf("name field=%q, want first %d bytes of %q", got, nameLen, path)
	}
}

func TestFillHeader_MissingFile(t *testing.T) {
	t.Parallel()

	var block [blockSize]byte
	err := fillHeader(block[:], filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrMetadata) {
		t.Fatalf("expected ErrMetadata, got %v", err)
	}
}

func TestParseHeader_UnparsableSize(t *testing.T) {
	t.Parallel()

	var block [blockSize]byte
	putString(block[nameOff:nameOff+nameLen], "bad.bin")
	copy(block[sizeOff:sizeOff+sizeLen], "not-a-size\x00")

	if _, err := parseHeader(block[:]); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}
