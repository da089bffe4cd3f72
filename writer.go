// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// Create writes a new archive at archivePath holding every member in list
// order and finishes with the two-zero-block end-of-archive marker. An
// existing file at archivePath is overwritten.
//
// Any failure aborts immediately; a partially written archive may be left on
// disk. Create performs no rollback.
func Create(ctx context.Context, archivePath string, members []string, opts WriteOptions) (*WriteResult, error) {
	opts.applyDefaults()

	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	f, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create archive %s: %w", ErrIO, archivePath, err)
	}
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	res, err := writeMembers(ctx, f, 0, members, opts)
	if err != nil {
		return nil, err
	}

	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("%w: sync archive %s: %w", ErrIO, archivePath, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: close archive %s: %w", ErrIO, archivePath, err)
	}
	f = nil

	return res, nil
}

// Append adds new members to an existing archive. The archive must already
// end in the two-zero-block marker. Append runs three phases: drop the
// trailing footer by truncation, append header and content blocks for each
// member exactly as Create does, then write a fresh footer.
//
// The sequence is not atomic. A failure between phases leaves the archive
// without a valid footer; callers needing stronger guarantees must serialize
// access externally or copy-and-replace around the call.
func Append(ctx context.Context, archivePath string, members []string, opts WriteOptions) (*WriteResult, error) {
	opts.applyDefaults()

	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	fi, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat archive %s: %w", ErrIO, archivePath, err)
	}
	if fi.Size() < footerSize {
		return nil, fmt.Errorf("%w: archive %s is shorter than the end-of-archive marker", ErrFormat, archivePath)
	}

	// Phase 1: drop the footer so new members continue the member sequence.
	appendOffset := fi.Size() - footerSize
	if err := os.Truncate(archivePath, appendOffset); err != nil {
		return nil, fmt.Errorf("%w: drop footer of %s: %w", ErrIO, archivePath, err)
	}

	// Phase 2 and 3: append members, then rewrite the footer.
	f, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: reopen archive %s: %w", ErrIO, archivePath, err)
	}
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	res, err := writeMembers(ctx, f, appendOffset, members, opts)
	if err != nil {
		return nil, err
	}

	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("%w: sync archive %s: %w", ErrIO, archivePath, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: close archive %s: %w", ErrIO, archivePath, err)
	}
	f = nil

	return res, nil
}

// writeMembers is the shared writer core for Create and Append: the member
// sequence starting at startOffset, then the end-of-archive marker.
func writeMembers(
	ctx context.Context,
	out io.Writer,
	startOffset int64,
	members []string,
	opts WriteOptions,
) (*WriteResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	w := bufio.NewWriterSize(out, opts.BufferSize)
	res := &WriteResult{}
	offset := startOffset

	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		written, err := writeMember(w, member, offset, opts, res)
		if err != nil {
			return nil, err
		}

		offset += written
	}

	if err := writeFooter(w); err != nil {
		return nil, err
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("%w: flush archive: %w", ErrIO, err)
	}

	return res, nil
}

// writeMember writes one member header block followed by its content blocks,
// zero-padding the final partial block. It returns the number of archive
// bytes the member occupies.
func writeMember(w *bufio.Writer, member string, offset int64, opts WriteOptions, res *WriteResult) (int64, error) {
	src, err := os.Open(member)
	if err != nil {
		return 0, fmt.Errorf("%w: open member %s: %w", ErrIO, member, err)
	}
	defer func() { _ = src.Close() }()

	var header [blockSize]byte
	if err := fillHeader(header[:], member); err != nil {
		return 0, err
	}

	if _, err := w.Write(header[:]); err != nil {
		return 0, fmt.Errorf("%w: write header of %s: %w", ErrIO, member, err)
	}

	dataBytes, paddingBytes, err := copyMemberContent(w, src, member)
	if err != nil {
		return 0, err
	}

	blocks := contentBlocks(dataBytes)
	res.WrittenMembers++
	res.DataBytes += dataBytes
	res.PaddingBytes += paddingBytes

	if opts.OnEntryDone != nil {
		opts.OnEntryDone(WriteEntryProgress{
			Path:         member,
			Size:         dataBytes,
			Blocks:       blocks,
			HeaderOffset: offset,
		})
	}

	return blockSize + blocks*blockSize, nil
}

// copyMemberContent streams member content into whole 512-byte blocks through
// a single block buffer, so memory use stays constant in member size.
func copyMemberContent(w *bufio.Writer, src io.Reader, member string) (dataBytes, paddingBytes int64, err error) {
	var buf [blockSize]byte
	for {
		n, readErr := io.ReadFull(src, buf[:])
		if n > 0 {
			// Zero-pad a final partial block up to the block boundary.
			clear(buf[n:])
			if _, err := w.Write(buf[:]); err != nil {
				return dataBytes, paddingBytes, fmt.Errorf("%w: write content of %s: %w", ErrIO, member, err)
			}

			dataBytes += int64(n)
			paddingBytes += int64(blockSize - n)
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			return dataBytes, paddingBytes, nil
		}
		if readErr != nil {
			return dataBytes, paddingBytes, fmt.Errorf("%w: read member %s: %w", ErrIO, member, readErr)
		}
	}
}

// writeFooter writes the two all-zero blocks terminating an archive.
func writeFooter(w *bufio.Writer) error {
	var zero [blockSize]byte
	for i := 0; i < footerBlocks; i++ {
		if _, err := w.Write(zero[:]); err != nil {
			return fmt.Errorf("%w: write end-of-archive marker: %w", ErrIO, err)
		}
	}

	return nil
}
