// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExtractAll writes every regular-file entry of the archive into dstDir in
// archive order. Exactly Size bytes are copied per entry; the zero padding in
// a final content block is never written to the output.
//
// Output paths join the ustar prefix field (when present) with the name
// field. When a name occurs several times, each later occurrence overwrites
// the earlier output, so only the most recently appended version remains
// after extraction completes. Non-regular entries are skipped.
//
// Extraction is sequential: archive order is what makes duplicate shadowing
// deterministic.
func ExtractAll(ctx context.Context, archivePath string, dstDir string, opts ExtractOptions) error {
	opts.applyDefaults()

	if ctx == nil {
		ctx = context.Background()
	}

	matcher, err := newEntryMatcher(opts.Include, opts.MatcherOptions)
	if err != nil {
		return err
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("%w: resolve output dir: %w", ErrIO, err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive %s: %w", ErrIO, archivePath, err)
	}
	defer func() { _ = f.Close() }()

	copyBuf := make([]byte, blockSize)
	s := NewScanner(f)
	for s.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := s.Entry()
		if !entry.IsRegular() {
			continue
		}

		if err := extractEntry(f, dstRootAbs, entry, opts, matcher, copyBuf); err != nil {
			return err
		}
	}

	return s.Err()
}

// extractEntry materializes one entry under the destination root.
// Content is read through a section of the archive bounded to exactly
// entry.Size bytes, leaving block padding behind.
func extractEntry(
	src io.ReaderAt,
	dstRootAbs string,
	entry EntryInfo,
	opts ExtractOptions,
	matcher *entryMatcher,
	copyBuf []byte,
) error {
	outRel := entry.OutputPath()
	if !opts.RawNames {
		normalized, err := normalizeExtractEntryPath(outRel)
		if err != nil {
			return fmt.Errorf("%w: entry %q", err, outRel)
		}

		outRel = normalized
	}

	if !matcher.Match(outRel) {
		return nil
	}

	outPath := filepath.Join(dstRootAbs, filepath.FromSlash(outRel))
	if opts.MakeParentDirs {
		if dir := filepath.Dir(outPath); dir != dstRootAbs {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("%w: create output directory %s: %w", ErrIO, dir, err)
			}
		}
	}

	out, err := openExtractFile(outPath, opts.FileMode)
	if err != nil {
		return fmt.Errorf("%w: open output for %q: %w", ErrIO, entry.Name, err)
	}

	content := io.NewSectionReader(src, entry.DataOffset, entry.Size)
	written, copyErr := copyEntryContent(out, content, copyBuf)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, outPath, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, outPath, closeErr)
	}
	if written != entry.Size {
		return fmt.Errorf("%w: entry %q content is short (%d/%d bytes)", ErrFormat, entry.Name, written, entry.Size)
	}

	if opts.OnEntryDone != nil {
		opts.OnEntryDone(entry, written, outPath)
	}

	return nil
}

// openExtractFile opens an output path according to the selected file mode.
func openExtractFile(path string, mode ExtractFileMode) (*os.File, error) {
	switch mode {
	case ExtractFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}

		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	case ExtractFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	case ExtractFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	default:
		return nil, fmt.Errorf("unknown extract file mode %q", mode)
	}
}

// copyEntryContent copies one bounded entry stream to the output file using
// the shared one-block buffer.
func copyEntryContent(dst *os.File, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		return 0, io.ErrShortBuffer
	}

	var total int64
	for {
		readN, readErr := src.Read(buf)
		if readN > 0 {
			writeN, writeErr := dst.Write(buf[:readN])
			total += int64(writeN)

			if writeErr != nil {
				return total, writeErr
			}
			if writeN != readN {
				return total, io.ErrShortWrite
			}
		}

		if readErr == nil {
			continue
		}
		if readErr == io.EOF {
			return total, nil
		}

		return total, readErr
	}
}
