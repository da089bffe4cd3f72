package ustar

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const benchDefaultMembers = 64

var benchListSink int

// createBenchArchive builds an archive of small members and returns its path.
func createBenchArchive(b *testing.B, members int) string {
	b.Helper()

	dir := b.TempDir()
	paths := make([]string, 0, members)
	content := bytes.Repeat([]byte{0xA5}, 700)
	for i := 0; i < members; i++ {
		p := filepath.Join(dir, fmt.Sprintf("member-%03d.bin", i))
		if err := os.WriteFile(p, content, 0o644); err != nil {
			b.Fatal(err)
		}

		paths = append(paths, p)
	}

	archive := filepath.Join(dir, "bench.tar")
	if _, err := Create(context.Background(), archive, paths, WriteOptions{}); err != nil {
		b.Fatal(err)
	}

	return archive
}

func BenchmarkList(b *testing.B) {
	archive := createBenchArchive(b, benchDefaultMembers)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		names, err := List(archive)
		if err != nil {
			b.Fatal(err)
		}

		benchListSink = len(names)
	}
}

func BenchmarkExtractAll(b *testing.B) {
	archive := createBenchArchive(b, benchDefaultMembers)
	opts := ExtractOptions{
		RawNames:       true,
		FileMode:       ExtractFileModeTruncate,
		MakeParentDirs: true,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		out := b.TempDir()
		b.StartTimer()

		if err := ExtractAll(context.Background(), archive, out, opts); err != nil {
			b.Fatal(err)
		}
	}
}
