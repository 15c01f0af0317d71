package installer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/egoavara/codex-plugins/internal/logger"
	"github.com/egoavara/codex-plugins/internal/plugin"
)

// extractZipBytes unpacks archive bytes into a fresh staging directory and
// detects the plugin root inside it. The staging directory is destroyed on
// any failure; on success the caller owns it via stagedSource.Cleanup.
func extractZipBytes(ctx context.Context, data []byte) (*stagedSource, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", plugin.ErrArchiveInvalid, err)
	}

	temp, err := os.MkdirTemp("", "codex-plugin-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	if err := safeExtractZip(ctx, reader, temp); err != nil {
		os.RemoveAll(temp)
		return nil, err
	}

	root, err := detectPluginRoot(temp)
	if err != nil {
		os.RemoveAll(temp)
		return nil, err
	}

	logger.Get().Debug().Str("root", root).Int("entries", len(reader.File)).Msg("archive extracted")
	return &stagedSource{root: root, temp: temp}, nil
}

// safeExtractZip unpacks every entry under dest, refusing entries whose
// path escapes the staging root and entries encoded as symlinks. The
// sanitized-relative-path check and the cleaned-join check are redundant on
// purpose.
func safeExtractZip(ctx context.Context, reader *zip.Reader, dest string) error {
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, ok := sanitizeArchivePath(file.Name)
		if !ok {
			return fmt.Errorf("%w: %s", plugin.ErrArchiveEntryEscapes, file.Name)
		}
		if file.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", plugin.ErrArchiveContainsSymlink, file.Name)
		}

		outPath := filepath.Join(dest, rel)
		if !strings.HasPrefix(outPath, filepath.Clean(dest)+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", plugin.ErrArchiveEntryEscapes, file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(outPath, 0o755); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", outPath, err)
			}
			continue
		}

		parent := filepath.Dir(outPath)
		if parent == "" || parent == "." {
			return fmt.Errorf("%w: entry has no parent dir: %s", plugin.ErrArchiveInvalid, file.Name)
		}
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create dir %s: %w", parent, err)
		}

		if err := writeZipEntry(file, outPath); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(file *zip.File, outPath string) error {
	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", plugin.ErrArchiveInvalid, file.Name, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}

// sanitizeArchivePath normalizes a zip entry name to a relative path that
// stays inside the extraction root. Absolute paths, volume-qualified paths,
// and parent-directory segments are rejected.
func sanitizeArchivePath(name string) (string, bool) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == "." || cleaned == "" {
		return "", false
	}
	if filepath.IsAbs(cleaned) || filepath.VolumeName(cleaned) != "" {
		return "", false
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", false
	}
	return cleaned, true
}

// detectPluginRoot locates the plugin root inside a staging directory: the
// staging root itself when it holds a loadable manifest, else the single
// child directory that does. Zero or multiple candidates is ambiguous.
func detectPluginRoot(staging string) (string, error) {
	if _, err := plugin.LoadManifest(staging); err == nil {
		return staging, nil
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", fmt.Errorf("failed to read staging dir %s: %w", staging, err)
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(staging, entry.Name())
		if _, err := plugin.LoadManifest(path); err == nil {
			candidates = append(candidates, path)
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return "", fmt.Errorf("%w: in extracted archive", plugin.ErrManifestNotFound)
}
