package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lotr/lang"
	"github.com/ardnew/lotr/log"
)

type (
	kongContextKey struct{}
	scriptPathKey  struct{}
	streamsKey     struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(kongContextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, or "" if undefined.
func kongVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

// WithScriptPath returns a new context.Context carrying the directories
// searched for scripts named without a path.
func WithScriptPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, scriptPathKey{}, dirs)
}

func scriptPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(scriptPathKey{}).([]string)

	return dirs
}

// Streams are the standard streams used by commands.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands read and write
// the given streams instead of the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// scriptExt lists the suffixes tried when resolving a script name.
//
//nolint:gochecknoglobals
var scriptExt = []string{"", ".yaml", ".yml"}

// resolveScript returns the path of the script named name.
//
// A name that is an existing file is returned unchanged. Otherwise each
// directory of dirs is searched, in order, for name with or without one of
// the known extensions.
func resolveScript(name string, dirs []string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !strings.ContainsRune(name, filepath.Separator) {
		for _, dir := range dirs {
			for _, ext := range scriptExt {
				path := filepath.Join(dir, name+ext)
				if isFile(path) {
					return path, nil
				}
			}
		}
	}

	return "", ErrScriptNotFound.With(
		slog.String("script", name),
		slog.Any("path", dirs),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// loadScript resolves and decodes the script named name.
func loadScript(ctx context.Context, name string) (*lang.Script, error) {
	path, err := resolveScript(name, scriptPathFrom(ctx))
	if err != nil {
		return nil, err
	}

	root, err := lang.DecodeFile(path)
	if err != nil {
		return nil, ErrLoadScript.Wrap(err).With(slog.String("path", path))
	}

	log.DebugContext(ctx, "script loaded",
		slog.String("path", path),
		slog.String("root", root.String()),
	)

	scriptName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return lang.NewScript(root,
		lang.WithName(scriptName),
		lang.WithLogger(log.Default()),
	), nil
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readInput reads the lines of every source, in order, into one buffer.
//
// An empty source list reads stdin. All occurrences of "-" are replaced with
// a single stdin reader placed after all regular files, and files reached
// more than once through different paths are read once.
func readInput(ctx context.Context, sources []string) ([]string, error) {
	stdin := streamsFrom(ctx).In

	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	files, hasStdin, err := openSources(sources)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	if err != nil {
		return nil, err
	}

	readers := make([]io.Reader, 0, len(files)+1)
	for _, f := range files {
		readers = append(readers, f)
	}

	if hasStdin {
		readers = append(readers, stdin)
	}

	var lines []string

	for _, r := range readers {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, ErrReadInput.Wrap(err)
		}

		lines = append(lines, splitLines(string(data))...)
	}

	return lines, nil
}

// openSources opens each named file once.
// Stdin is reported rather than opened.
func openSources(sources []string) (files []*os.File, hasStdin bool, err error) {
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	stdinInfo, statErr := os.Stdin.Stat()
	if statErr == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(src, seen)
		if err != nil {
			return files, hasStdin, ErrReadInput.Wrap(err).
				With(slog.String("file", src))
		}

		if file == nil {
			continue
		}

		// A named file may be the same device as stdin (e.g. /dev/stdin).
		if statErr == nil && key == stdinKey && key != (fileKey{}) {
			_ = file.Close()
			hasStdin = true

			continue
		}

		files = append(files, file)
	}

	return files, hasStdin, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It returns a nil file for duplicates.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	if info.IsDir() {
		return nil, fileKey{}, &fs.PathError{
			Op:   "read",
			Path: path,
			Err:  errors.New("is a directory"),
		}
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// splitLines splits text on '\n', dropping one trailing '\r' from each line.
// A final newline does not start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// writeLines writes each line followed by '\n'.
func writeLines(w io.Writer, lines []string) error {
	var b strings.Builder

	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}
