package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/spf13/afero"
)

// ScriptFileName is the transcript written into every task directory.
const ScriptFileName = "script.txt"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// AudioFileName names the narration audio for a scene.
func AudioFileName(sceneID int) string {
	return fmt.Sprintf("audio_%d.mp3", sceneID)
}

// ImageFileName names the illustration for a scene.
func ImageFileName(sceneID int) string {
	return fmt.Sprintf("image_%d.jpg", sceneID)
}

// Store owns the artifact tree rooted at one directory.
type Store struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// NewStore creates a Store rooted at root on fs. The root is created lazily.
func NewStore(fsys afero.Fs, root string, logger *slog.Logger) (*Store, error) {
	if fsys == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		fs:     fsys,
		root:   filepath.Clean(root),
		logger: logger.With("component", "storage"),
	}, nil
}

// Fs returns the filesystem the store writes to.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Root returns the cleaned root directory.
func (s *Store) Root() string {
	return s.root
}

// TaskDir returns the directory owned by taskID.
func (s *Store) TaskDir(taskID uuid.UUID) string {
	return filepath.Join(s.root, taskID.String())
}

// ArchivePath returns where the zip archive for taskID lives.
func (s *Store) ArchivePath(taskID uuid.UUID) string {
	return filepath.Join(s.root, taskID.String()+".zip")
}

// Provision creates the directory for taskID and returns its path.
// Provisioning an existing directory is not an error.
func (s *Store) Provision(taskID uuid.UUID) (string, error) {
	if taskID == uuid.Nil {
		return "", NewStorageError("provision", s.root, domain.ErrInvalidID)
	}
	dir := s.TaskDir(taskID)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", NewStorageError("provision", dir, err)
	}
	s.logger.Debug("task directory provisioned", "task_id", taskID, "dir", dir)
	return dir, nil
}

// FormatScript renders the human-readable transcript of script.
func FormatScript(script *domain.Script) string {
	var sb strings.Builder
	title := script.Title
	if strings.TrimSpace(title) == "" {
		title = domain.DefaultScriptTitle
	}
	fmt.Fprintf(&sb, "Title: %s\n\n", title)
	for _, scene := range script.Scenes {
		fmt.Fprintf(&sb, "Scene %d:\n", scene.ID)
		fmt.Fprintf(&sb, "Narration: %s\n", scene.Narration)
		fmt.Fprintf(&sb, "Visual: %s\n\n", scene.VisualPrompt)
	}
	return sb.String()
}

// SaveScript writes the transcript into dir and returns its path.
func (s *Store) SaveScript(dir string, script *domain.Script) (string, error) {
	if script == nil {
		return "", NewStorageError("save script", dir, domain.ErrEmptyContent)
	}
	path := filepath.Join(dir, ScriptFileName)
	if err := afero.WriteFile(s.fs, path, []byte(FormatScript(script)), filePerm); err != nil {
		return "", NewStorageError("save script", path, err)
	}
	return path, nil
}

// Archive packs the task directory into <root>/<taskID>.zip and returns the
// archive path. Entries are named relative to the task directory.
func (s *Store) Archive(taskID uuid.UUID) (string, error) {
	dir := s.TaskDir(taskID)
	if ok, err := afero.DirExists(s.fs, dir); err != nil || !ok {
		return "", NewStorageError("archive", dir, ErrArtifactNotFound)
	}

	dest := s.ArchivePath(taskID)
	tmp := dest + ".tmp"
	if err := s.writeArchive(dir, tmp); err != nil {
		_ = s.fs.Remove(tmp)
		return "", NewStorageError("archive", dest, err)
	}
	if err := s.fs.Rename(tmp, dest); err != nil {
		_ = s.fs.Remove(tmp)
		return "", NewStorageError("archive", dest, err)
	}

	s.logger.Debug("task archived", "task_id", taskID, "archive", dest)
	return dest, nil
}

func (s *Store) writeArchive(dir, dest string) (err error) {
	out, err := s.fs.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	walkErr := afero.Walk(s.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return s.addToArchive(zw, path, filepath.ToSlash(rel), info)
	})
	if walkErr != nil {
		_ = zw.Close()
		return walkErr
	}
	return zw.Close()
}

func (s *Store) addToArchive(zw *zip.Writer, path, name string, info fs.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	in, err := s.fs.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	_, err = io.Copy(w, in)
	return err
}

// OpenArchive opens the archive of taskID for reading. The caller closes it.
func (s *Store) OpenArchive(taskID uuid.UUID) (afero.File, fs.FileInfo, error) {
	path := s.ArchivePath(taskID)
	f, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, filepath.Base(path))
		}
		return nil, nil, NewStorageError("open archive", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, NewStorageError("open archive", path, err)
	}
	return f, info, nil
}
