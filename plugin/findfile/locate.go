package findfile

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/speechkit/errors"
)

type folder struct {
	xdgVar string
	dir    string
}

var commonFolders = map[string]folder{
	"downloads": {"XDG_DOWNLOAD_DIR", "Downloads"},
	"desktop":   {"XDG_DESKTOP_DIR", "Desktop"},
	"videos":    {"XDG_VIDEOS_DIR", "Videos"},
	"music":     {"XDG_MUSIC_DIR", "Music"},
	"pictures":  {"XDG_PICTURES_DIR", "Pictures"},
	"documents": {"XDG_DOCUMENTS_DIR", "Documents"},
}

// Locator searches common folders. The zero value uses the process
// environment.
type Locator struct {
	Getenv  func(string) string
	HomeDir func() (string, error)
	WorkDir func() (string, error)
}

// NewLocator returns a Locator backed by the process environment.
func NewLocator() *Locator {
	return &Locator{Getenv: os.Getenv, HomeDir: os.UserHomeDir, WorkDir: os.Getwd}
}

// FolderNames lists the accepted common folder names besides "" and ".".
func FolderNames() []string {
	return []string{"user", "downloads", "desktop", "videos", "music", "pictures", "documents"}
}

// FolderPath resolves a common folder name to a directory path. The
// directory is not required to exist.
func (l *Locator) FolderPath(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", ".":
		return l.workDir()
	case "user":
		return l.homeDir()
	}

	f, ok := commonFolders[key]
	if !ok {
		return "", errors.InvalidInput("commonFolderName",
			"unknown common folder "+name+"; use one of "+strings.Join(FolderNames(), ", "))
	}
	home, err := l.homeDir()
	if err != nil {
		return "", err
	}
	if v := l.getenv(f.xdgVar); v != "" {
		return os.Expand(v, func(k string) string {
			if k == "HOME" {
				return home
			}
			return l.getenv(k)
		}), nil
	}
	return filepath.Join(home, f.dir), nil
}

// LocateFile searches folderName recursively for fileName and returns the
// absolute path of the first match in walk order. fileName may be a glob
// pattern such as "*.m4a".
func (l *Locator) LocateFile(ctx context.Context, fileName, folderName string) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", errors.InvalidInput("fileName", "the file name is required")
	}
	if strings.ContainsAny(fileName, `/\`) {
		return "", errors.InvalidInput("fileName", "the file name must not contain a path")
	}
	if _, err := filepath.Match(fileName, ""); err != nil {
		return "", errors.InvalidInput("fileName", "the file name is not a valid pattern").WithCause(err)
	}

	root, err := l.FolderPath(folderName)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", errors.NotFound("folder", folderName).
			WithDetail("path", root).
			WithCause(err)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return "", errors.Internal(err)
	}

	found, err := search(ctx, root, fileName)
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", errors.NotFound("file", fileName).WithDetail("path", root)
	}
	return found, nil
}

var errFound = stderrors.New("found")

func search(ctx context.Context, root, pattern string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			// unreadable entries are skipped
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			found = path
			return errFound
		}
		return nil
	})

	switch {
	case err == nil, stderrors.Is(err, errFound):
		return found, nil
	case stderrors.Is(err, context.Canceled):
		return "", errors.Canceled("locate file", err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return "", errors.Timeout("locate file").WithCause(err)
	default:
		return "", errors.Internal(err)
	}
}

func (l *Locator) getenv(k string) string {
	if l.Getenv == nil {
		return os.Getenv(k)
	}
	return l.Getenv(k)
}

func (l *Locator) homeDir() (string, error) {
	f := l.HomeDir
	if f == nil {
		f = os.UserHomeDir
	}
	home, err := f()
	if err != nil {
		return "", errors.NotFound("folder", "user").WithCause(err)
	}
	return home, nil
}

func (l *Locator) workDir() (string, error) {
	f := l.WorkDir
	if f == nil {
		f = os.Getwd
	}
	wd, err := f()
	if err != nil {
		return "", errors.Internal(err)
	}
	return wd, nil
}
