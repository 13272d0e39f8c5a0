// Package desktop resolves an application id (a window's resource name, like
// "org.kde.kate") to display information from freedesktop .desktop entries.
package desktop

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Info is the extra information a desktop entry supplies for an app id.
type Info struct {
	// AppName is the human-readable Name= value, e.g. "Kate".
	AppName string

	// ProcessPath is the first token of the Exec= line, e.g. "/usr/bin/kate".
	ProcessPath string
}

// Index scans XDG application directories once and answers id lookups from
// the scanned set.
type Index struct {
	byID map[string]Info
}

// NewIndex reads every .desktop file under the standard application dirs.
// Unreadable directories and malformed entries are skipped; an empty index is
// usable, every lookup just misses.
func NewIndex() *Index {
	idx := &Index{byID: make(map[string]Info)}
	for _, dir := range applicationDirs() {
		idx.scanDir(dir)
	}
	return idx
}

// Lookup finds the entry whose desktop-file id matches appID, case-insensitively.
func (x *Index) Lookup(appID string) (Info, bool) {
	info, ok := x.byID[strings.ToLower(appID)]
	return info, ok
}

// Len reports how many entries were indexed.
func (x *Index) Len() int {
	return len(x.byID)
}

func applicationDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}

	return dirs
}

func (x *Index) scanDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".desktop") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		info, ok := parseFile(path)
		if !ok {
			continue
		}

		id := strings.ToLower(strings.TrimSuffix(e.Name(), ".desktop"))
		// First match wins so XDG_DATA_HOME shadows system dirs.
		if _, exists := x.byID[id]; !exists {
			x.byID[id] = info
		}
	}
}

func parseFile(path string) (Info, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, false
	}
	defer f.Close()

	return parseEntry(f)
}

// parseEntry extracts Name= and Exec= from the [Desktop Entry] group of an
// INI-style desktop file.
func parseEntry(r io.Reader) (Info, bool) {
	var info Info
	inEntryGroup := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			inEntryGroup = line == "[Desktop Entry]"
			continue
		}
		if !inEntryGroup {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			if info.AppName == "" {
				info.AppName = strings.TrimSpace(value)
			}
		case "Exec":
			if info.ProcessPath == "" {
				info.ProcessPath = execPath(strings.TrimSpace(value))
			}
		}
	}

	if info.AppName == "" && info.ProcessPath == "" {
		return Info{}, false
	}
	return info, true
}

// execPath returns the executable token of an Exec= value, dropping field
// codes like %U and any arguments.
func execPath(exec string) string {
	fields := strings.Fields(exec)
	for _, f := range fields {
		if strings.HasPrefix(f, "%") {
			continue
		}
		// env VAR=... prefixes precede the real binary.
		if f == "env" || strings.Contains(f, "=") {
			continue
		}
		return f
	}
	return ""
}
