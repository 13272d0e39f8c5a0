package desktop

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantPath string
		wantOK   bool
	}{
		{
			name: "Standard entry",
			content: `[Desktop Entry]
Type=Application
Name=Kate
Exec=/usr/bin/kate %U
`,
			wantName: "Kate",
			wantPath: "/usr/bin/kate",
			wantOK:   true,
		},
		{
			name: "Exec with env prefix",
			content: `[Desktop Entry]
Name=Firefox
Exec=env MOZ_ENABLE_WAYLAND=1 firefox %u
`,
			wantName: "Firefox",
			wantPath: "firefox",
			wantOK:   true,
		},
		{
			name: "Keys outside the entry group ignored",
			content: `[Desktop Action New]
Name=New Window
Exec=kate --new

[Desktop Entry]
Name=Kate
Exec=kate
`,
			wantName: "Kate",
			wantPath: "kate",
			wantOK:   true,
		},
		{
			name:    "Empty file",
			content: "",
			wantOK:  false,
		},
		{
			name: "Comments and blanks skipped",
			content: `# a comment
[Desktop Entry]

# another
Name=Terminal
`,
			wantName: "Terminal",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := parseEntry(strings.NewReader(tt.content))
			if ok != tt.wantOK {
				t.Fatalf("parseEntry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if info.AppName != tt.wantName {
				t.Errorf("AppName = %q, want %q", info.AppName, tt.wantName)
			}
			if info.ProcessPath != tt.wantPath {
				t.Errorf("ProcessPath = %q, want %q", info.ProcessPath, tt.wantPath)
			}
		})
	}
}

func TestIndexLookup(t *testing.T) {
	dir := t.TempDir()
	appsDir := filepath.Join(dir, "applications")
	if err := os.MkdirAll(appsDir, 0755); err != nil {
		t.Fatal(err)
	}

	content := "[Desktop Entry]\nName=Kate\nExec=/usr/bin/kate %U\n"
	if err := os.WriteFile(filepath.Join(appsDir, "org.kde.kate.desktop"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_DATA_DIRS", dir)

	idx := NewIndex()
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	info, ok := idx.Lookup("org.kde.kate")
	if !ok {
		t.Fatal("Lookup(org.kde.kate) missed")
	}
	if info.AppName != "Kate" {
		t.Errorf("AppName = %q, want Kate", info.AppName)
	}
	if info.ProcessPath != "/usr/bin/kate" {
		t.Errorf("ProcessPath = %q, want /usr/bin/kate", info.ProcessPath)
	}

	// Lookup is case-insensitive: KWin reports resource names in varying case.
	if _, ok := idx.Lookup("Org.KDE.Kate"); !ok {
		t.Error("Lookup is case-sensitive, want case-insensitive match")
	}

	if _, ok := idx.Lookup("unknown.app"); ok {
		t.Error("Lookup(unknown.app) hit, want miss")
	}
}
