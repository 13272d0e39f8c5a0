package kde

import (
	"fmt"
	"strings"
)

// The KWin script side of the watcher. It forwards raw activation and
// caption-change events over D-Bus to the receiver object exported by this
// package; all dedup and normalization happens on the Go side. The script
// keeps its own map of hooked windows so a caption hook is wired at most once
// per window.
//
// KWin 6 renamed the activation signal (clientActivated became
// windowActivated); the signal name is resolved once, from the probed major
// version, when the script source is generated.
const scriptTemplate = `var connections = {};

function isActive(client) {
    var current = workspace.activeWindow || workspace.activeClient;
    return current ? String(client.internalId) == String(current.internalId) : false;
}

function report(client, signal) {
    callDBus(
        "%[1]s",
        "%[2]s",
        "%[3]s",
        "RawWindowEvent",
        String(client.internalId),
        String(client.caption),
        String(client.resourceClass),
        String(client.resourceName),
        client.pid !== undefined ? client.pid : -1,
        isActive(client),
        signal
    );
}

function watch(client) {
    var id = String(client.internalId);
    if (connections[id]) {
        return;
    }
    connections[id] = true;
    client.captionChanged.connect(function () {
        report(client, "propertyChanged");
    });
}

function activated(client) {
    if (!client) {
        return;
    }
    watch(client);
    report(client, "activated");
}

workspace.%[4]s.connect(activated);
`

// scriptSource renders the KWin script for the given major version.
func scriptSource(majorVersion int) string {
	signalName := "windowActivated"
	if majorVersion < 6 {
		signalName = "clientActivated"
	}
	return fmt.Sprintf(scriptTemplate, receiverService, receiverPath, receiverInterface, signalName)
}

// parseSupportInformation extracts the major KWin version from the
// supportInformation blob, which contains a line like "KWin version: 5.27.8".
func parseSupportInformation(info string) (int, error) {
	for _, line := range strings.Split(info, "\n") {
		version, found := strings.CutPrefix(line, "KWin version: ")
		if !found {
			continue
		}
		major, _, _ := strings.Cut(strings.TrimSpace(version), ".")
		var n int
		if _, err := fmt.Sscanf(major, "%d", &n); err != nil {
			return 0, fmt.Errorf("invalid KWin version %q", version)
		}
		return n, nil
	}
	return 0, fmt.Errorf("KWin version not found in support information")
}
