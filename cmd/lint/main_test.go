package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCleanTree(t *testing.T) {
	root := writeBank(t, map[string]string{
		"index.md": `---
id: index
type: index
title: Graph index
status: curated
---

Body.
`,
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-root", root, "-log-provider", "noop"}, &stdout, &stderr)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", exitOK, code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "OK: 1 nodes across 1 files") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestRunFindingsExitCode(t *testing.T) {
	root := writeBank(t, map[string]string{
		"index.md": `---
id: index
type: index
title: Graph index
status: curated
---

See the [ghost](missing.md).
`,
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-root", root, "-log-provider", "noop"}, &stdout, &stderr)

	if code != exitFindings {
		t.Fatalf("expected exit %d, got %d", exitFindings, code)
	}
	if !strings.Contains(stdout.String(), "broken_link") {
		t.Fatalf("finding missing from output: %q", stdout.String())
	}
}

func TestRunMissingRootExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-root", filepath.Join(t.TempDir(), "absent"), "-log-provider", "noop"}, &stdout, &stderr)

	if code != exitFatal {
		t.Fatalf("expected exit %d, got %d", exitFatal, code)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected a diagnostic on stderr")
	}
}

func TestRunFailOnWarnings(t *testing.T) {
	root := writeBank(t, map[string]string{
		"tasks/DEV-001.md": `---
id: DEV-001
type: dev_task
title: Ship incremental sync
status: curated
related:
  - release-1.2
---

Body.
`,
		"project/release-1.2.md": `---
id: release-1.2
type: release_review
title: Release 1.2 review
status: curated
release: "1.2"
---

Body.
`,
	})

	var stdout, stderr bytes.Buffer
	args := []string{"-root", root, "-log-provider", "noop"}

	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("warnings alone must exit %d, got %d (stdout: %s)", exitOK, code, stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run(append(args, "-fail-on-warnings"), &stdout, &stderr); code != exitFindings {
		t.Fatalf("-fail-on-warnings must exit %d, got %d", exitFindings, code)
	}

	configPath := filepath.Join(t.TempDir(), "notegraph.yml")
	config := "root: " + root + "\nfail_on_warnings: true\nlogging:\n  provider: noop\n"
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"-config", configPath}, &stdout, &stderr); code != exitFindings {
		t.Fatalf("fail_on_warnings from config must exit %d, got %d (stdout: %s)", exitFindings, code, stdout.String())
	}
}

func TestRunJSONFormat(t *testing.T) {
	root := writeBank(t, map[string]string{
		"index.md": `---
id: index
type: index
title: Graph index
status: curated
---

Body.
`,
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-root", root, "-format", "json", "-log-provider", "noop"}, &stdout, &stderr)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}

	var decoded map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if _, ok := decoded["stats"]; !ok {
		t.Fatalf("stats missing from JSON report: %s", stdout.String())
	}
}

func TestRunUnknownFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-format", "yaml"}, &stdout, &stderr); code != exitFatal {
		t.Fatalf("expected exit %d for unknown format, got %d", exitFatal, code)
	}
}

func TestRunExcludeFlagRepeatable(t *testing.T) {
	root := writeBank(t, map[string]string{
		"index.md": `---
id: index
type: index
title: Graph index
status: curated
---

Body.
`,
		"archive/bad.md": "no frontmatter\n",
		"drafts/bad.md":  "no frontmatter\n",
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-root", root,
		"-exclude", "archive/**",
		"-exclude", "drafts/**",
		"-log-provider", "noop",
	}, &stdout, &stderr)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d (stdout: %s)", exitOK, code, stdout.String())
	}
}

func TestRunConfigFile(t *testing.T) {
	root := writeBank(t, map[string]string{
		"index.md": `---
id: index
type: index
title: Graph index
status: curated
---

Body.
`,
	})

	configPath := filepath.Join(t.TempDir(), "notegraph.yml")
	config := "root: " + root + "\nlogging:\n  provider: noop\n"
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", configPath}, &stdout, &stderr); code != exitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", exitOK, code, stderr.String())
	}
}

func writeBank(tb testing.TB, files map[string]string) string {
	tb.Helper()
	root := tb.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			tb.Fatalf("write %s: %v", full, err)
		}
	}
	return root
}
