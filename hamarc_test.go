package hamarc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hamarc/internal/testutil"
	"hamarc/pkg/progress"
)

func init() {
	progress.SetQuiet(true)
}

func TestArchiveLifecycleScenario(t *testing.T) {
	var n testutil.Narrator
	start := time.Now()
	n.ReportStart("Create, append, delete, extract")

	dir := t.TempDir()
	extractDir := t.TempDir()
	success := false
	defer func() { n.ReportEnd(success, time.Since(start)) }()

	n.StartSection("Preparing input files")
	n.Action("writing three small source files")
	alpha := filepath.Join(dir, "alpha.txt")
	beta := filepath.Join(dir, "beta.txt")
	gamma := filepath.Join(dir, "gamma.txt")
	for path, content := range map[string]string{
		alpha: "alpha contents",
		beta:  "beta contents, a little longer",
		gamma: "gamma",
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}
	n.Success("input files ready")
	n.EndSection()

	n.StartSection("Create")
	archivePath := filepath.Join(dir, "lifecycle.haf")
	ar, err := Open(archivePath, DefaultOptions())
	if err != nil {
		n.Error(err.Error())
		t.Fatalf("Open: %v", err)
	}
	n.Action("creating archive from alpha.txt and beta.txt")
	if err := ar.Create([]string{alpha, beta}); err != nil {
		n.Error(err.Error())
		t.Fatalf("Create: %v", err)
	}
	entries, err := ar.List()
	if err != nil {
		n.Error(err.Error())
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		n.Error("expected 2 entries after create")
		t.Fatalf("List after create returned %d entries, want 2", len(entries))
	}
	n.Success("archive contains alpha.txt and beta.txt")
	n.EndSection()

	n.StartSection("Append")
	n.Action("appending gamma.txt")
	if err := ar.Append([]string{gamma}); err != nil {
		n.Error(err.Error())
		t.Fatalf("Append: %v", err)
	}
	entries, err = ar.List()
	if err != nil {
		n.Error(err.Error())
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		n.Error("expected 3 entries after append")
		t.Fatalf("List after append returned %d entries, want 3", len(entries))
	}
	n.Success("archive now contains 3 entries")
	n.EndSection()

	n.StartSection("Delete")
	n.Action("deleting beta.txt")
	if err := ar.Delete([]string{"beta.txt"}); err != nil {
		n.Error(err.Error())
		t.Fatalf("Delete: %v", err)
	}
	entries, err = ar.List()
	if err != nil {
		n.Error(err.Error())
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		n.Error("expected 2 entries after delete")
		t.Fatalf("List after delete returned %d entries, want 2", len(entries))
	}
	n.Success("beta.txt removed, 2 entries remain")
	n.EndSection()

	n.StartSection("Extract and verify")
	wd, _ := os.Getwd()
	if err := os.Chdir(extractDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	err = ar.Extract(nil)
	os.Chdir(wd)
	if err != nil {
		n.Error(err.Error())
		t.Fatalf("Extract: %v", err)
	}

	gotAlpha, err := os.ReadFile(filepath.Join(extractDir, "alpha.txt"))
	if err != nil || string(gotAlpha) != "alpha contents" {
		n.Error("alpha.txt content mismatch after extract")
		t.Fatalf("alpha.txt = %q, err=%v", gotAlpha, err)
	}
	gotGamma, err := os.ReadFile(filepath.Join(extractDir, "gamma.txt"))
	if err != nil || string(gotGamma) != "gamma" {
		n.Error("gamma.txt content mismatch after extract")
		t.Fatalf("gamma.txt = %q, err=%v", gotGamma, err)
	}
	if _, err := os.Stat(filepath.Join(extractDir, "beta.txt")); err == nil {
		n.Error("beta.txt should not have been extracted")
		t.Fatalf("beta.txt unexpectedly present after delete+extract")
	}
	n.Success("extracted files match expectations")
	n.EndSection()

	success = true
}

func TestOpenRejectsInvalidHammingParameters(t *testing.T) {
	dir := t.TempDir()
	badOpts := Options{DataBits: 0, ParityBits: 4}
	if _, err := Open(filepath.Join(dir, "bad.haf"), badOpts); err == nil {
		t.Fatalf("Open with invalid data bits: want error, got nil")
	}
}
