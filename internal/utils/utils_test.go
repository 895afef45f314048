package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestOpenInputs(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.txt")
	if err := os.WriteFile(train, []byte("a b c\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := OpenInputs(train)
	if err != nil {
		t.Fatalf("OpenInputs: %v", err)
	}
	if files[0].Size != 6 {
		t.Errorf("size = %d, want 6", files[0].Size)
	}
	files[0].Close()

	missing := filepath.Join(dir, "test.txt")
	_, err = OpenInputs(train, missing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	msg := err.Error()
	if !strings.Contains(msg, "train.txt (is present)") || !strings.Contains(msg, "test.txt (is missing") {
		t.Errorf("error does not describe both files: %v", err)
	}

	if _, err := OpenInput(dir); err == nil {
		t.Error("expected error when opening a directory")
	}
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{
		"i": int64(3),
		"f": 0.5,
		"b": true,
		"s": "x",
	}
	if v, ok := ExtractInt(data, "i"); !ok || v != 3 {
		t.Errorf("ExtractInt = (%v, %v)", v, ok)
	}
	if v, ok := ExtractFloat(data, "f"); !ok || v != 0.5 {
		t.Errorf("ExtractFloat = (%v, %v)", v, ok)
	}
	if v, ok := ExtractFloat(data, "i"); !ok || v != 3 {
		t.Errorf("ExtractFloat(int) = (%v, %v)", v, ok)
	}
	if v, ok := Extract[bool](data, "b"); !ok || !v {
		t.Errorf("Extract[bool] = (%v, %v)", v, ok)
	}
	if v, ok := Extract[string](data, "s"); !ok || v != "x" {
		t.Errorf("Extract[string] = (%v, %v)", v, ok)
	}
	if _, ok := Extract[string](data, "i"); ok {
		t.Error("Extract[string] accepted an integer")
	}
}

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	pr := newPathResolver(filepath.Join(home, "bin", "ngramserve"), home)

	path, err := pr.GetConfigPath("ngramserve.toml")
	if err != nil {
		t.Fatalf("GetConfigPath: %v", err)
	}
	dir := filepath.Dir(path)
	if filepath.Base(path) != "ngramserve.toml" || dir != filepath.Join(home, ".config", "ngramserve") {
		t.Errorf("unexpected config path %s", path)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("config dir %s was not created: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Errorf("write probe left behind: %v", entries)
	}
	if got := pr.GetHistoryPath(); got != filepath.Join(dir, "history") {
		t.Errorf("history path = %s", got)
	}
}

func TestSaveTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	type section struct {
		Order int `toml:"max_order"`
	}
	if err := SaveTOMLFile(map[string]section{"trie": {Order: 3}}, path); err != nil {
		t.Fatalf("SaveTOMLFile: %v", err)
	}
	data, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery: %v", err)
	}
	trie, ok := Extract[map[string]any](data, "trie")
	if !ok {
		t.Fatalf("trie section missing in %v", data)
	}
	if v, ok := ExtractInt(trie, "max_order"); !ok || v != 3 {
		t.Errorf("max_order = %v, %v", v, ok)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
	if err := SaveTOMLFile(1, filepath.Join(t.TempDir(), "missing", "x.toml")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestReadMemUsage(t *testing.T) {
	before := ReadMemUsage()
	buf := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		buf = append(buf, make([]byte, 64*1024))
	}
	after := ReadMemUsage()
	if after.HeapAlloc <= before.HeapAlloc {
		t.Errorf("heap did not grow: %d -> %d", before.HeapAlloc, after.HeapAlloc)
	}
	runtime.KeepAlive(buf)
	if d := deltaMB(2*bytesOneMB, bytesOneMB); d != -1 {
		t.Errorf("deltaMB = %v, want -1", d)
	}
}
