package uploads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStore_SaveAndPath(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	name, err := store.Save("photo.PNG", strings.NewReader("not-really-a-png"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("expected lowercased .png suffix, got %q", name)
	}
	if name == "photo.PNG" {
		t.Error("stored name must not be the original name")
	}

	path, err := store.Path(name)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "not-really-a-png" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestStore_Save_UniqueNames(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	a, err := store.Save("same.jpg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save a: %v", err)
	}
	b, err := store.Save("same.jpg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if a == b {
		t.Errorf("two uploads of the same name must not collide: %q", a)
	}
}

func TestStore_Save_RejectsBadType(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	if _, err := store.Save("script.sh", strings.NewReader("#!/bin/sh")); !errors.Is(err, ErrBadType) {
		t.Fatalf("expected ErrBadType, got: %v", err)
	}
}

func TestStore_Path_RejectsTraversal(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	for _, name := range []string{"", "../etc/passwd", "a/b.png", ".hidden", string(filepath.Separator) + "abs.png"} {
		if _, err := store.Path(name); !errors.Is(err, ErrBadName) {
			t.Errorf("Path(%q): expected ErrBadName, got %v", name, err)
		}
	}
}
