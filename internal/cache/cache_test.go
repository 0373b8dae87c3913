package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func TestContentKey_StableAndDistinct(t *testing.T) {
	a := ContentKey("note content")
	b := ContentKey("note content")
	c := ContentKey("different content")

	if a != b {
		t.Error("same content produced different keys")
	}
	if a == c {
		t.Error("different content produced the same key")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, found)
	}

	if _, found := c.Get("missing"); found {
		t.Error("Get returned a value for a missing key")
	}
}

func TestDiskCache_PersistsAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	first := NewDiskCache(dir, time.Hour)
	if err := first.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second := NewDiskCache(dir, time.Hour)
	got, found := second.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %v", got, found)
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get("k"); found {
		t.Error("Get returned an expired entry")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	// Populate disk out of band, then read through the layered cache.
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Hour)
	got, found := layered.Get("k")
	if !found || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, found)
	}

	// Second read should come from memory even if disk is cleared.
	if err := disk.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, found = layered.Get("k")
	if !found || string(got) != "v" {
		t.Errorf("Get after disk clear = %q, %v", got, found)
	}
}
