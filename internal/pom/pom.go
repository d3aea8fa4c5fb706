// Package pom finds the Maven build file that governs a source file.
package pom

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FileName is the Maven project descriptor.
const FileName = "pom.xml"

// DefaultCacheSize is the number of directories Cached remembers.
const DefaultCacheSize = 256

// Locator finds the nearest pom.xml for a file.
type Locator interface {
	// FindNearestPOM returns the path of the closest pom.xml in the file's
	// directory or one of its ancestors, or "" if there is none.
	FindNearestPOM(path string) string
}

// Walker is a Locator that walks up the directory tree on every call.
type Walker struct{}

// FindNearestPOM implements Locator.
func (Walker) FindNearestPOM(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return findFrom(filepath.Dir(abs))
}

func findFrom(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Cached wraps a Locator with an LRU cache keyed by the file's directory,
// so switching between files of one project does not touch the disk.
// Negative results are cached too; call Purge after creating a pom.xml.
type Cached struct {
	inner Locator
	cache *lru.Cache[string, string]
}

// NewCached creates a cached locator. A non-positive size uses
// DefaultCacheSize.
func NewCached(inner Locator, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, string](size)
	return &Cached{inner: inner, cache: cache}
}

// FindNearestPOM implements Locator.
func (c *Cached) FindNearestPOM(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return c.inner.FindNearestPOM(path)
	}
	dir := filepath.Dir(abs)
	if found, ok := c.cache.Get(dir); ok {
		return found
	}
	found := c.inner.FindNearestPOM(abs)
	c.cache.Add(dir, found)
	return found
}

// Purge drops every cached result.
func (c *Cached) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached directories.
func (c *Cached) Len() int {
	return c.cache.Len()
}
