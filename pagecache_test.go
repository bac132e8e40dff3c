package multiverse

import (
	"fmt"
	"testing"
)

// fakeMprotector records every Protect/Unprotect call instead of
// touching real memory, so the page-cache and engine tests can run
// without mapping executable pages.
type fakeMprotector struct {
	unprotected []uintptr
	protected   []uintptr
	failPage    uintptr
}

func (m *fakeMprotector) Unprotect(page uintptr, size int) error {
	if page == m.failPage {
		return fmt.Errorf("fake mprotect failure")
	}
	m.unprotected = append(m.unprotected, page)
	return nil
}

func (m *fakeMprotector) Protect(page uintptr, size int) error {
	if page == m.failPage {
		return fmt.Errorf("fake mprotect failure")
	}
	m.protected = append(m.protected, page)
	return nil
}

// withFakePageCache swaps in a fake Mprotector and a fixed 4096-byte
// page size for the duration of a test.
func withFakePageCache(t *testing.T, capacity int) (*pageCache, *fakeMprotector) {
	t.Helper()
	fake := &fakeMprotector{}

	origFactory, origSize := mprotectorFactory, pageSizeFn
	mprotectorFactory = func() (Mprotector, error) { return fake, nil }
	pageSizeFn = func() int { return 4096 }
	t.Cleanup(func() {
		mprotectorFactory, pageSizeFn = origFactory, origSize
	})

	cache, err := openPageCache(capacity)
	if err != nil {
		t.Fatalf("openPageCache: %v", err)
	}
	return cache, fake
}

func TestPageCacheUnprotectPromotesExistingEntry(t *testing.T) {
	cache, fake := withFakePageCache(t, 10)

	cache.unprotect(0x1000)
	cache.unprotect(0x2000)
	cache.unprotect(0x1000) // already cached, should promote without re-unprotecting

	if got, want := len(fake.unprotected), 2; got != want {
		t.Fatalf("unprotect calls = %d, want %d", got, want)
	}
	if cache.slots[0] != 0x1000 {
		t.Fatalf("slot 0 = %#x, want 0x1000 (promoted)", cache.slots[0])
	}
	if cache.slots[1] != 0x2000 {
		t.Fatalf("slot 1 = %#x, want 0x2000", cache.slots[1])
	}
}

func TestPageCacheUnprotectHitAtFrontIsNoop(t *testing.T) {
	cache, fake := withFakePageCache(t, 10)

	cache.unprotect(0x1000)
	cache.unprotect(0x1000) // hit at position 0: must not shift or double count

	if got, want := len(fake.unprotected), 1; got != want {
		t.Fatalf("unprotect calls = %d, want %d", got, want)
	}
	if cache.slots[0] != 0x1000 {
		t.Fatalf("slot 0 = %#x, want 0x1000", cache.slots[0])
	}
}

func TestPageCacheEvictionAcrossFifteenPages(t *testing.T) {
	cache, fake := withFakePageCache(t, 10)

	for i := 0; i < 15; i++ {
		page := uintptr(0x1000 * (i + 1))
		cache.unprotect(page)
	}

	if got, want := len(fake.unprotected), 15; got != want {
		t.Fatalf("unprotect calls = %d, want %d", got, want)
	}
	if got, want := len(fake.protected), 5; got != want {
		t.Fatalf("mid-batch re-protect calls = %d, want %d", got, want)
	}

	cache.close()

	if got, want := len(fake.protected), 15; got != want {
		t.Fatalf("total re-protect calls after close = %d, want %d", got, want)
	}

	// The 10 most recently inserted pages (6..15) must still be cached;
	// pages 1..5 were evicted.
	for i := 6; i <= 15; i++ {
		page := uintptr(0x1000 * i)
		found := false
		for _, p := range cache.slots {
			if p == page {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("page %#x should still be cached, slots=%v", page, cache.slots)
		}
	}
}

func TestPageCacheCloseReprotectsEverything(t *testing.T) {
	cache, fake := withFakePageCache(t, 10)

	cache.unprotect(0x1000)
	cache.unprotect(0x2000)
	cache.unprotect(0x3000)
	cache.close()

	if got, want := len(fake.protected), 3; got != want {
		t.Fatalf("re-protect calls = %d, want %d", got, want)
	}
}

func TestPageCacheMprotectFailureIsFatal(t *testing.T) {
	fake := &fakeMprotector{failPage: 0x1000}
	origFactory, origSize := mprotectorFactory, pageSizeFn
	mprotectorFactory = func() (Mprotector, error) { return fake, nil }
	pageSizeFn = func() int { return 4096 }
	defer func() { mprotectorFactory, pageSizeFn = origFactory, origSize }()

	cache, err := openPageCache(10)
	if err != nil {
		t.Fatalf("openPageCache: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mprotect failure")
		}
	}()
	cache.unprotect(0x1000)
}
