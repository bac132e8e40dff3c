// pagecache.go - the page-protection cache (PPC): a fixed-capacity LRU
// of text pages currently left writable+executable, so a commit
// touching many nearby patch points pays mprotect once per page.
//
// This mirrors the original's fixed `void *cache[10]` array scanned
// linearly rather than a map or container/list entry: no heap churn
// per patch point (§5, Memory allocation), and the corrected insertion
// shift the original's comment (§9) says it should have had.
package multiverse

import "fmt"

// defaultPageCacheCapacity is the original's magic number 10, named.
const defaultPageCacheCapacity = 10

// pageCache is one open batch's unprotect/re-protect bookkeeping. It is
// not safe for concurrent use; the engine only ever uses one at a time
// under its own commit mutex.
type pageCache struct {
	mp       Mprotector
	pageSize uintptr
	// slots holds at most len(slots) distinct page addresses, most
	// recently used at index 0. A zero entry marks an empty slot; empty
	// slots are always a contiguous tail, since insertion always
	// front-packs.
	slots []uintptr
}

// openPageCache allocates a context with the given capacity (0 means
// defaultPageCacheCapacity), all slots empty.
func openPageCache(capacity int) (*pageCache, error) {
	if capacity <= 0 {
		capacity = defaultPageCacheCapacity
	}
	mp, err := mprotectorFactory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	return &pageCache{
		mp:       mp,
		pageSize: uintptr(pageSizeFn()),
		slots:    make([]uintptr, capacity),
	}, nil
}

// unprotect makes the page containing addr writable+executable. If the
// page is already cached it is promoted to the most-recently-used
// slot; otherwise it is inserted at the front, evicting (re-protecting)
// the least-recently-used page first if the cache is full.
func (c *pageCache) unprotect(addr uintptr) {
	page := addr &^ (c.pageSize - 1)

	for i, p := range c.slots {
		if p == 0 {
			break
		}
		if p == page {
			if i > 0 {
				copy(c.slots[1:i+1], c.slots[:i])
				c.slots[0] = page
			}
			return
		}
	}

	last := len(c.slots) - 1
	if c.slots[last] != 0 {
		c.protect(c.slots[last])
	}
	// Shift every occupied slot down by one before writing the new
	// most-recently-used entry at the front. The original shifted only
	// down to index 1, leaving the slot just above the evicted one
	// untouched when the cache was not yet full; this is the corrected
	// classic-LRU insertion (§9).
	copy(c.slots[1:], c.slots[:last])
	c.unprotectPage(page)
	c.slots[0] = page
}

// close re-protects every non-empty slot with read+execute. Guaranteed
// to run on every driver return path, so at close no page remains
// writable (invariant 1, §3).
func (c *pageCache) close() {
	for _, p := range c.slots {
		if p != 0 {
			c.protect(p)
		}
	}
}

// protect and unprotectPage wrap the Mprotector; per §7 a failure here
// is fatal, proceeding would leave the text segment's permissions
// indeterminate, so recovery is not attempted.
func (c *pageCache) protect(page uintptr) {
	if err := c.mp.Protect(page, int(c.pageSize)); err != nil {
		panic(fmt.Sprintf("multiverse: mprotect(r-x) failed for page %#x: %v", page, err))
	}
}

func (c *pageCache) unprotectPage(page uintptr) {
	if err := c.mp.Unprotect(page, int(c.pageSize)); err != nil {
		panic(fmt.Sprintf("multiverse: mprotect(rwx) failed for page %#x: %v", page, err))
	}
}
