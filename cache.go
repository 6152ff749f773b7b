package vtcore

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ParagraphCache is an LRU cache keyed by repository tag, holding decoded
// paragraphs in front of a Repository. Grounded on ParaCache, but built on
// the ecosystem's hashicorp/golang-lru instead of a hand-rolled intrusive
// list, since the pack already depends on that library elsewhere for the
// same purpose (see DESIGN.md).
//
// The cache is single-owner and unsynchronized; it must not be shared
// across goroutines without external locking.
type ParagraphCache struct {
	repo       *Repository
	maxEntries int

	bounded   *lru.Cache[Tag, *Paragraph]
	unbounded map[Tag]*Paragraph
	order     []Tag // insertion order for the unbounded (maxEntries==0) case; hits do not reorder it
}

// NewParagraphCache returns a cache fronting repo. maxEntries of zero
// means unbounded.
func NewParagraphCache(repo *Repository, maxEntries int) *ParagraphCache {
	c := &ParagraphCache{repo: repo, maxEntries: maxEntries}
	c.rebuild()
	return c
}

func (c *ParagraphCache) rebuild() {
	if c.maxEntries > 0 {
		cache, err := lru.New[Tag, *Paragraph](c.maxEntries)
		if err != nil {
			// Only possible for a non-positive size, which we've excluded above.
			panic(err)
		}
		c.bounded = cache
		c.unbounded = nil
		c.order = nil
	} else {
		c.bounded = nil
		c.unbounded = make(map[Tag]*Paragraph)
		c.order = nil
	}
}

// Get returns the decoded paragraph for tag, populating the cache from the
// repository on a miss.
func (c *ParagraphCache) Get(tag Tag) (*Paragraph, error) {
	if c.bounded != nil {
		if p, ok := c.bounded.Get(tag); ok {
			return p, nil
		}
	} else if p, ok := c.unbounded[tag]; ok {
		return p, nil
	}

	entry, err := c.repo.Retrieve(tag)
	if err != nil {
		return nil, err
	}
	p := NewParagraphFrom(entry.Styles, entry.String)

	if c.bounded != nil {
		c.bounded.Add(tag, p)
	} else {
		c.unbounded[tag] = p
		c.order = append(c.order, tag)
	}

	return p, nil
}

// SetMaxEntries adjusts the cache capacity, shrinking immediately if the
// new limit is smaller than the current occupancy. Zero means unbounded.
func (c *ParagraphCache) SetMaxEntries(n int) {
	if n == c.maxEntries {
		return
	}

	switch {
	case n > 0 && c.bounded != nil:
		c.bounded.Resize(n)
	case n > 0:
		// Moving from unbounded to bounded: seed a fresh bounded cache
		// with the most recently inserted entries only; hits taken while
		// unbounded do not affect which entries are kept.
		cache, err := lru.New[Tag, *Paragraph](n)
		if err != nil {
			panic(err)
		}
		for _, tag := range c.order {
			if p, ok := c.unbounded[tag]; ok {
				cache.Add(tag, p)
			}
		}
		c.bounded = cache
		c.unbounded = nil
		c.order = nil
	default:
		// Moving to unbounded: drop the size cap, keep nothing to evict.
		c.unbounded = make(map[Tag]*Paragraph)
		c.order = nil
		c.bounded = nil
	}

	c.maxEntries = n
}

// MaxEntries returns the current capacity (zero means unbounded).
func (c *ParagraphCache) MaxEntries() int { return c.maxEntries }
