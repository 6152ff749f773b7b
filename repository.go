package vtcore

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sync"
)

// Tag is an opaque 32-bit handle into a Repository, derived by hashing the
// serialized entry.
type Tag uint32

// Entry is the decoded (styles, string) pair backing one repository slot.
type Entry struct {
	Styles []Style
	String []byte
}

type repositoryEntry struct {
	length uint32
	bytes  []byte
	refs   uint32
}

// Repository is a deduplicating, reference-counted, content-addressed
// store mapping tags to serialized paragraph entries. Grounded on
// DedupeRepository: entries are keyed by an SDBM hash of their serialized
// bytes, with linear-probing collision resolution (and a re-probe on
// refcount saturation so no live entry is ever silently merged with an
// unrelated one). All public operations hold the mutex for their full
// duration; it is the only structure in this module shared across
// terminal instances.
type Repository struct {
	mu        sync.Mutex
	entries   map[Tag]*repositoryEntry
	totalRefs uint64
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{entries: make(map[Tag]*repositoryEntry)}
}

// Store serializes entry, hashes it, and inserts or bumps a refcount,
// returning the tag under which it now lives. Hash collisions and
// refcount saturation are both resolved by incrementing the candidate
// tag and re-probing.
func (r *Repository) Store(entry Entry) (Tag, error) {
	encoded := entrySerialize(entry.Styles, entry.String)

	r.mu.Lock()
	defer r.mu.Unlock()

	tag := Tag(sdbmHash(encoded))

	for {
		existing, ok := r.entries[tag]
		if !ok {
			r.entries[tag] = &repositoryEntry{
				length: uint32(len(entry.Styles)),
				bytes:  encoded,
				refs:   1,
			}
			break
		}

		if !bytes.Equal(encoded, existing.bytes) {
			// Hash collision: different content wants the same tag.
			if uint64(len(r.entries)) >= uint64(^Tag(0)) {
				return 0, fmt.Errorf("store: %w", ErrCapacityExhausted)
			}
			tag++
			continue
		}

		if existing.refs == ^uint32(0) {
			// Refcount would overflow; give this store its own tag.
			if uint64(len(r.entries)) >= uint64(^Tag(0)) {
				return 0, fmt.Errorf("store: %w", ErrCapacityExhausted)
			}
			tag++
			continue
		}

		existing.refs++
		break
	}

	r.totalRefs++
	return tag, nil
}

// Retrieve deserializes and returns the entry stored under tag.
func (r *Repository) Retrieve(tag Tag) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[tag]
	if !ok {
		return Entry{}, fmt.Errorf("retrieve %d: %w", tag, ErrNotFound)
	}

	styles, str, err := entryDeserialize(existing.bytes)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Styles: styles, String: str}, nil
}

// Length returns the cached code-point count for tag without deserializing
// the full entry.
func (r *Repository) Length(tag Tag) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[tag]
	if !ok {
		return 0, fmt.Errorf("length %d: %w", tag, ErrNotFound)
	}
	return existing.length, nil
}

// Match reports whether the string portion stored under tag matches any
// of regexes, without allocating the style sequence.
func (r *Repository) Match(tag Tag, regexes []*regexp.Regexp) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[tag]
	if !ok {
		return false, fmt.Errorf("match %d: %w", tag, ErrNotFound)
	}

	str, err := entryStringBytes(existing.bytes)
	if err != nil {
		return false, err
	}

	for _, re := range regexes {
		if re.Match(str) {
			return true, nil
		}
	}
	return false, nil
}

// Discard decrements the refcount for tag, removing the entry at zero.
func (r *Repository) Discard(tag Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[tag]
	if !ok {
		return fmt.Errorf("discard %d: %w", tag, ErrNotFound)
	}

	existing.refs--
	if existing.refs == 0 {
		delete(r.entries, tag)
	}
	r.totalRefs--
	return nil
}

// Dump writes a diagnostic, newline-terminated "tag: string" line for
// every live entry to w.
func (r *Repository) Dump(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for tag, existing := range r.entries {
		str, err := entryStringBytes(existing.bytes)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%d: %s\n", tag, str); err != nil {
			return err
		}
	}
	return nil
}
