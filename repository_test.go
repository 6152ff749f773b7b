package vtcore

import "testing"

func entryFor(s string) Entry {
	styles := make([]Style, len(s))
	for i := range styles {
		styles[i] = DefaultStyle()
	}
	return Entry{Styles: styles, String: []byte(s)}
}

// Round-trip 1: retrieve(store(E)) == E structurally, and N stores
// followed by N discards return the repository to its prior state.
func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository()
	entry := entryFor("hello")

	tag, err := repo.Store(entry)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := repo.Retrieve(tag)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if string(got.String) != string(entry.String) || len(got.Styles) != len(entry.Styles) {
		t.Fatalf("Retrieve(Store(E)) = %+v, want %+v", got, entry)
	}

	before := len(repo.entries)
	tags := make([]Tag, 5)
	for i := range tags {
		tags[i], err = repo.Store(entry)
		if err != nil {
			t.Fatalf("Store #%d: %v", i, err)
		}
	}
	for i := range tags {
		if err := repo.Discard(tags[i]); err != nil {
			t.Fatalf("Discard #%d: %v", i, err)
		}
	}
	if len(repo.entries) != before {
		t.Fatalf("entry count after N store/discard pairs = %d, want %d", len(repo.entries), before)
	}

	if err := repo.Discard(tag); err != nil {
		t.Fatalf("final Discard: %v", err)
	}
	if _, err := repo.Retrieve(tag); err == nil {
		t.Fatalf("Retrieve should fail once the last reference is discarded")
	}
}

// Scenario 6: hash collision. Two distinct entries forced onto the same
// initial tag must both receive distinct tags and retrieve correctly.
func TestRepositoryHashCollision(t *testing.T) {
	repo := NewRepository()

	a := entryFor("aaaa")
	b := entryFor("bbbb")

	tagA, err := repo.Store(a)
	if err != nil {
		t.Fatalf("Store a: %v", err)
	}

	// Force a collision by seeding an entry directly under the tag that
	// b's content would naturally hash to, then storing b for real.
	encodedB := entrySerialize(b.Styles, b.String)
	collideTag := Tag(sdbmHash(encodedB))
	repo.entries[collideTag] = &repositoryEntry{
		length: 999,
		bytes:  entrySerialize(entryFor("zzzz").Styles, entryFor("zzzz").String),
		refs:   1,
	}

	tagB, err := repo.Store(b)
	if err != nil {
		t.Fatalf("Store b: %v", err)
	}

	if tagB == collideTag {
		t.Fatalf("Store should have re-probed past the seeded collision")
	}
	if tagA == tagB {
		t.Fatalf("distinct entries received the same tag: %d", tagA)
	}

	gotA, err := repo.Retrieve(tagA)
	if err != nil || string(gotA.String) != "aaaa" {
		t.Fatalf("Retrieve(tagA) = %+v, %v; want \"aaaa\"", gotA, err)
	}
	gotB, err := repo.Retrieve(tagB)
	if err != nil || string(gotB.String) != "bbbb" {
		t.Fatalf("Retrieve(tagB) = %+v, %v; want \"bbbb\"", gotB, err)
	}
}
