package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"packdex/internal/core/source"
	"packdex/internal/index/file"
	"packdex/internal/index/store"
	"packdex/internal/model"
)

type fakeProvider struct {
	mu      sync.Mutex
	packs   []source.Pack
	docs    map[string][]source.Document
	docsErr map[string]error

	docCalls int
	// gate, when set, blocks Documents until closed; entered is signaled
	// once when a blocked call begins.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeProvider) ListPacks(ctx context.Context, collectionType string) ([]source.Pack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []source.Pack
	for _, p := range f.packs {
		if collectionType == "" || p.CollectionType == collectionType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProvider) Documents(ctx context.Context, packID string) ([]source.Document, error) {
	f.mu.Lock()
	f.docCalls++
	gate, entered := f.gate, f.entered
	err := f.docsErr[packID]
	docs := f.docs[packID]
	f.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (f *fakeProvider) Entries(ctx context.Context, packID string) ([]source.IndexEntry, error) {
	docs, err := f.Documents(ctx, packID)
	if err != nil {
		return nil, err
	}
	entries := make([]source.IndexEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, source.IndexEntry{ID: d.ID(), Name: d.Name(), Kind: d.Kind()})
	}
	return entries, nil
}

func (f *fakeProvider) setPackCount(packID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.packs {
		if f.packs[i].ID == packID {
			f.packs[i].DocumentCount = n
		}
	}
}

func npcDoc(id, name string, cr float64) source.Document {
	return source.Document{
		"_id":  id,
		"name": name,
		"type": "npc",
		"system": map[string]any{
			"details": map[string]any{"cr": cr},
		},
	}
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		packs: []source.Pack{
			{ID: "zoo", Label: "Zoo", CollectionType: source.TypeActor, DocumentCount: 3, LastModified: 100},
			{ID: "gear", Label: "Gear", CollectionType: source.TypeItem, DocumentCount: 1, LastModified: 100},
		},
		docs: map[string][]source.Document{
			"zoo": {
				npcDoc("m1", "Goblin", 0.25),
				npcDoc("m2", "Orc", 0.5),
				npcDoc("m3", "Ogre", 2),
			},
			"gear": {
				{"_id": "g1", "name": "Sword", "type": "weapon"},
			},
		},
		docsErr: map[string]error{},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(t *testing.T, p source.Provider) (*Cache, store.Store) {
	t.Helper()
	st, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	c, err := New(p, st, "w1", model.DialectDnd5e, testLogger())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return c, st
}

func TestGetIndexBuildsAndPersists(t *testing.T) {
	p := testProvider()
	c, st := newTestCache(t, p)

	profiles, err := c.GetIndex(context.Background())
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	if ok, _ := st.Exists("w1", ArtifactKey); !ok {
		t.Fatalf("artifact not persisted")
	}

	idx := c.Loaded()
	if idx == nil || idx.Metadata.BuildID == "" {
		t.Fatalf("index not installed: %+v", idx)
	}
	if _, ok := idx.Metadata.Fingerprints["zoo"]; !ok {
		t.Fatalf("fingerprint missing")
	}
	if _, ok := idx.Metadata.Fingerprints["gear"]; ok {
		t.Fatalf("non-actor pack must not be fingerprinted")
	}

	// A second read serves the cached index without touching documents.
	before := p.docCalls
	if _, err := c.GetIndex(context.Background()); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if p.docCalls != before {
		t.Fatalf("valid index should not re-enumerate documents")
	}
}

func TestGetIndexReloadsPersistedArtifact(t *testing.T) {
	p := testProvider()
	st, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	c1, err := New(p, st, "w1", model.DialectDnd5e, testLogger())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if _, err := c1.GetIndex(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	buildID := c1.Loaded().Metadata.BuildID

	// A fresh cache over the same store loads the artifact instead of
	// rebuilding.
	c2, err := New(p, st, "w1", model.DialectDnd5e, testLogger())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	before := p.docCalls
	if _, err := c2.GetIndex(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.docCalls != before {
		t.Fatalf("expected load from store, not rebuild")
	}
	if c2.Loaded().Metadata.BuildID != buildID {
		t.Fatalf("loaded a different build: %s vs %s", c2.Loaded().Metadata.BuildID, buildID)
	}
}

func TestGetIndexRebuildsWhenPackChanges(t *testing.T) {
	p := testProvider()
	c, _ := newTestCache(t, p)

	if _, err := c.GetIndex(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	first := c.Loaded().Metadata.BuildID

	p.setPackCount("zoo", 4)
	p.mu.Lock()
	p.docs["zoo"] = append(p.docs["zoo"], npcDoc("m4", "Troll", 5))
	p.mu.Unlock()

	profiles, err := c.GetIndex(context.Background())
	if err != nil {
		t.Fatalf("get after change: %v", err)
	}
	if len(profiles) != 4 {
		t.Fatalf("expected 4 profiles after change, got %d", len(profiles))
	}
	if c.Loaded().Metadata.BuildID == first {
		t.Fatalf("expected a fresh build")
	}
}

func TestBuildRecordsPlaceholderForBadDocument(t *testing.T) {
	p := testProvider()
	p.docs["zoo"][1] = source.Document{"name": "Broken", "type": "npc"} // no id
	c, _ := newTestCache(t, p)

	profiles, err := c.Rebuild(context.Background(), false)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("a bad document must not shrink the index: got %d", len(profiles))
	}

	var placeholders int
	for _, pr := range profiles {
		if pr.ExtractionError {
			placeholders++
			if pr.HitPoints != 1 || pr.ArmorClass != 10 {
				t.Fatalf("placeholder defaults: %+v", pr)
			}
		}
	}
	if placeholders != 1 {
		t.Fatalf("expected 1 placeholder, got %d", placeholders)
	}
	if c.Loaded().Metadata.ErrorCount != 1 {
		t.Fatalf("error count: %d", c.Loaded().Metadata.ErrorCount)
	}
}

func TestBuildSkipsUnrecognizedKinds(t *testing.T) {
	p := testProvider()
	p.docs["zoo"] = append(p.docs["zoo"], source.Document{"_id": "h1", "name": "Shack", "type": "hazard"})
	p.setPackCount("zoo", 4)
	c, _ := newTestCache(t, p)

	profiles, err := c.Rebuild(context.Background(), false)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("unrecognized kinds must be skipped: got %d", len(profiles))
	}
}

func TestBuildSurvivesPackEnumerationFailure(t *testing.T) {
	p := testProvider()
	p.packs = append(p.packs, source.Pack{
		ID: "cursed", Label: "Cursed", CollectionType: source.TypeActor, DocumentCount: 9, LastModified: 50,
	})
	p.docsErr["cursed"] = fmt.Errorf("db locked")
	c, _ := newTestCache(t, p)

	profiles, err := c.Rebuild(context.Background(), false)
	if err != nil {
		t.Fatalf("rebuild must survive a failing pack: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("profiles from healthy packs: got %d", len(profiles))
	}

	idx := c.Loaded()
	if idx.Metadata.ErrorCount != 1 {
		t.Fatalf("error count: %d", idx.Metadata.ErrorCount)
	}
	// The failing pack is still fingerprinted so the build is not
	// permanently considered stale.
	if _, ok := idx.Metadata.Fingerprints["cursed"]; !ok {
		t.Fatalf("failing pack must still be fingerprinted")
	}
}

func TestRebuildSingleFlight(t *testing.T) {
	p := testProvider()
	p.gate = make(chan struct{})
	p.entered = make(chan struct{}, 1)
	c, _ := newTestCache(t, p)

	done := make(chan error, 1)
	go func() {
		_, err := c.Rebuild(context.Background(), false)
		done <- err
	}()

	select {
	case <-p.entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("build never started")
	}
	if !c.Building() {
		t.Fatalf("Building() should report the in-flight build")
	}

	// A concurrent non-forced rebuild fails fast.
	if _, err := c.Rebuild(context.Background(), false); !errors.Is(err, ErrBuildInProgress) {
		t.Fatalf("expected ErrBuildInProgress, got %v", err)
	}

	// A forced rebuild queues behind the in-flight build.
	forced := make(chan error, 1)
	go func() {
		_, err := c.Rebuild(context.Background(), true)
		forced <- err
	}()

	close(p.gate)
	if err := <-done; err != nil {
		t.Fatalf("first build: %v", err)
	}
	if err := <-forced; err != nil {
		t.Fatalf("forced build: %v", err)
	}
	if c.Building() {
		t.Fatalf("Building() stuck after builds finished")
	}
}

// failStore wraps a working store and fails every Write.
type failStore struct {
	store.Store
}

func (f failStore) Write(world, key string, data []byte) error {
	return fmt.Errorf("disk full")
}

func TestRebuildWriteFailureKeepsOldArtifact(t *testing.T) {
	p := testProvider()
	st, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	seed, err := New(p, st, "w1", model.DialectDnd5e, testLogger())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if _, err := seed.Rebuild(context.Background(), false); err != nil {
		t.Fatalf("seed build: %v", err)
	}
	oldID := loadIndex(st, "w1").Metadata.BuildID

	c, err := New(p, failStore{st}, "w1", model.DialectDnd5e, testLogger())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	profiles, err := c.Rebuild(context.Background(), false)
	if err == nil {
		t.Fatalf("expected persistence error")
	}
	if len(profiles) != 3 {
		t.Fatalf("fresh profiles must still be returned: got %d", len(profiles))
	}
	// Memory has the new build, the store keeps the old artifact.
	if c.Loaded() == nil || c.Loaded().Metadata.BuildID == oldID {
		t.Fatalf("in-memory index not replaced")
	}
	if got := loadIndex(st, "w1").Metadata.BuildID; got != oldID {
		t.Fatalf("persisted artifact was touched: %s", got)
	}
}

func TestInvalidate(t *testing.T) {
	p := testProvider()
	c, st := newTestCache(t, p)

	if _, err := c.Rebuild(context.Background(), false); err != nil {
		t.Fatalf("build: %v", err)
	}
	c.Invalidate()

	if c.Loaded() != nil {
		t.Fatalf("in-memory index should be dropped")
	}
	if ok, _ := st.Exists("w1", ArtifactKey); ok {
		t.Fatalf("artifact should be deleted")
	}
}

func TestRebuildUnsupportedDialect(t *testing.T) {
	p := testProvider()
	st, err := file.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	c, err := New(p, st, "w1", "gurps", testLogger())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if _, err := c.Rebuild(context.Background(), false); err == nil {
		t.Fatalf("expected error for unsupported dialect")
	}
	if c.Loaded() != nil {
		t.Fatalf("failed build must not install an index")
	}
}
