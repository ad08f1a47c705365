package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"esxforge/internal/application"
	"esxforge/internal/codec"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// memStore keeps encoded plugins in memory so every Load parses real XML
type memStore struct {
	files map[string][]byte
	saves int
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Load(ctx context.Context, path string) (*domain.Plugin, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return codec.Unmarshal(data, path)
}

func (s *memStore) Save(ctx context.Context, path string, p *domain.Plugin, opts codec.Options) error {
	var buf bytes.Buffer
	if err := codec.EncodePlugin(&buf, p, opts); err != nil {
		return err
	}
	s.files[path] = buf.Bytes()
	s.saves++
	return nil
}

func (s *memStore) put(path string, p *domain.Plugin) {
	if err := s.Save(context.Background(), path, p, codec.Options{Indent: true}); err != nil {
		panic(err)
	}
	s.saves = 0
}

// fakeArtifacts is a create-only object store
type fakeArtifacts struct {
	objects map[string][]byte
}

func (a *fakeArtifacts) Put(ctx context.Context, key string, r io.Reader, contentType string) (domain.ArtifactInfo, error) {
	if _, exists := a.objects[key]; exists {
		return domain.ArtifactInfo{}, &domain.ConflictError{Kind: "artifact", Identifier: key}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.ArtifactInfo{}, err
	}
	a.objects[key] = data
	return domain.ArtifactInfo{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (a *fakeArtifacts) Driver() string { return "fake" }

// fakeIndex answers the queries the commands use; other methods panic
type fakeIndex struct {
	ports.PluginIndex

	needsRebuild bool
	fullSyncs    int
	incSyncs     int
	indexed      map[string]*domain.Plugin
	records      []domain.IndexedRecord
	targets      []domain.AliasTarget
}

func (f *fakeIndex) NeedsFullRebuild() bool { return f.needsRebuild }

func (f *fakeIndex) SyncFull() (*domain.SyncStats, error) {
	f.fullSyncs++
	return &domain.SyncStats{FilesScanned: 3, PluginsAdded: 3}, nil
}

func (f *fakeIndex) SyncIncremental() (*domain.SyncStats, error) {
	f.incSyncs++
	return &domain.SyncStats{FilesScanned: 3, PluginsUpdated: 1}, nil
}

func (f *fakeIndex) IndexPlugin(relPath string, p *domain.Plugin, mtime int64) error {
	if f.indexed == nil {
		f.indexed = make(map[string]*domain.Plugin)
	}
	f.indexed[relPath] = p
	return nil
}

func (f *fakeIndex) FindByEditorID(editorID string) ([]domain.IndexedRecord, error) {
	var out []domain.IndexedRecord
	for _, r := range f.records {
		if r.EditorID == editorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeIndex) FindByFormID(id domain.FormID) ([]domain.IndexedRecord, error) {
	var out []domain.IndexedRecord
	for _, r := range f.records {
		if r.FormID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeIndex) FindAliasTargets(aliasID domain.FormID) ([]domain.AliasTarget, error) {
	var out []domain.AliasTarget
	for _, t := range f.targets {
		if t.AliasID == aliasID {
			out = append(out, t)
		}
	}
	return out, nil
}

// samplePlugin returns one quest MainQuest [00000800] with:
// PlayerRef 0x801, objective 1 "Old" targeting ObjectiveOne_A 0x802 and
// ObjectiveOne_B 0x803, objective 2 "Other" targeting Extra_C 0x804.
func samplePlugin() *domain.Plugin {
	p := domain.NewPlugin()
	h := domain.NewHeader()
	h.SetAuthor("Tester")
	h.AddMaster(domain.DefaultMaster)
	p.SetHeader(h)

	alloc := domain.NewESLAllocator()
	b, err := application.NewQuestBuilder(p, alloc, "MainQuest", "")
	if err != nil {
		panic(err)
	}
	b.SetName("Main Quest").SetQuestData(domain.DefaultQuestData(0))
	mustNoErr(b.AddPlayerReference())
	mustNoErr(b.AddObjectiveWithNamedTargets(1, "Old", []string{"ObjectiveOne_A", "ObjectiveOne_B"}))
	mustNoErr(b.AddObjectiveWithNamedTargets(2, "Other", []string{"Extra_C"}))
	b.UpdateAliasCount()
	if err := p.SyncHeader(alloc); err != nil {
		panic(err)
	}
	return p
}

func mustNoErr[T any](_ T, err error) {
	if err != nil {
		panic(err)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
