package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/storage"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

const demoPath = "../../storage/seed_demo.yaml"

type recordingImporter struct {
	calls int
	raw   []byte
}

func (r *recordingImporter) ImportData(raw []byte) error {
	r.calls++
	r.raw = raw
	return nil
}

func TestShippedDemoImports(t *testing.T) {
	repo, err := storage.NewJSONRepository(filepath.Join(t.TempDir(), "campaign.json"),
		storage.WithIDGenerator(utils.SequentialIDs()))
	require.NoError(t, err)
	state, err := repo.Load()
	require.NoError(t, err)

	loaded, err := LoadIfEmpty(repo, state, demoPath)
	require.NoError(t, err)
	assert.True(t, loaded)

	state, err = repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "Lyra Ashvale", state.Character.Name)
	assert.Equal(t, models.ResourcePool{40, 40}, state.Character.Resources["hp"])
	bow := state.ItemTemplates["item_tpl_longbow"]
	assert.True(t, bow.IsTwoHandedWeapon())
	assert.Equal(t, models.RarityBlue, bow.Rarity)
	require.Len(t, state.QuestTemplates["quest_tpl_wolves"].Objectives, 2)
	assert.Equal(t, &[2]int{0, 5}, state.QuestTemplates["quest_tpl_wolves"].Objectives[1].Progress)
	assert.Len(t, state.Character.Equipment, len(models.AllSlots))
	assert.False(t, state.IsEmpty())
}

func TestLoadIfEmptySkipsAuthoredCampaigns(t *testing.T) {
	state := models.NewDefaultCampaignState(utils.SequentialIDs())
	state.Contacts["npc_1"] = models.ChatContact{ID: "npc_1", DisplayName: "Mira"}
	imp := &recordingImporter{}

	loaded, err := LoadIfEmpty(imp, state, demoPath)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Zero(t, imp.calls)
}

func TestLoadIfEmptyToleratesMissingFile(t *testing.T) {
	imp := &recordingImporter{}
	loaded, err := LoadIfEmpty(imp, nil, filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Zero(t, imp.calls)
}

func TestReadFileFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"snapshot": {}}`), 0o644))
	raw, err := ReadFile(jsonPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"snapshot": {}}`, string(raw))

	yamlPath := filepath.Join(dir, "demo.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("snapshot:\n  stats:\n    1: 2\n  tags: [a, b]\n"), 0o644))
	raw, err = ReadFile(yamlPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"snapshot": {"stats": {"1": 2}, "tags": ["a", "b"]}}`, string(raw))

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("a: [unclosed"), 0o644))
	_, err = ReadFile(badPath)
	assert.Error(t, err)
}
