package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poimap-scraper/models"
)

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlan(t *testing.T) {
	path := writePlanFile(t, `
category: 咖啡廳
localities:
  - 台北市
  - 新北市
  - 高雄市
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "咖啡廳", plan.Category)
	assert.Len(t, plan.Localities, 3)

	units := plan.Units()
	require.Len(t, units, 3)
	assert.Equal(t, models.Unit{Locality: "台北市", Category: "咖啡廳"}, units[0])
	assert.Equal(t, "台北市 咖啡廳", units[0].Keyword())
}

func TestLoadPlanRejectsMissingCategory(t *testing.T) {
	path := writePlanFile(t, `
localities:
  - 台北市
`)
	_, err := LoadPlan(path)
	assert.Error(t, err)
}

func TestLoadPlanRejectsEmptyLocalities(t *testing.T) {
	path := writePlanFile(t, `category: 咖啡廳`)
	_, err := LoadPlan(path)
	assert.Error(t, err)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestUnitsSkipsBlankLocalities(t *testing.T) {
	plan := &Plan{Category: "咖啡廳", Localities: []string{"台北市", "  ", "高雄市"}}
	units := plan.Units()
	require.Len(t, units, 2)
	assert.Equal(t, "高雄市", units[1].Locality)
}
