package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/core"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "groups.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadGroupsFromCSV(t *testing.T) {
	path := writeCSV(t, "Control,Treatment\n1.5,4.0\n2.5,5.0\n3.5,6.0\n")

	groups, err := NewDataReader().ReadGroups(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, core.GroupLabel("Control"), groups[0].Label)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, groups[0].Values)
	assert.Equal(t, core.GroupLabel("Treatment"), groups[1].Label)
	assert.Equal(t, []float64{4.0, 5.0, 6.0}, groups[1].Values)
}

func TestReadGroupsSkipsBlankAndNonNumericCells(t *testing.T) {
	path := writeCSV(t, "A,B\n1,x\n,2\n3,\n4,5\n")

	groups, err := NewDataReader().ReadGroups(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []float64{1, 3, 4}, groups[0].Values)
	assert.Equal(t, []float64{2, 5}, groups[1].Values)
}

func TestReadGroupsRaggedRows(t *testing.T) {
	path := writeCSV(t, "A,B\n1,2\n3\n")

	groups, err := NewDataReader().ReadGroups(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []float64{1, 3}, groups[0].Values)
	assert.Equal(t, []float64{2}, groups[1].Values)
}

func TestReadGroupsBlankHeaderGetsDefaultLabel(t *testing.T) {
	path := writeCSV(t, "A,\n1,2\n3,4\n")

	groups, err := NewDataReader().ReadGroups(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, core.DefaultGroupLabel(1), groups[1].Label)
}

func TestReadGroupsDropsColumnsWithoutNumbers(t *testing.T) {
	path := writeCSV(t, "Values,Notes\n1,first\n2,second\n")

	groups, err := NewDataReader().ReadGroups(path)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, core.GroupLabel("Values"), groups[0].Label)
}

func TestReadGroupsHeaderOnly(t *testing.T) {
	path := writeCSV(t, "A,B\n")

	_, err := NewDataReader().ReadGroups(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row")
}

func TestReadGroupsNoNumericColumns(t *testing.T) {
	path := writeCSV(t, "A,B\nx,y\n")

	_, err := NewDataReader().ReadGroups(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no numeric columns")
}

func TestReadGroupsMissingFile(t *testing.T) {
	_, err := NewDataReader().ReadGroups(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
