package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownVertical(t *testing.T) {
	r := New()
	descriptors, err := r.Resolve("purchase")
	require.NoError(t, err)
	require.Len(t, descriptors, 7)
	assert.Equal(t, "vessel_current_sanctions", descriptors[0].ID)
}

func TestResolveUnknownVertical(t *testing.T) {
	r := New()
	_, err := r.Resolve("nonexistent")
	assert.Error(t, err)
}

func TestResolveVoyageIsUnionOfAll(t *testing.T) {
	r := New()
	descriptors, err := r.Resolve("voyage")
	require.NoError(t, err)
	assert.Greater(t, len(descriptors), 15)
}

func TestStakeholderRolesPerVertical(t *testing.T) {
	assert.Contains(t, StakeholderRoles("purchase"), "seller")
	assert.NotContains(t, StakeholderRoles("purchase"), "warehouse_operator")
	assert.Contains(t, StakeholderRoles("warehousing"), "cargo_owner")
}

func TestIsListRole(t *testing.T) {
	assert.True(t, IsListRole("consignee"))
	assert.False(t, IsListRole("seller"))
}

func TestExportImportRoundTrip(t *testing.T) {
	r := New()
	data, err := r.ExportDescriptors()
	require.NoError(t, err)

	r2 := &Registry{}
	require.NoError(t, r2.ImportDescriptors(data))

	d, err := r2.GetDescriptor("vessel_composite")
	require.NoError(t, err)
	assert.Equal(t, "Composite vessel risk", d.Label)
}
