package sanctions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStringListHandlesJSONArray(t *testing.T) {
	assert.Equal(t, []string{"OFAC", "EU"}, parseStringList(`["OFAC", "EU"]`))
}

func TestParseStringListHandlesBareString(t *testing.T) {
	assert.Equal(t, []string{"OFAC"}, parseStringList("OFAC"))
}

func TestParseStringListHandlesEmpty(t *testing.T) {
	assert.Nil(t, parseStringList(""))
}
