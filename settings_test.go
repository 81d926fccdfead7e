package pluginsdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings(t *testing.T) {
	s := Settings{
		"Location":            "Home",
		"AcceptNewHardware":   "1",
		"UseAutoUpdate":       "true",
		"HideDisabled":        "on",
		"EnableTabFloorplans": "0",
		"MaxElectricPower":    "6000",
		"BadNumber":           "x",
	}

	assert.Equal(t, "Home", s.Get("Location"))
	assert.Equal(t, "", s.Get("Missing"))

	assert.True(t, s.GetBool("AcceptNewHardware"))
	assert.True(t, s.GetBool("UseAutoUpdate"))
	assert.True(t, s.GetBool("HideDisabled"))
	assert.False(t, s.GetBool("EnableTabFloorplans"))
	assert.False(t, s.GetBool("Missing"))

	assert.Equal(t, 6000, s.GetInt("MaxElectricPower", 0))
	assert.Equal(t, 42, s.GetInt("BadNumber", 42))
	assert.Equal(t, 42, s.GetInt("Missing", 42))
}
