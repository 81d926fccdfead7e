package pluginsdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireBridgeAddrFromEnv(t *testing.T) {
	addr, err := RequireBridgeAddrFromEnv(func(key string) string {
		if key == "DZ_BRIDGE_GRPC_ADDR" {
			return "127.0.0.1:9875"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9875", addr)

	_, err = RequireBridgeAddrFromEnv(func(string) string { return "" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DZ_BRIDGE_GRPC_ADDR")
}
