package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInfo(t *testing.T) {
	t.Parallel()

	info := "# Server\r\nredis_version:7.2.4\r\nuptime_in_seconds:42\r\n\r\n# Clients\r\nconnected_clients:3\r\nblocked_clients:0\r\n"

	stats := parseInfo(info, statMetrics...)
	assert.Equal(t, map[string]string{
		"redis_version":     "7.2.4",
		"uptime_in_seconds": "42",
		"connected_clients": "3",
	}, stats)
}
