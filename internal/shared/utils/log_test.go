package utils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLogHelpersCarryFields(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	LogInfo("analysis started", map[string]interface{}{"store_id": 7})
	assert.Contains(t, buf.String(), `"store_id":7`)
	assert.Contains(t, buf.String(), "analysis started")

	buf.Reset()
	LogError("fetch failed", errors.New("no such object"), map[string]interface{}{"key": "exports/a.csv"})
	assert.Contains(t, buf.String(), `"error":"no such object"`)
	assert.Contains(t, buf.String(), `"key":"exports/a.csv"`)

	buf.Reset()
	LogWarn("weather provider unavailable", nil)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
