package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithServiceAndComponent(t *testing.T) {
	log := New("gestion-api", "debug")
	var buf bytes.Buffer
	log.SetOutput(&buf)

	Component(log, "projects-service").WithField("id", "p1").Info("project created")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "gestion-api", line["service"])
	assert.Equal(t, "projects-service", line["component"])
	assert.Equal(t, "project created", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Contains(t, line, "timestamp")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, New("svc", "bavard").GetLevel())
	assert.Equal(t, logrus.WarnLevel, New("svc", "warn").GetLevel())
}
