package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		level     string
		wantLevel logrus.Level
		wantErr   bool
	}{
		"default":  {level: "", wantLevel: logrus.WarnLevel},
		"debug":    {level: "debug", wantLevel: logrus.DebugLevel},
		"warning":  {level: "warning", wantLevel: logrus.WarnLevel},
		"bad name": {level: "loud", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			log, err := New(tt.level, &bytes.Buffer{})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, log.GetLevel())
		})
	}
}

func TestNew_FiltersAndFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New("info", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.WithField("id", "abc").Info("record created")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `level=info msg="record created" id=abc`)
	assert.NotContains(t, out, "time=")
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}
