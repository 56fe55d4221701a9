package logging_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/base/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-anvio/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name    string
		want    log.Level
		wantErr bool
	}{
		"error":      {name: "error", want: log.Error},
		"info":       {name: "info", want: log.Info},
		"debug":      {name: "DEBUG ", want: log.Debug},
		"unknown":    {name: "verbose", wantErr: true},
		"empty name": {name: "", wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseLevel(tc.name)
			if tc.wantErr {
				assert.ErrorIs(t, err, logging.ErrUnknownLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOutputterFiltersLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := logging.NewOutputter(&buf, log.Info)

	require.NoError(t, out.Output(1, log.Info, "stage started"))
	require.NoError(t, out.Output(1, log.Debug, "hidden"))
	require.NoError(t, out.Output(1, log.Error, "stage failed"))
	assert.Contains(t, buf.String(), "stage started")
	assert.Contains(t, buf.String(), "ERROR stage failed")
	assert.NotContains(t, buf.String(), "hidden")

	out.SetLevel(log.Debug)
	require.NoError(t, out.Output(1, log.Debug, "now visible"))
	assert.Contains(t, buf.String(), "DEBUG now visible")
	assert.Equal(t, log.Debug, out.Level())
}

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	out, err := logging.Setup(&buf, "error")
	require.NoError(t, err)
	assert.Equal(t, log.Error, out.Level())

	log.Printf("not shown")
	log.Error.Printf("shown")
	assert.NotContains(t, buf.String(), "not shown")
	assert.Contains(t, buf.String(), "shown")

	_, err = logging.Setup(&buf, "loud")
	assert.Error(t, err)
}
