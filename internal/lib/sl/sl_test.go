package sl

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = Err(nil)
	})
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
		wantJSON  bool
	}{
		{env: "local", wantDebug: true, wantJSON: false},
		{env: "dev", wantDebug: true, wantJSON: true},
		{env: "prod", wantDebug: false, wantJSON: true},
		{env: "unknown", wantDebug: false, wantJSON: true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := newWithWriter(tt.env, &buf)

			log.Debug("debug line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))

			buf.Reset()
			log.Info("info line", Err(errors.New("boom")))
			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"error":"boom"`)
			} else {
				assert.Contains(t, buf.String(), "error=boom")
			}
		})
	}
}
