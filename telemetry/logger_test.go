package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"

	"github.com/beroset/HELICS/value"
)

func TestNew_WithoutNATSDisablesMirror(t *testing.T) {
	var buf bytes.Buffer
	l := New("fed1", nil, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.False(t, l.enabled)

	l.Info("sub1", "value updated")
	assert.Contains(t, buf.String(), "value updated")
	assert.Contains(t, buf.String(), "federate=fed1")
}

func TestNew_WithNATSConnEnablesMirror(t *testing.T) {
	l := New("fed1", &nats.Conn{}, nil)
	assert.True(t, l.enabled)
}

func TestLogger_ErrorIncludesInputAndSimTime(t *testing.T) {
	var buf bytes.Buffer
	l := New("fed1", nil, slog.New(slog.NewTextHandler(&buf, nil)))

	l.Error("sub1", value.SimTimeFromSeconds(2.5), "decode failed", assertErr{})

	out := buf.String()
	assert.True(t, strings.Contains(out, "input=sub1"))
	assert.True(t, strings.Contains(out, "decode failed"))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
