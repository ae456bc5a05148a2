package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beroset/HELICS/value"
)

func TestTypedCallback_DispatchConverts(t *testing.T) {
	var got int64
	cb := OnInt(func(v int64, _ value.SimTime) { got = v })
	cb.dispatch(value.NewDouble(42.9), 0)
	assert.Equal(t, int64(42), got)
}

func TestTypedCallback_Target(t *testing.T) {
	cb := OnBool(func(bool, value.SimTime) {})
	assert.Equal(t, value.Bool, cb.Target())
}
