package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptHandler_Trigger(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out)
	ctx := h.HandleInterrupts(context.Background(), "3 transactions were saved")

	assert.False(t, h.WasInterrupted())
	h.trigger()
	h.trigger()

	assert.True(t, h.WasInterrupted())
	require.Error(t, ctx.Err())
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("Interrupted!")))
	assert.Contains(t, out.String(), "3 transactions were saved")
}

func TestInterruptHandler_ParentCancel(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out)

	parent, cancel := context.WithCancel(context.Background())
	ctx := h.HandleInterrupts(parent, "")
	cancel()

	<-ctx.Done()
	assert.False(t, h.WasInterrupted())
	assert.Empty(t, out.String())
}

func TestInterruptHandler_Stop(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out)
	ctx := h.HandleInterrupts(context.Background(), "ignored")

	h.Stop()
	<-ctx.Done()
	assert.False(t, h.WasInterrupted())
	assert.Empty(t, out.String())
}
