package abc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMethodBuilderStackBalance(t *testing.T) {
	b := NewMethodBuilder(0)
	b.EmitPushInt(1)
	b.EmitPushInt(2)
	b.EmitBinary(OpAdd)
	require.Equal(t, 1, b.StackDepth())
	require.Equal(t, 2, b.MaxStack)
	b.EmitReturnValue()
	require.Equal(t, 0, b.StackDepth())
}

func TestMethodBuilderUnderflowPanics(t *testing.T) {
	b := NewMethodBuilder(0)
	require.Panics(t, func() {
		b.EmitPop()
	})
}

func TestLabelLifecycle(t *testing.T) {
	b := NewMethodBuilder(0)
	l := b.PushLabel("block0")
	require.False(t, l.Used())
	b.EmitJump(l)
	require.True(t, l.Used())
	b.Bind(l)
	require.True(t, l.Bound())
	require.Equal(t, l, b.PopLabel())
	require.Equal(t, 0, b.LabelStackDepth())
}

func TestBindTwicePanics(t *testing.T) {
	b := NewMethodBuilder(0)
	l := b.PushLabel("")
	b.Bind(l)
	require.Panics(t, func() { b.Bind(l) })
}

func TestTraitNameCollisionPanics(t *testing.T) {
	traits := NewInstanceTraits()
	traits.AddSlot("global$x", SlotInt, "")
	require.Panics(t, func() {
		traits.AddSlot("global$x", SlotInt, "")
	})
}

func TestTempLIFO(t *testing.T) {
	b := NewMethodBuilder(2)
	t0 := b.AcquireTemp()
	t1 := b.AcquireTemp()
	require.Panics(t, func() { b.ReleaseTemp(t0) })
	b.ReleaseTemp(t1)
	b.ReleaseTemp(t0)
}
