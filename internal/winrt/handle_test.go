package winrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRef counts references like a native COM object would.
type fakeRef struct {
	count    uint32
	addRefs  int
	releases int
}

func (f *fakeRef) AddRef() uint32 {
	f.count++
	f.addRefs++
	return f.count
}

func (f *fakeRef) Release() uint32 {
	if f.count == 0 {
		panic("release past zero")
	}
	f.count--
	f.releases++
	return f.count
}

// acquired models a freshly returned native reference: count already at one.
func acquired() *fakeRef {
	return &fakeRef{count: 1}
}

func TestNewHandleNil(t *testing.T) {
	tests := []struct {
		name string
		obj  RefCounted
	}{
		{name: "nil interface", obj: nil},
		{name: "nil pointer", obj: (*fakeRef)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandle(tt.obj)
			require.ErrorIs(t, err, ErrInvalidHandle)
			assert.Nil(t, h)
		})
	}
}

func TestNewHandleLive(t *testing.T) {
	ref := acquired()
	h, err := NewHandle(ref)
	require.NoError(t, err)
	require.NotNil(t, h)

	obj, err := h.Object()
	require.NoError(t, err)
	assert.Same(t, ref, obj)
	assert.Equal(t, 0, ref.addRefs, "wrapping must not add a reference")
}

func TestHandleCloneBalancesReferences(t *testing.T) {
	const clones = 5

	ref := acquired()
	h, err := NewHandle(ref)
	require.NoError(t, err)

	handles := []*Handle{h}
	for i := 0; i < clones; i++ {
		c, err := h.Clone()
		require.NoError(t, err)
		handles = append(handles, c)
	}
	assert.Equal(t, uint32(clones+1), ref.count)

	for _, hd := range handles {
		require.NoError(t, hd.Close())
	}
	assert.Equal(t, uint32(0), ref.count, "count must return to its pre-acquisition value")
	assert.Equal(t, clones+1, ref.releases)
}

func TestHandleDoubleClose(t *testing.T) {
	ref := acquired()
	h, err := NewHandle(ref)
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Equal(t, 1, ref.releases, "second close must not release again")
}

func TestHandleUseAfterClose(t *testing.T) {
	ref := acquired()
	h, err := NewHandle(ref)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	_, err = h.Object()
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = h.Clone()
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestHandleCloneIndependence(t *testing.T) {
	ref := acquired()
	h, err := NewHandle(ref)
	require.NoError(t, err)

	c, err := h.Clone()
	require.NoError(t, err)
	require.NoError(t, h.Close())

	// The clone stays usable after the original is closed.
	obj, err := c.Object()
	require.NoError(t, err)
	assert.Same(t, ref, obj)
	assert.Equal(t, uint32(1), ref.count)

	require.NoError(t, c.Close())
	assert.Equal(t, uint32(0), ref.count)
}
