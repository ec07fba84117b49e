package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

func TestWrap_PreservesIdentity(t *testing.T) {
	wrapped := Wrapf(Wrap(errSentinel, "inner"), "outer %d", 1)

	assert.True(t, Is(wrapped, errSentinel))
	assert.Equal(t, "outer 1: inner: sentinel", wrapped.Error())
	assert.Contains(t, fmt.Sprintf("%+v", wrapped), "TestWrap_PreservesIdentity")
}

func TestWrap_NilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, WithStack(nil))
}

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestAs_FindsTypedError(t *testing.T) {
	err := Join(New("other"), Wrap(&codedError{code: 7}, "context"))

	var target *codedError
	assert.True(t, As(err, &target))
	assert.Equal(t, 7, target.code)
}
