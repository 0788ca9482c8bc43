package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := UnknownSubject("999")
	wrapped := Wrap(base, "selection failed")

	assert.Equal(t, CodeUnknownSubject, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, `selection failed: unknown subject "999"`, wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := Wrapf(cause, "step %d", 2)

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeNotFound, stderrors.New("missing"))
	assert.True(t, HasCode(err, CodeNotFound))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{UnknownSubject("1"), http.StatusNotFound},
		{InvalidInput("bad", nil), http.StatusBadRequest},
		{DatasetNotLoaded(), http.StatusServiceUnavailable},
		{FetchFailed("remote", stderrors.New("timeout")), http.StatusServiceUnavailable},
		{MalformedRecord("bad sample", nil), http.StatusUnprocessableEntity},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatus(tt.err), tt.err.Error())
	}
}
