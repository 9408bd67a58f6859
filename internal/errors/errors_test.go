package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindConfigUnavailable, "failed to retrieve configuration")
	assert.Equal(t, "failed to retrieve configuration", err.Error())
}

func TestWrapIncludesCause(t *testing.T) {
	cause := stderrors.New("endpoint unreachable")
	err := Wrap(KindConfigUnavailable, "failed to retrieve configuration", cause)

	assert.Equal(t, "failed to retrieve configuration: endpoint unreachable", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHasKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		want bool
	}{
		{"direct match", New(KindAlertFailure, "boom"), KindAlertFailure, true},
		{"kind mismatch", New(KindAlertFailure, "boom"), KindActionFailure, false},
		{"wrapped match", fmt.Errorf("outer: %w", New(KindBadEvent, "boom")), KindBadEvent, true},
		{"plain error", stderrors.New("boom"), KindActionFailure, false},
		{"nil", nil, KindActionFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasKind(tt.err, tt.kind))
		})
	}
}

func TestAPIErrorCodeNonAPIError(t *testing.T) {
	assert.Empty(t, APIErrorCode(stderrors.New("plain")))
	assert.Empty(t, APIErrorCode(nil))
}
