package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, KindNone, Kind(nil))
	assert.Equal(t, KindUnauthorized, Kind(fmt.Errorf("list queries: %w", ErrUnauthorized)))
	assert.Equal(t, KindForbidden, Kind(ErrForbidden))
	assert.Equal(t, KindValidation, Kind(Invalid("bad %s", "input")))
	assert.Equal(t, KindRequest, Kind(&RequestError{Status: 400}))
	assert.Equal(t, KindNetwork, Kind(&NetworkError{Err: errors.New("connection refused")}))
	assert.Equal(t, KindUnknown, Kind(errors.New("boom")))
}

func TestRequestError_Message(t *testing.T) {
	assert.Equal(t, "Request failed", (&RequestError{Status: 500}).Error())
	assert.Equal(t, "Username 'bob' already exists", (&RequestError{Status: 400, Detail: "Username 'bob' already exists"}).Error())
}
