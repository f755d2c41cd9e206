package queue

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	chErr  error
	closed bool
}

func (f *fakeConn) Channel() (*amqp.Channel, error) { return nil, f.chErr }
func (f *fakeConn) Close() error                    { f.closed = true; return nil }

// A failed consume cycle must close its connection before the reconnect
// loop dials a new one.
func TestConsumeOnceClosesConnectionOnError(t *testing.T) {
	conn := &fakeConn{chErr: errors.New("channel blocked")}

	err := consumeOnce(conn, RewardUpdater{})
	require.Error(t, err)
	assert.True(t, conn.closed)
}
