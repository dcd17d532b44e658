// Package session binds a network connection to an authenticated
// character once login succeeds, and drives the name/password login
// state machine before that. Shaped after la2go's GameClient
// (internal/gameserver/client.go): a buffered send channel plus writer
// goroutine, atomic state, and a small mutex-guarded scratch area for
// login-phase fields.
package session

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duskrealm/mudforge/internal/connmgr"
	"github.com/duskrealm/mudforge/internal/telnet"
)

// ConnectionState is the login-flow state machine.
type ConnectionState int32

const (
	StateGetName ConnectionState = iota
	StateGetPassword
	StateNewPlayerCreation
	StatePlaying
	StateClosing
	StateClosed
)

const (
	defaultSendQueueSize = 64
	defaultWriteTimeout  = 5 * time.Second
)

// Connection wraps one accepted socket: its telnet codec, an async write
// queue (so a slow client can't block the reader or the tick loop), and
// the login-phase/connected-at bookkeeping.
type Connection struct {
	id          uint64
	conn        net.Conn
	peerHost    string
	connectedAt time.Time
	codec       *telnet.Codec

	state atomic.Int32

	sendCh  chan []byte
	closeCh chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	writeTimeout time.Duration
}

// NewConnection wraps an accepted net.Conn. id must be unique for the
// process lifetime.
func NewConnection(id uint64, conn net.Conn) *Connection {
	c := &Connection{
		id:           id,
		conn:         conn,
		peerHost:     connmgr.PeerHostFromAddr(conn.RemoteAddr()),
		connectedAt:  time.Now(),
		codec:        telnet.NewCodec(),
		sendCh:       make(chan []byte, defaultSendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: defaultWriteTimeout,
	}
	c.state.Store(int32(StateGetName))
	return c
}

func (c *Connection) ID() uint64            { return c.id }
func (c *Connection) PeerHost() string      { return c.peerHost }
func (c *Connection) ConnectedAt() time.Time { return c.connectedAt }
func (c *Connection) Closed() bool          { return c.closed.Load() }

func (c *Connection) State() ConnectionState { return ConnectionState(c.state.Load()) }
func (c *Connection) SetState(s ConnectionState) { c.state.Store(int32(s)) }

// Codec exposes the telnet state machine for the reader loop.
func (c *Connection) Codec() *telnet.Codec { return c.codec }

// Close closes the underlying socket and the writer goroutine's channel.
// Idempotent.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
	})
	return c.conn.Close()
}

// WriteLine implements model.OutputSink: it encodes outbound color codes
// per the connection's codec settings and enqueues the bytes for the
// writer goroutine. A full send queue drops the line rather than
// blocking the caller — the connection is presumed stalled and will be
// swept.
func (c *Connection) WriteLine(line string) {
	encoded := c.codec.EncodeOutbound(line)
	if len(encoded) == 0 || encoded[len(encoded)-1] != '\n' {
		encoded += "\r\n"
	}
	select {
	case c.sendCh <- []byte(encoded):
	default:
	}
}

// WriteRaw enqueues pre-encoded bytes, used for telnet negotiation
// replies which must not pass through color substitution.
func (c *Connection) WriteRaw(b []byte) {
	if len(b) == 0 {
		return
	}
	select {
	case c.sendCh <- b:
	default:
	}
}

// RunWriter drains sendCh to the socket until the connection closes.
// Intended to run as its own goroutine, the connection's dedicated
// writer.
func (c *Connection) RunWriter() {
	for {
		select {
		case b, ok := <-c.sendCh:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if _, err := c.conn.Write(b); err != nil {
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

// ReadRaw reads the next chunk of bytes from the socket; used by the
// reader goroutine which feeds them through Codec.Feed.
func (c *Connection) ReadRaw(buf []byte) (int, error) {
	return c.conn.Read(buf)
}
