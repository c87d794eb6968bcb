package dialer

import (
	"io"
	"net"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Conn is an established connection owned by a single exchange. It's never
// reused: the first failed read or write closes it.
type Conn struct {
	net.Conn
	reqID    string
	isClosed atomic.Bool
}

func newConn(c net.Conn, reqID string) *Conn {
	return &Conn{Conn: c, reqID: reqID}
}

func (c *Conn) Closed() bool {
	return c.isClosed.Load()
}

func (c *Conn) Write(p []byte) (n int, err error) {
	n, err = c.Conn.Write(p)
	if err != nil {
		if err != io.EOF && !c.Closed() {
			log.WithField("req_id", c.reqID).Debugf("conn: error on write. %v", err)
		}
		c.Close()
	}
	return
}

func (c *Conn) Read(p []byte) (n int, err error) {
	n, err = c.Conn.Read(p)
	if err != nil {
		if err != io.EOF && !c.Closed() {
			log.WithField("req_id", c.reqID).Debugf("conn: error on read. %v", err)
		}
		c.Close()
	}
	return n, err
}

func (c *Conn) Close() error {
	if c.isClosed.Swap(true) {
		return nil
	}
	return c.Conn.Close()
}
