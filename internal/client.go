package internal

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/frankli0324/go-fetch/internal/dialer"
	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport"
)

type PreparedRequest = http.PreparedRequest

type Handler = func(ctx context.Context, req *PreparedRequest) (*http.Response, error)
type Middleware func(next Handler) Handler

type Dialer = http.Dialer

var defaultDialer = &dialer.CoreDialer{
	TLSConfig:   &tls.Config{},
	DialTimeout: 30 * time.Second,
}

// Client sends requests, one connection per request. A Client is safe for
// concurrent use once configured.
type Client struct {
	middlewares []Middleware
	dialer      Dialer

	MaxHeaderBytes    int   // 64KiB if zero
	MaxChunkLineBytes int   // 4KiB if zero
	MaxBodySize       int64 // unlimited if zero
}

// Use appends mw to the end of the chain. The last "Use"d mw executes first
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer replaces the dialer with the one returned by f, which receives
// the current one. It's the default *[dialer.CoreDialer] at first.
func (c *Client) UseDialer(f func(Dialer) Dialer) {
	if c.dialer == nil {
		c.dialer = defaultDialer.Clone()
	}
	c.dialer = f(c.dialer)
}

// UseCoreDialer calls f with the *[dialer.CoreDialer] at the bottom of the
// current dialer chain, if there's one. f must not modify a dialer already
// in use by concurrent requests.
func (c *Client) UseCoreDialer(f func(*dialer.CoreDialer) Dialer) {
	c.UseDialer(func(d Dialer) Dialer {
		if cd, ok := d.(*dialer.CoreDialer); ok {
			return f(cd)
		}
		for inner := d; inner != nil; inner = inner.Unwrap() {
			if cd, ok := inner.(*dialer.CoreDialer); ok {
				f(cd)
				break
			}
		}
		return d
	})
}

func (c *Client) dial(ctx context.Context, req *PreparedRequest) (io.ReadWriteCloser, error) {
	if c.dialer != nil {
		return c.dialer.Dial(ctx, req)
	}
	return defaultDialer.Dial(ctx, req)
}

func (c *Client) transport() transport.HTTP1 {
	return transport.HTTP1{
		MaxHeaderBytes:    c.MaxHeaderBytes,
		MaxChunkLineBytes: c.MaxChunkLineBytes,
		MaxBodySize:       c.MaxBodySize,
	}
}

// CtxDo sends req and returns as soon as the response head is read. A
// request can be sent only once, whatever the outcome of the first send.
// ctx covers the whole exchange, body streaming included: cancelling it
// before the body is drained or closed breaks the connection.
func (c *Client) CtxDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := req.MarkSent(); err != nil {
		return nil, err
	}
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	next := c.roundTrip
	for i := 0; i < len(c.middlewares); i++ {
		next = c.middlewares[i](next)
	}
	resp, err := next(ctx, pr)
	if err != nil {
		closeBody(pr)
	}
	return resp, err
}

// closeBody closes a body source that was never handed to the writer.
// A one-shot source already taken reports an error and is left alone.
func closeBody(pr *PreparedRequest) {
	if pr.GetBody == nil {
		return
	}
	if body, err := pr.GetBody(); err == nil {
		body.Close()
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.CtxDo(context.Background(), req)
}

func (c *Client) roundTrip(ctx context.Context, pr *PreparedRequest) (*http.Response, error) {
	logger := log.WithField("req_id", pr.ID())

	conn, err := c.dial(ctx, pr)
	if err != nil {
		closeBody(pr)
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	fail := func(err error) (*http.Response, error) {
		stop()
		conn.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return nil, err
	}

	t := c.transport()
	if err := t.WriteRequest(conn, pr); err != nil {
		return fail(err)
	}
	logger.WithFields(log.Fields{
		"method": pr.Method, "url": pr.U.Redacted(), "framing": pr.Framing.String(),
	}).Debug("request sent")

	resp := &http.Response{RequestID: pr.ID()}
	body, err := t.ReadResponse(bufio.NewReader(conn), pr.Method, resp)
	if err != nil {
		return fail(err)
	}
	logger.WithFields(log.Fields{
		"status": resp.StatusCode, "framing": resp.Framing.String(),
	}).Debug("response head read")

	resp.Attach(body, func() {
		stop()
		conn.Close()
	})
	return resp, nil
}
