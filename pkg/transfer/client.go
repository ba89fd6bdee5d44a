package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/relaydrop/cli/pkg/model"
	"github.com/relaydrop/cli/pkg/source"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = 2 * time.Minute
)

// Client sends files to a peer listening on loopback
type Client struct {
	DialTimeout time.Duration
	IOTimeout   time.Duration
}

// NewClient creates a Client with the default timeouts
func NewClient() *Client {
	return &Client{
		DialTimeout: defaultDialTimeout,
		IOTimeout:   defaultIOTimeout,
	}
}

// Result describes a completed or failed transfer attempt
type Result struct {
	Entry    source.Entry
	Port     int
	Action   model.TransferAction
	Response Response
	Err      error
}

// Success reports whether the peer confirmed the transfer.
func (r *Result) Success() bool {
	return r.Err == nil && r.Response.OK
}

// Send delivers the entry's bytes to 127.0.0.1:port and reads back the peer's
// reply. The caller decides what to do with the source afterwards (the move
// action deletes it).
func (c *Client) Send(ctx context.Context, src source.Source, entry source.Entry, port int, action model.TransferAction) Result {
	result := Result{Entry: entry, Port: port, Action: action}

	addr := net.JoinHostPort("127.0.0.1", fmt.Sprint(port))
	dialer := net.Dialer{Timeout: c.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		result.Err = fmt.Errorf("failed to connect to %s: %w", addr, err)
		return result
	}
	defer conn.Close()

	if c.IOTimeout > 0 {
		conn.SetDeadline(time.Now().Add(c.IOTimeout))
	}

	reader, err := src.Open(entry.Key)
	if err != nil {
		result.Err = fmt.Errorf("failed to open %s: %w", entry.Key, err)
		return result
	}
	defer reader.Close()

	bw := bufio.NewWriter(conn)
	header := Header{Name: entry.Name, Size: entry.Size, Action: string(action)}
	if err := WriteHeader(bw, header); err != nil {
		result.Err = fmt.Errorf("failed to send header: %w", err)
		return result
	}
	if _, err := io.CopyN(bw, reader, entry.Size); err != nil {
		result.Err = fmt.Errorf("failed to send body: %w", err)
		return result
	}
	if err := bw.Flush(); err != nil {
		result.Err = fmt.Errorf("failed to flush: %w", err)
		return result
	}

	resp, err := ReadResponse(conn)
	if err != nil {
		result.Err = fmt.Errorf("failed to read response: %w", err)
		return result
	}
	result.Response = resp

	if !resp.OK {
		result.Err = fmt.Errorf("peer rejected transfer: %s", resp.Message)
	}
	return result
}
