// Package transfer implements the loopback file-transfer exchange: a
// length-prefixed metadata header followed by the raw file bytes, answered by
// a boolean flag and a message.
package transfer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire format, in order:
//
//	client → server: name   2-byte big-endian length + UTF-8 bytes
//	                 size   8-byte big-endian
//	                 action 2-byte big-endian length + UTF-8 bytes ("copy"|"move")
//	                 body   exactly `size` raw bytes
//	server → client: ok     1 byte (0 or 1)
//	                 msg    2-byte big-endian length + UTF-8 bytes
//
// There is no version field and no checksum.

const maxStringLen = 1<<16 - 1

// Header is the metadata sent before the file body
type Header struct {
	Name   string
	Size   int64
	Action string
}

// Response is the peer's reply after the body has been consumed
type Response struct {
	OK      bool
	Message string
}

func writeString(w io.Writer, s string) error {
	if len(s) > maxStringLen {
		return fmt.Errorf("string too long for wire format: %d bytes", len(s))
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteHeader writes the metadata header to the connection.
func WriteHeader(w io.Writer, h Header) error {
	if err := writeString(w, h.Name); err != nil {
		return fmt.Errorf("failed to write name: %w", err)
	}
	var sizeBuf [8]byte
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(h.Size))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return fmt.Errorf("failed to write size: %w", err)
	}
	if err := writeString(w, h.Action); err != nil {
		return fmt.Errorf("failed to write action: %w", err)
	}
	return nil
}

// ReadHeader reads the metadata header from the connection.
func ReadHeader(r io.Reader) (Header, error) {
	name, err := readString(r)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read name: %w", err)
	}
	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return Header{}, fmt.Errorf("failed to read size: %w", err)
	}
	size := int64(binary.BigEndian.Uint64(sizeBuf[:]))
	if size < 0 {
		return Header{}, fmt.Errorf("invalid size: %d", size)
	}
	action, err := readString(r)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read action: %w", err)
	}
	return Header{Name: name, Size: size, Action: action}, nil
}

// WriteResponse writes the peer's reply.
func WriteResponse(w io.Writer, resp Response) error {
	ok := byte(0)
	if resp.OK {
		ok = 1
	}
	if _, err := w.Write([]byte{ok}); err != nil {
		return fmt.Errorf("failed to write flag: %w", err)
	}
	if err := writeString(w, resp.Message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// ReadResponse reads the peer's reply.
func ReadResponse(r io.Reader) (Response, error) {
	var flag [1]byte
	if _, err := io.ReadFull(r, flag[:]); err != nil {
		return Response{}, fmt.Errorf("failed to read flag: %w", err)
	}
	msg, err := readString(r)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read message: %w", err)
	}
	return Response{OK: flag[0] != 0, Message: msg}, nil
}
