package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// Server is the loopback counterpart of Client: it accepts connections,
// parses the exchange, and writes received files to a directory.
type Server struct {
	dir      string
	listener net.Listener
	wg       sync.WaitGroup

	// OnReceive, when set, is called after each successfully stored file.
	OnReceive func(name string, size int64, path string)
}

// NewServer creates a receiver that stores files under dir
func NewServer(dir string) *Server {
	return &Server{dir: dir}
}

// Listen binds to 127.0.0.1:port. Port 0 picks a free port.
func (s *Server) Listen(port int) error {
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", fmt.Sprint(port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	return nil
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve accepts connections until the context is cancelled or the listener is
// closed. Each connection is handled on its own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			if err := s.handle(conn); err != nil {
				log.Printf("transfer: receive failed: %v", err)
			}
		}()
	}

	s.wg.Wait()
	return nil
}

// Close stops the listener.
func (s *Server) Close() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) handle(conn net.Conn) error {
	br := bufio.NewReader(conn)

	header, err := ReadHeader(br)
	if err != nil {
		return err
	}

	path, err := s.store(br, header)
	if err != nil {
		// Best-effort rejection; the sender may already be gone.
		WriteResponse(conn, Response{OK: false, Message: err.Error()})
		return err
	}

	if err := WriteResponse(conn, Response{OK: true, Message: "ok"}); err != nil {
		return err
	}

	if s.OnReceive != nil {
		s.OnReceive(header.Name, header.Size, path)
	}
	return nil
}

// store writes exactly header.Size bytes to a uniquely named file under the
// target directory.
func (s *Server) store(r io.Reader, header Header) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create target dir: %w", err)
	}

	path := s.uniquePath(filepath.Base(header.Name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := io.CopyN(f, r, header.Size); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to receive body of %s: %w", header.Name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// uniquePath suffixes the name with a counter when it collides with an
// existing file.
func (s *Server) uniquePath(name string) string {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	for i := 1; ; i++ {
		candidate := filepath.Join(s.dir, fmt.Sprintf("%s (%d)%s", base, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
