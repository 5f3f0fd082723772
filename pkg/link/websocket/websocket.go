// Package websocket carries frame bytes over websocket binary messages.
package websocket

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/link"
)

// Path is where the watch accepts companion connections.
const Path = "/link"

// Handler feeds the messages of every connection into Device.
type Handler struct {
	Device link.Device
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(h.serve).ServeHTTP(w, r)
}

func (h *Handler) serve(conn *websocket.Conn) {
	defer conn.Close()
	glog.Infof("websocket companion connected from %s", conn.Request().RemoteAddr)
	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			glog.V(2).Infof("websocket companion gone: %v", err)
			return
		}
		if len(data) == 0 {
			continue
		}
		if _, err := h.Device.Write(data); err != nil {
			glog.Errorf("websocket companion %s: %v", conn.Request().RemoteAddr, err)
			return
		}
	}
}

// Server listens on Addr and serves Handler at Path.
type Server struct {
	Addr   string
	Device link.Device

	listener net.Listener
}

// Listen binds the listening socket, Run will call it if needed.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// ListenAddr returns the bound address.
func (s *Server) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(Path, &Handler{Device: s.Device})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	glog.Infof("websocket link on %s", s.listener.Addr())
	err := fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(s.listener)
	})
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Conn is the companion side of the link.
type Conn struct {
	ws *websocket.Conn
}

// Dial connects to the watch at addr (host:port).
func Dial(addr string) (*Conn, error) {
	ws, err := websocket.Dial("ws://"+addr+Path, "", "http://"+addr+"/")
	if err != nil {
		return nil, err
	}
	return &Conn{ws: ws}, nil
}

// Send writes one chunk of frame bytes.
func (c *Conn) Send(data []byte) error {
	return websocket.Message.Send(c.ws, data)
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	return c.ws.Close()
}
