package controlplane

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/samthor/keepalive/internal/queue"
)

// Transport is the control-plane's websocket session, typed to the two
// messages it actually exchanges: status events out, restart requests in.
type Transport interface {
	// ReadRestart decodes the next inbound restart command.
	ReadRestart() (restartRequest, error)

	// SendStatus writes a status event to the client.
	SendStatus(ev queue.StatusEvent) error

	// Context is done when the underlying connection has closed.
	Context() context.Context
}

type socketTransport struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	sock   *websocket.Conn
}

func (s *socketTransport) Context() context.Context { return s.ctx }

func (s *socketTransport) ReadRestart() (restartRequest, error) {
	var in restartRequest
	err := wsjson.Read(s.ctx, s.sock, &in)
	if err != nil {
		s.cancel(err)
	}
	return in, err
}

func (s *socketTransport) SendStatus(ev queue.StatusEvent) error {
	err := wsjson.Write(s.ctx, s.sock, ev)
	if err != nil {
		s.cancel(err)
	}
	return err
}

// SocketJSON wraps an open websocket.Conn as a Transport that reads and
// writes the control-plane's JSON messages. The returned context is
// canceled once a read or send fails, which in turn closes the socket;
// canceling with a websocket.CloseError closes the socket with that code
// and reason.
func SocketJSON(ctx context.Context, sock *websocket.Conn) (t Transport, cancel context.CancelCauseFunc) {
	socketCtx, cancel := context.WithCancelCause(ctx)

	context.AfterFunc(socketCtx, func() {
		cause := context.Cause(socketCtx)
		var closeError websocket.CloseError

		switch {
		case errors.As(cause, &closeError):
			sock.Close(closeError.Code, closeError.Reason)
		case cause != context.Canceled:
			sock.Close(websocket.StatusInternalError, "")
		default:
			sock.Close(websocket.StatusNormalClosure, "")
		}
	})

	return &socketTransport{
		ctx:    socketCtx,
		cancel: cancel,
		sock:   sock,
	}, cancel
}
