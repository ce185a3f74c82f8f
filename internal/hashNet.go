package internal

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/gommon/bytes"
	"github.com/sirupsen/logrus"
)

type handleKind int

const (
	handleListener handleKind = iota
	handleConnection
)

// hashHandle is an opaque reference to a tcp listener or connection
type hashHandle struct {
	kind handleKind

	mu     sync.Mutex
	closed bool

	// scope is where a connection was accepted. The connection is
	// closed when that scope ends, unless it was retained.
	scope    *env
	retained bool

	listener net.Listener
	conn     net.Conn
}

func (h *hashHandle) getOperator(op operator) (operatorApply, error) {
	return nil, errUndefinedOp
}

func (h *hashHandle) String() string {
	if h.kind == handleListener {
		return "<handle TcpListener>"
	}
	return "<handle TcpStream>"
}

// close is safe to call more than once
func (h *hashHandle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.kind == handleListener {
		return h.listener.Close()
	}
	return h.conn.Close()
}

func (h *hashHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// retain keeps the connection open until tcp#close or the end of its unit
func (h *hashHandle) retain() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retained = true
}

// widen moves the connection to e when e outlives its scope
func (h *hashHandle) widen(e *env) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.retained || h.scope == nil || h.scope == e {
		return
	}
	if e.encloses(h.scope) {
		h.scope = e
	}
}

func (h *hashHandle) endsWith(scope *env) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.retained && h.scope != nil && h.scope == scope
}

func (h *hashHandle) rescope(scope *env) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scope = scope
}

// retain keeps value open if it is a connection stored somewhere that
// outlives its scope
func retain(value interface{}) {
	if h, ok := value.(*hashHandle); ok && h.kind == handleConnection {
		h.retain()
	}
}

func argHandle(name string, arguments []interface{}, i int, kind handleKind) (*hashHandle, error) {
	h, ok := arguments[i].(*hashHandle)
	if !ok {
		expected := errExpectedConnection
		if kind == handleListener {
			expected = errExpectedListener
		}
		return nil, fmt.Errorf("%w: %s argument %d is %s", expected, name, i+1, typeName(arguments[i]))
	}
	if h.kind != kind {
		expected := errExpectedConnection
		if kind == handleListener {
			expected = errExpectedListener
		}
		return nil, fmt.Errorf("%w: %s argument %d is %s", expected, name, i+1, h)
	}
	if h.isClosed() {
		return nil, fmt.Errorf("%w: %s argument %d", errClosedHandle, name, i+1)
	}
	return h, nil
}

func defineNet(t builtinTable) {
	t.define("tcp#bind", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		host, err := argString("tcp#bind", arguments, 0)
		if err != nil {
			return nil, err
		}
		port, err := argInt("tcp#bind", arguments, 1)
		if err != nil {
			return nil, err
		}
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		h := &hashHandle{kind: handleListener, listener: listener}
		exec.unit.own(h)
		exec.unit.log.WithField("addr", listener.Addr().String()).Info("listening")
		return h, nil
	})

	t.define("tcp#getconn", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		l, err := argHandle("tcp#getconn", arguments, 0, handleListener)
		if err != nil {
			return nil, err
		}
		conn, err := l.listener.Accept()
		if err != nil {
			if l.isClosed() {
				return nil, fmt.Errorf("%w: tcp#getconn", errClosedHandle)
			}
			return nil, err
		}
		h := &hashHandle{kind: handleConnection, conn: conn, scope: exec.env}
		exec.unit.own(h)
		exec.unit.log.WithField("remote", conn.RemoteAddr().String()).Debug("connection accepted")
		return h, nil
	})

	t.define("tcp#readstr", 1, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		c, err := argHandle("tcp#readstr", arguments, 0, handleConnection)
		if err != nil {
			return nil, err
		}
		size := exec.runtime.config.TCP.ReadBuffer
		if len(arguments) == 2 {
			size, err = argInt("tcp#readstr", arguments, 1)
			if err != nil {
				return nil, err
			}
			if size <= 0 {
				return nil, fmt.Errorf("%w: tcp#readstr length %d", errInvalidRange, size)
			}
		}
		buf := make([]byte, size)
		n, err := c.conn.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		exec.unit.log.WithFields(logrus.Fields{
			"remote": c.conn.RemoteAddr().String(),
			"read":   bytes.Format(int64(n)),
		}).Debug("tcp read")
		return hashString(strings.ToValidUTF8(string(buf[:n]), "�")), nil
	})

	t.define("tcp#write", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		c, err := argHandle("tcp#write", arguments, 0, handleConnection)
		if err != nil {
			return nil, err
		}
		n, err := io.WriteString(c.conn, printObj(arguments[1]))
		if err != nil {
			return nil, err
		}
		exec.unit.log.WithFields(logrus.Fields{
			"remote":  c.conn.RemoteAddr().String(),
			"written": bytes.Format(int64(n)),
		}).Debug("tcp write")
		return nil, nil
	})

	t.define("tcp#close", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		h, ok := arguments[0].(*hashHandle)
		if !ok {
			return nil, fmt.Errorf("%w: tcp#close argument 1 is %s", errExpectedHandle, typeName(arguments[0]))
		}
		exec.unit.disown(h)
		return nil, h.close()
	})
}
