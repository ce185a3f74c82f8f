package internal

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func newTestExec(rt *Runtime) *exec {
	globals := newEnv(nil)
	return &exec{
		runtime: rt,
		state:   newInterpreterState("", "", rt.printer),
		unit:    newUnit(rt.logger, "test"),
		globals: globals,
		env:     globals,
	}
}

func callBuiltin(t *testing.T, e *exec, name string, arguments ...interface{}) interface{} {
	t.Helper()
	value, err := e.runtime.builtins[name].call(e, arguments)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return value
}

func TestTcpBuiltins(t *testing.T) {
	rt := NewRuntime(Options{Printer: &testPrinter{}})
	e := newTestExec(rt)

	l := callBuiltin(t, e, "tcp#bind", hashString("127.0.0.1"), hashNumber(0)).(*hashHandle)
	if l.String() != "<handle TcpListener>" {
		t.Errorf("unexpected listener %s", l)
	}
	addr := l.listener.Addr().String()

	reply := make(chan string, 1)
	go func() {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			reply <- err.Error()
			return
		}
		defer conn.Close()
		conn.Write([]byte("ping"))
		b, _ := io.ReadAll(conn)
		reply <- string(b)
	}()

	c := callBuiltin(t, e, "tcp#getconn", l).(*hashHandle)
	if c.String() != "<handle TcpStream>" {
		t.Errorf("unexpected connection %s", c)
	}
	if msg := callBuiltin(t, e, "tcp#readstr", c, hashNumber(4)); msg != hashString("ping") {
		t.Errorf("expected ping, got %v", msg)
	}
	callBuiltin(t, e, "tcp#write", c, hashString("pong "))
	callBuiltin(t, e, "tcp#write", c, hashNumber(1))
	callBuiltin(t, e, "tcp#close", c)

	if got := <-reply; got != "pong 1" {
		t.Errorf("client received %q", got)
	}

	_, err := rt.builtins["tcp#write"].call(e, []interface{}{c, hashString("x")})
	if !errors.Is(err, errClosedHandle) || KindOf(err) != IOError {
		t.Errorf("write on closed handle should fail with IOError, got %v", err)
	}

	_, err = rt.builtins["tcp#readstr"].call(e, []interface{}{l})
	if !errors.Is(err, errExpectedConnection) {
		t.Errorf("readstr on a listener should fail, got %v", err)
	}
	_, err = rt.builtins["tcp#getconn"].call(e, []interface{}{hashString("x")})
	if !errors.Is(err, errExpectedListener) {
		t.Errorf("getconn on a string should fail, got %v", err)
	}

	// Handles still owned are closed with their unit
	e.unit.close()
	if !l.isClosed() {
		t.Error("listener should be closed with its unit")
	}
}

func TestTcpReadEOF(t *testing.T) {
	rt := NewRuntime(Options{Printer: &testPrinter{}})
	e := newTestExec(rt)
	defer e.unit.close()

	l := callBuiltin(t, e, "tcp#bind", hashString("127.0.0.1"), hashNumber(0)).(*hashHandle)
	go func() {
		conn, err := net.Dial("tcp", l.listener.Addr().String())
		if err == nil {
			conn.Close()
		}
	}()
	c := callBuiltin(t, e, "tcp#getconn", l)
	if msg := callBuiltin(t, e, "tcp#readstr", c); msg != hashString("") {
		t.Errorf("expected empty string at end of stream, got %v", msg)
	}
}

func TestBindError(t *testing.T) {
	checkErrorMsg(
		t,
		`tcp#bind(1, 80)`,
		"BuiltinArgumentError: Expected string: tcp#bind argument 1 is number",
		1,
	)

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()
	port := taken.Addr().(*net.TCPAddr).Port

	tp := &testPrinter{}
	RunSourceWithPrinter("", fmt.Sprintf(`tcp#bind("127.0.0.1", %d)`, port), tp)
	if out := tp.Output(); !strings.HasPrefix(out, "Runtime Error on line 1\n\tIOError: ") {
		t.Errorf("unexpected output %q", out)
	}
}

const echoServer = `
let l = tcp#bind("127.0.0.1", %d)
fn handle(c) {
	let msg = tcp#readstr(c)
	tcp#write(c, string#upper(msg))
}
let c = tcp#getconn(l)
thread#launch(handle, c)
`

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// dial connects to a script that may not be listening yet
func dial(t *testing.T, port int) net.Conn {
	t.Helper()
	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			return conn
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal(err)
	return nil
}

// readAll reads until the script closes the connection
func readAll(t *testing.T, conn net.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	b, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("connection was not closed: %v", err)
	}
	return string(b)
}

func waitRun(t *testing.T, done chan bool, tp *testPrinter) {
	t.Helper()
	select {
	case ok := <-done:
		if !ok {
			t.Errorf("script failed: %s", tp.Output())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("script did not finish")
	}
}

func TestEchoServer(t *testing.T) {
	port := freePort(t)
	tp := &testPrinter{}

	done := make(chan bool, 1)
	go func() {
		done <- RunSourceWithPrinter("", fmt.Sprintf(echoServer, port), tp)
	}()

	conn := dial(t, port)
	defer conn.Close()

	conn.Write([]byte("hello"))
	// the connection belongs to the launched unit and is closed when it ends
	if got := readAll(t, conn); got != "HELLO" {
		t.Errorf("expected HELLO, got %q", got)
	}
	waitRun(t, done, tp)
}

const httpServer = `
class Response() {
	let _status = "200 OK"
	let _headers = ""
	let _data = ""

	fn status(code) {
		_status = code
	}
	fn header(name, value) {
		_headers += string#format("\r\n{}: {}", name, value)
	}
	fn send(data) {
		_data = data
	}
}

fn handler(req, res) {
	if req.path() === "/hello" {
		res.header("Content-Type", "text/plain")
		res.send(string#format("hello {}", req.headers_get("User-Agent", "stranger")))
	} else {
		res.status("404 Not Found")
	}
}

let listener = tcp#bind("127.0.0.1", %d)
let served = 0
loop {
	if served === 2 { break }
	let conn = tcp#getconn(listener)
	let req = new Request(tcp#readstr(conn))
	let res = new Response()
	handler(req, res)
	tcp#write(conn, string#format(
		"HTTP/1.0 {}{}\n\r\n{}\n",
		class#get(res, "_status"),
		class#get(res, "_headers"),
		class#get(res, "_data"),
	))
	served++
}
let last = tcp#getconn(listener)
tcp#write(last, "bye")
`

func TestHttpServer(t *testing.T) {
	port := freePort(t)
	tp := &testPrinter{}

	done := make(chan bool, 1)
	go func() {
		done <- RunSourceWithPrinter("", requestClass+fmt.Sprintf(httpServer, port), tp)
	}()

	cases := []struct {
		request  string
		response string
	}{
		{
			"GET /hello?lang=en HTTP/1.0\nUser-Agent: curl\n\n",
			"HTTP/1.0 200 OK\r\nContent-Type: text/plain\n\r\nhello curl\n",
		},
		{
			"GET /missing HTTP/1.0\n\n",
			"HTTP/1.0 404 Not Found\n\r\n\n",
		},
	}
	// Connections handled inline are closed at the end of each
	// iteration, so every client sees the end of its response
	for _, c := range cases {
		conn := dial(t, port)
		conn.Write([]byte(c.request))
		if got := readAll(t, conn); got != c.response {
			t.Errorf("%q: expected %q, got %q", c.request, c.response, got)
		}
		conn.Close()
	}

	conn := dial(t, port)
	defer conn.Close()
	if got := readAll(t, conn); got != "bye" {
		t.Errorf("expected bye, got %q", got)
	}
	waitRun(t, done, tp)
}

const connectionScopes = `
let l = tcp#bind("127.0.0.1", %d)
fn accept() {
	let c = tcp#getconn(l)
	return c
}
let kept = accept()
let saved = []
loop {
	let c = tcp#getconn(l)
	array#push(saved, c)
	break
}
let outer = null
if true {
	outer = tcp#getconn(l)
}
if true {
	let dropped = tcp#getconn(l)
}
tcp#readstr(kept)
tcp#write(kept, "1")
tcp#write(array#get(saved, 0), "2")
tcp#write(outer, "3")
`

func TestConnectionLifetime(t *testing.T) {
	port := freePort(t)
	tp := &testPrinter{}

	done := make(chan bool, 1)
	go func() {
		done <- RunSourceWithPrinter("", fmt.Sprintf(connectionScopes, port), tp)
	}()

	conns := make([]net.Conn, 4)
	for i := range conns {
		conns[i] = dial(t, port)
		defer conns[i].Close()
	}

	// The last connection only lived inside its block, it is closed
	// while the script waits on the first one
	if got := readAll(t, conns[3]); got != "" {
		t.Errorf("dropped connection received %q", got)
	}

	conns[0].Write([]byte("go"))
	for i, want := range []string{"1", "2", "3"} {
		if got := readAll(t, conns[i]); got != want {
			t.Errorf("connection %d: expected %q, got %q", i, want, got)
		}
	}
	waitRun(t, done, tp)
}
