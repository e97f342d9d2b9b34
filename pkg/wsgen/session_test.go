package wsgen

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	messageType int
	data        []byte
}

type fakeConn struct {
	mu         sync.Mutex
	frames     []frame
	controlErr error
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame{messageType, data})
	return nil
}

func (c *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	if c.controlErr != nil {
		return c.controlErr
	}
	return c.WriteMessage(messageType, data)
}

func (c *fakeConn) Close() error { return nil }

func TestSession_Identity(t *testing.T) {
	a := NewSession("/user", "10.0.0.1:5000", &fakeConn{})
	b := NewSession("/user", "10.0.0.2:5000", &fakeConn{})

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "/user", a.Path())
	assert.Equal(t, "10.0.0.1:5000", a.RemoteAddr())
}

func TestSession_Attributes(t *testing.T) {
	s := NewSession("/user", "", &fakeConn{})

	_, ok := s.Get("user")
	assert.False(t, ok)

	s.Set("user", "bob")
	v, ok := s.Get("user")
	require.True(t, ok)
	assert.Equal(t, "bob", v)

	s.Delete("user")
	_, ok = s.Get("user")
	assert.False(t, ok)
}

func TestSession_SendAndClose(t *testing.T) {
	conn := &fakeConn{}
	s := NewSession("/user", "", conn)

	require.NoError(t, s.SendText("hello"))
	require.NoError(t, s.SendJSON(map[string]int{"n": 1}))
	assert.False(t, s.Closed())

	require.NoError(t, s.Close(CloseStatus{Code: CloseGoingAway, Reason: "restart"}))
	require.NoError(t, s.Close(CloseStatus{Code: CloseNormalClosure}))
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.SendText("late"), ErrSessionClosed)

	status, ok := s.localCloseStatus()
	require.True(t, ok)
	assert.Equal(t, CloseGoingAway, status.Code)

	require.Len(t, conn.frames, 3)
	assert.Equal(t, "hello", string(conn.frames[0].data))
	assert.JSONEq(t, `{"n":1}`, string(conn.frames[1].data))
	assert.Equal(t, CloseMessage, conn.frames[2].messageType)
	assert.Equal(t, websocket.FormatCloseMessage(1001, "restart"), conn.frames[2].data)
}

func TestSession_CloseAfterTransportSentClose(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"gorilla", websocket.ErrCloseSent, false},
		{"fasthttp", fastws.ErrCloseSent, false},
		{"other failure", net.ErrClosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("/user", "", &fakeConn{controlErr: tt.err})
			err := s.Close(CloseStatus{Code: CloseNormalClosure})
			if tt.wantErr {
				assert.True(t, errors.Is(err, tt.err))
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, s.Closed())
		})
	}
}

func TestGorillaCloseStatus(t *testing.T) {
	status, ok := GorillaCloseStatus(&websocket.CloseError{Code: websocket.CloseNormalClosure, Text: "bye"})
	require.True(t, ok)
	assert.Equal(t, CloseStatus{Code: CloseNormalClosure, Reason: "bye"}, status)

	// a dropped connection surfaces as a synthetic 1006 close error
	_, ok = GorillaCloseStatus(&websocket.CloseError{Code: websocket.CloseAbnormalClosure, Text: "unexpected EOF"})
	assert.False(t, ok)

	_, ok = GorillaCloseStatus(net.ErrClosed)
	assert.False(t, ok)
}

func TestUpgradeSettings(t *testing.T) {
	defaults := UpgradeSettings()
	assert.Equal(t, 1024, defaults.ReadBufferSize)
	assert.Equal(t, 1024, defaults.WriteBufferSize)
	assert.Nil(t, defaults.CheckOrigin)

	cfg := UpgradeSettings(WithBufferSizes(4096, 2048), WithCheckOrigin(func(*http.Request) bool { return true }))
	assert.Equal(t, 4096, cfg.ReadBufferSize)
	assert.Equal(t, 2048, cfg.WriteBufferSize)
	require.NotNil(t, cfg.CheckOrigin)
	assert.True(t, cfg.CheckOrigin(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSession_ConcurrentWrites(t *testing.T) {
	conn := &fakeConn{}
	s := NewSession("/user", "", conn)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SendText("x"))
		}()
	}
	wg.Wait()
	assert.Len(t, conn.frames, 20)
}

func TestServe_UsesPeerStatusFromConn(t *testing.T) {
	d := newUserDispatcher()
	Serve(NewSession("/user", "", &fakeConn{}), d)
	assert.Equal(t, CloseNormalClosure, d.waitClosed(t).Code)
}
