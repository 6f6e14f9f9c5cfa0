package socket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordrush/wordrush/game/message"
)

func TestGorillaUpgraderRoundTrip(t *testing.T) {
	u := NewGorillaUpgrader()
	conns := make(chan Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := u.Upgrade(w, r)
		if err != nil {
			t.Errorf("unwanted upgrade error: %v", err)
			return
		}
		conns <- conn
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()
	conn := <-conns
	defer conn.Close()
	assert.NotNil(t, conn.RemoteAddr())

	require.NoError(t, conn.WriteJSON(message.Message{Type: message.TimerUpdate}))
	var fromServer message.Message
	require.NoError(t, client.ReadJSON(&fromServer))
	assert.Equal(t, message.TimerUpdate, fromServer.Type)

	require.NoError(t, client.WriteJSON(message.Message{Type: message.ToggleReady}))
	var fromClient message.Message
	require.NoError(t, conn.ReadJSON(&fromClient))
	assert.Equal(t, message.ToggleReady, fromClient.Type)

	assert.NoError(t, conn.WriteClose(CloseNormal, "bye"))
}

func TestGorillaIsUnexpectedCloseError(t *testing.T) {
	c := new(gorillaConn)
	isUnexpectedCloseErrorTests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "normal closure", err: &websocket.CloseError{Code: websocket.CloseNormalClosure}},
		{name: "going away", err: &websocket.CloseError{Code: websocket.CloseGoingAway}},
		{name: "protocol error", err: &websocket.CloseError{Code: websocket.CloseProtocolError}, want: true},
		{name: "not a close error", err: fmt.Errorf("read tcp: connection reset")},
	}
	for _, test := range isUnexpectedCloseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, c.IsUnexpectedCloseError(test.err))
		})
	}
}
