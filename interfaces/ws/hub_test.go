package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/C-1995-O1-HALE-POPP/ris-system/infrastructure/persistence/memory"
)

type recordingGauge struct {
	last chan int
}

func (g *recordingGauge) SetWSClients(n int) {
	select {
	case g.last <- n:
	default:
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestHub_BroadcastsAppendedMessages(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange
	log := memory.NewConversationLog(0)
	gauge := &recordingGauge{last: make(chan int, 8)}
	hub := NewHub(gauge, zap.NewNop())
	stop := hub.Follow(log)
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	hello := readEvent(t, conn)
	assert.Equal(t, "connected", hello.Type)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Act
	log.Append(entities.Message{Sender: valueobjects.SenderUser, Content: "你好"})

	// Assert
	ev := readEvent(t, conn)
	assert.Equal(t, "message", ev.Type)
	payload, ok := ev.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "你好", payload["content"])

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	srv.Close()
}

func TestHub_ShutdownDisconnectsClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	readEvent(t, conn)

	cancel()
	<-done

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
}
