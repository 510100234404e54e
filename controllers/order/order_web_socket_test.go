package orderControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
)

// dialOrderSocket connects to the event stream and waits until the server
// side has registered the client, so a broadcast fired right after cannot
// slip past the subscription.
func dialOrderSocket(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsMu.Lock()
	before := len(wsClients)
	wsMu.Unlock()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/orders/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		wsMu.Lock()
		defer wsMu.Unlock()
		return len(wsClients) > before
	}, time.Second, 10*time.Millisecond)
	return conn
}

func readOrderEvent(t *testing.T, conn *websocket.Conn) orderEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev orderEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestCheckoutBroadcastsOrderCreated(t *testing.T) {
	db := newTestDB(t)
	r := newOrderRouter(db)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialOrderSocket(t, srv)

	user, token := createUser(t, db, "alice@example.com", models.RoleUser)
	product := createProduct(t, db, "Keyboard", 49.99)
	seedCart(t, db, user.ID, map[uint]int{product.ID: 2})

	w := doJSON(t, r, http.MethodPost, "/api/orders", token, checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code)

	ev := readOrderEvent(t, conn)
	assert.Equal(t, "order_created", ev.Event)
	assert.Equal(t, user.ID, ev.Order.UserID)
	assert.True(t, strings.HasPrefix(ev.Order.OrderNumber, "ORD-"))
	assert.InDelta(t, 99.98, ev.Order.TotalAmount, 0.001)
	require.Len(t, ev.Order.Items, 1)
	assert.Equal(t, "Keyboard", ev.Order.Items[0].ProductName)
}

func TestStatusUpdateBroadcast(t *testing.T) {
	db := newTestDB(t)
	r := newOrderRouter(db)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dialOrderSocket(t, srv)

	user, _ := createUser(t, db, "alice@example.com", models.RoleUser)
	_, adminToken := createUser(t, db, "admin@example.com", models.RoleAdmin)
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	path := fmt.Sprintf("/api/orders/%d/status", order.ID)
	w := doJSON(t, r, http.MethodPatch, path, adminToken, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, w.Code)

	ev := readOrderEvent(t, conn)
	assert.Equal(t, "order_status_updated", ev.Event)
	assert.Equal(t, order.ID, ev.Order.ID)
	assert.Equal(t, models.OrderStatusProcessing, ev.Order.Status)
}
