package deliveryControllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type statusEvent struct {
	OrderID uint      `json:"order_id"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

var (
	trackMu      sync.Mutex
	trackClients = make(map[uint]map[*websocket.Conn]bool)
)

// GET /api/deliveries/track/:order_id
//
// Upgrades to a websocket and streams status changes for one order until the
// client disconnects.
func TrackDelivery(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id := uint(orderID)
	trackMu.Lock()
	if trackClients[id] == nil {
		trackClients[id] = make(map[*websocket.Conn]bool)
	}
	trackClients[id][conn] = true
	trackMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			trackMu.Lock()
			delete(trackClients[id], conn)
			trackMu.Unlock()
			break
		}
	}
}

// BroadcastOrderStatus pushes a status change to every socket tracking the
// order. Write failures drop the client.
func BroadcastOrderStatus(orderID uint, status string) {
	data, err := json.Marshal(statusEvent{OrderID: orderID, Status: status, At: time.Now()})
	if err != nil {
		return
	}

	trackMu.Lock()
	defer trackMu.Unlock()
	for conn := range trackClients[orderID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(trackClients[orderID], conn)
		}
	}
}
