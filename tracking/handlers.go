package tracking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/receipt"
	"storefront/shopapi"
	"storefront/utils"
)

type Handlers struct {
	Tracker  Tracker
	Hub      *Hub
	Watcher  *Watcher // optional
	Receipts receipt.Renderer
	Logger   *zap.Logger
	Upgrader websocket.Upgrader
}

var missingID = utils.Notice{
	Title:       "Order ID Required",
	Description: "Please enter your order ID to track your order.",
	Variant:     utils.VariantDestructive,
}

// Track looks an order up by ?id=. Any lookup failure is the not-found empty
// state rather than an error.
func (h *Handlers) Track(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		utils.RespondWithNotice(w, http.StatusBadRequest, missingID, nil)
		return
	}

	o, err := h.Tracker.TrackOrder(r.Context(), id)
	if err != nil {
		if !errors.Is(err, shopapi.ErrNotFound) {
			h.Logger.Warn("track order", zap.String("order_id", id), zap.Error(err))
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"found": false, "orderId": id})
		return
	}

	p, err := ProgressOf(o.Status)
	if err != nil {
		h.Logger.Warn("order status", zap.String("order_id", id), zap.Error(err))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"found":    true,
		"order":    o,
		"progress": p,
	})
}

// Receipt serves the PDF receipt of an order.
func (h *Handlers) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := strings.TrimSpace(ps.ByName("id"))
	o, err := h.Tracker.TrackOrder(r.Context(), id)
	switch {
	case errors.Is(err, shopapi.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	case err != nil:
		h.Logger.Error("receipt lookup", zap.String("order_id", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load order")
		return
	}

	var buf bytes.Buffer
	if err := h.Receipts.Render(&buf, *o, Label(o.Status)); err != nil {
		h.Logger.Error("render receipt", zap.String("order_id", id), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+o.OrderID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Stream upgrades to a websocket that receives an Update whenever the order
// changes. The current state is sent first when the order can be found.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := strings.TrimSpace(ps.ByName("id"))
	if id == "" {
		utils.RespondWithNotice(w, http.StatusBadRequest, missingID, nil)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Debug("websocket upgrade", zap.Error(err))
		return
	}
	client := &Client{Conn: conn, Send: make(chan []byte, 16), Room: id}

	if o, err := h.Tracker.TrackOrder(r.Context(), id); err == nil {
		if data, err := json.Marshal(progressUpdate(o)); err == nil {
			client.Send <- data
		}
		if h.Watcher != nil {
			h.Watcher.Seen(id, o.Status)
		}
	}

	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	go writePump(client)
	go readPump(client, h.Hub)
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump discards client frames and unregisters on disconnect.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.Unregister(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
