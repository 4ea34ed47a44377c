package chat

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// writePump отправляет события из очереди клиенту и поддерживает heartbeat (PING)
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod) // Периодический PING для проверки соединения
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Закрываем соединение при завершении
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл очередь — прощаемся с клиентом
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("write error to %s: %v", c.addr, err)
				}
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Завершаем при ошибке PING
			}
		}
	}
}
