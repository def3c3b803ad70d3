package echoapi

import (
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	wssvc "github.com/mwalimu/ratiba/services/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// registerWebsocketAPI wires the live-update socket. Clients receive
// post.moved / post.updated events broadcast by the schedule service.
func registerWebsocketAPI(g *echo.Group, deps ServerDeps) {
	g.GET("/ws", func(ctx echo.Context) error {
		conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
		if err != nil {
			return errors.Wrap(err, "upgrading connection")
		}

		client := wssvc.NewClient(deps.Hub, conn)
		deps.Hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
		return nil
	})
}
