package adapters

import (
	"errors"
	"net/http"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/toyz/wsgen/pkg/wsgen"
)

// FiberRegistrar binds dispatchers as GET routes on a Fiber router. Fiber
// runs on fasthttp, so connections are upgraded with fasthttp/websocket.
type FiberRegistrar struct {
	router   fiber.Router
	opts     []wsgen.Option
	Upgrader fastws.FastHTTPUpgrader
}

// NewFiberRegistrar creates a registrar for router. Buffer sizes and the
// origin check set with wsgen options configure Upgrader.
func NewFiberRegistrar(router fiber.Router, opts ...wsgen.Option) *FiberRegistrar {
	cfg := wsgen.UpgradeSettings(opts...)
	upgrader := fastws.FastHTTPUpgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if cfg.CheckOrigin != nil {
		upgrader.CheckOrigin = fastHTTPCheckOrigin(cfg.CheckOrigin)
	}
	return &FiberRegistrar{
		router:   router,
		opts:     append([]wsgen.Option{wsgen.WithCloseErrorDecoder(FastHTTPCloseStatus)}, opts...),
		Upgrader: upgrader,
	}
}

// fastHTTPCheckOrigin runs a net/http origin check against a fasthttp request
func fastHTTPCheckOrigin(check func(r *http.Request) bool) func(ctx *fasthttp.RequestCtx) bool {
	return func(ctx *fasthttp.RequestCtx) bool {
		var req http.Request
		if err := fasthttpadaptor.ConvertRequest(ctx, &req, true); err != nil {
			return false
		}
		return check(&req)
	}
}

// Handle binds d to path
func (r *FiberRegistrar) Handle(path string, d wsgen.Dispatcher) {
	r.router.Get(path, func(c *fiber.Ctx) error {
		ctx := c.Context()
		if !fastws.FastHTTPIsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		// the fiber context is released before the hijacked connection is served
		remote := ctx.RemoteAddr().String()
		return r.Upgrader.Upgrade(ctx, func(conn *fastws.Conn) {
			wsgen.Serve(wsgen.NewSession(path, remote, conn), d, r.opts...)
		})
	})
}

// FastHTTPCloseStatus decodes close errors from fasthttp/websocket
// connections. A 1006 close error means the connection dropped without a
// close frame and is not reported as a peer status.
func FastHTTPCloseStatus(err error) (wsgen.CloseStatus, bool) {
	var ce *fastws.CloseError
	if errors.As(err, &ce) && ce.Code != fastws.CloseAbnormalClosure {
		return wsgen.CloseStatus{Code: wsgen.CloseCode(ce.Code), Reason: ce.Text}, true
	}
	return wsgen.CloseStatus{}, false
}

// AllowAnyOrigin is an Upgrader.CheckOrigin that accepts cross-origin upgrades
func AllowAnyOrigin(*fasthttp.RequestCtx) bool { return true }

var _ wsgen.Registrar = (*FiberRegistrar)(nil)
