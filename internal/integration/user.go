// Package integration holds controllers together with the dispatchers and
// registry wsgen generates for them. The tests check that the committed
// output matches what the generator renders today and drive it end to end.
package integration

import (
	"fmt"
	"sync"

	"github.com/toyz/wsgen/pkg/wsgen"
)

// LoginPayload is the body of a login message
type LoginPayload struct {
	Name string `json:"name" validate:"required"`
}

// UserController answers /user. Its zero value is ready to use.
//
//wsgen::controller -Path=/user -Key=id
type UserController struct {
	mu     sync.Mutex
	events []string
	closed []wsgen.CloseStatus
}

//wsgen::handler login
func (c *UserController) HandleLogin(session *wsgen.Session, payload LoginPayload) {
	session.Set("user", payload.Name)
	c.record("login:" + payload.Name)
}

//wsgen::handler logout
func (c *UserController) HandleLogout(session *wsgen.Session) {
	name, _ := session.Get("user")
	session.Delete("user")
	c.record(fmt.Sprintf("logout:%v", name))
}

//wsgen::close
func (c *UserController) Closed(session *wsgen.Session, status wsgen.CloseStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = append(c.closed, status)
}

func (c *UserController) record(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns the handled messages in order
func (c *UserController) Events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// Closures returns the statuses the close hook received
func (c *UserController) Closures() []wsgen.CloseStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]wsgen.CloseStatus(nil), c.closed...)
}
