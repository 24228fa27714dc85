/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmdutil

import (
	"net/http"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
)

// HTTPHandler binds a REST route to the func serving it.
type HTTPHandler struct {
	path, method string
	handle       http.HandlerFunc
}

// NewHTTPHandler returns a route for method requests on path.
func NewHTTPHandler(path, method string, handle http.HandlerFunc) *HTTPHandler {
	return &HTTPHandler{path: path, method: method, handle: handle}
}

// Path returns the route path, possibly holding mux variables.
func (h *HTTPHandler) Path() string { return h.path }

// Method returns the HTTP method of the route.
func (h *HTTPHandler) Method() string { return h.method }

// Handle returns the func serving the route.
func (h *HTTPHandler) Handle() http.HandlerFunc { return h.handle }

// String renders the route as "METHOD path".
func (h *HTTPHandler) String() string { return h.method + " " + h.path }

// CommandHandler binds a controller command method to its executor.
type CommandHandler struct {
	name, method string
	exec         command.Exec
}

// NewCommandHandler returns the handler of method within the name command group.
func NewCommandHandler(name, method string, exec command.Exec) *CommandHandler {
	return &CommandHandler{name: name, method: method, exec: exec}
}

// Name returns the command group.
func (c *CommandHandler) Name() string { return c.name }

// Method returns the command method.
func (c *CommandHandler) Method() string { return c.method }

// Handle returns the executor of the command.
func (c *CommandHandler) Handle() command.Exec { return c.exec }

// String renders the handler as "name.method".
func (c *CommandHandler) String() string { return c.name + "." + c.method }
