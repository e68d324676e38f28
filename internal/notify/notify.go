// Package notify carries one-shot flash messages from the request that
// produced them to the next page the user sees.
package notify

import (
	"github.com/labstack/echo/v4"
)

// Categories used by the templates to pick an alert style.
const (
	Success = "success"
	Failure = "danger"
	Info    = "info"
)

// Message is a single flash notification.
type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

// Store queues messages for the current visitor.  Pop returns every message
// not yet shown, including those added earlier in the same request, and
// clears them.
type Store interface {
	Add(c echo.Context, m Message) error
	Pop(c echo.Context) ([]Message, error)
}

// AddSuccess queues a success message.
func AddSuccess(s Store, c echo.Context, text string) error {
	return s.Add(c, Message{Category: Success, Text: text})
}

// AddFailure queues an error message.
func AddFailure(s Store, c echo.Context, text string) error {
	return s.Add(c, Message{Category: Failure, Text: text})
}
