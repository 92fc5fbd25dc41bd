package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// ConsoleMessage is one line of render output forwarded to the browser console
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger is a core.Logger that mirrors renderer output into the server log and a
// per-render console channel
type WebLogger struct {
	renderID string
	console  chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one render. A nil channel logs to glog only.
func NewWebLogger(renderID string, console chan<- ConsoleMessage) core.Logger {
	return &WebLogger{renderID: renderID, console: console}
}

func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	glog.InfoDepth(1, wl.renderID+": "+strings.TrimSuffix(message, "\n"))

	if wl.console == nil {
		return
	}
	msg := ConsoleMessage{RenderID: wl.renderID, Message: message, Timestamp: time.Now(), Level: "info"}
	// Never stall the render on a slow client
	select {
	case wl.console <- msg:
	default:
	}
}
