// Package logging provides per-category structured logging for cs10-linux,
// with the level of each category independently adjustable at runtime over
// OSC without restarting the bridge.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/hypebeast/go-osc/osc"
)

type LogCategory string

const (
	META       LogCategory = "meta" // logs about logging itself
	CONTROL_IN LogCategory = "control_in"
	CONTROL_OUT LogCategory = "control_out"
	HOST_IN    LogCategory = "host_in"
	HOST_OUT   LogCategory = "host_out"
	PERSIST    LogCategory = "persist"
	APP        LogCategory = "app"
)

func strToLogCategory(s string) (LogCategory, bool) {
	switch s {
	case "meta":
		return META, true
	case "control_in":
		return CONTROL_IN, true
	case "control_out":
		return CONTROL_OUT, true
	case "host_in":
		return HOST_IN, true
	case "host_out":
		return HOST_OUT, true
	case "persist":
		return PERSIST, true
	case "app":
		return APP, true
	default:
		return "", false
	}
}

const (
	RemoteControlListenIP   = "0.0.0.0"
	RemoteControlListenPort = 9085
)

// Dispatcher routes inbound OSC packets to the runtime log-level handler.
// Implements osc.Dispatcher.
type Dispatcher struct{}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (s *Dispatcher) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		HandleOSCSetCategoryLevel(p)
	default:
		return
	}
}

// remoteControl wraps an OSC server letting an operator adjust log levels on
// a running process.
type remoteControl struct {
	server     *osc.Server
	serverIP   string
	serverPort int
}

func (o *remoteControl) Run() error {
	o.server = &osc.Server{
		Addr:       fmt.Sprintf("%s:%d", o.serverIP, o.serverPort),
		Dispatcher: NewDispatcher(),
	}
	return o.server.ListenAndServe()
}

var (
	mu               sync.RWMutex
	loggers          = map[LogCategory]*slog.Logger{}
	categoryLvls     = map[LogCategory]*slog.LevelVar{}
	defaultLogLevels = map[LogCategory]slog.Level{
		META:        slog.LevelInfo,
		CONTROL_IN:  slog.LevelWarn,
		CONTROL_OUT: slog.LevelWarn,
		HOST_IN:     slog.LevelWarn,
		HOST_OUT:    slog.LevelWarn,
		PERSIST:     slog.LevelInfo,
		APP:         slog.LevelInfo,
	}
)

// Get returns a slog.Logger that always carries the "category" attribute.
// Each category gets its own logger and its own adjustable level.
func Get(category LogCategory) *slog.Logger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	lvlVar, ok := categoryLvls[category]
	if !ok {
		lvlVar = new(slog.LevelVar)
		lvlVar.Set(defaultLogLevels[category])
		categoryLvls[category] = lvlVar
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvlVar})
	catLogger := slog.New(handler).With("category", category)
	loggers[category] = catLogger
	return catLogger
}

// SetCategoryLevel changes the level of an already-initialized category.
// Calling Get(category) first guarantees the category is initialized.
func SetCategoryLevel(category LogCategory, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	lvlVar, ok := categoryLvls[category]
	if !ok {
		lvlVar = new(slog.LevelVar)
		categoryLvls[category] = lvlVar
	}
	lvlVar.Set(level)
}

// SetAllVerbose drops every known category to Debug, for -v/--verbose.
func SetAllVerbose() {
	for cat := range defaultLogLevels {
		Get(cat)
		SetCategoryLevel(cat, slog.LevelDebug)
	}
}

// StartRemoteControl starts the OSC listener that lets an operator adjust
// category levels on a running process. It blocks; call it in a goroutine.
// Unlike importing the package, starting this listener is an explicit
// decision by main so that merely running the test suite never opens a
// network socket.
func StartRemoteControl() error {
	rc := &remoteControl{serverIP: RemoteControlListenIP, serverPort: RemoteControlListenPort}
	return rc.Run()
}

func splitOscPath(path string) []string {
	return strings.Split(path, "/")[1:]
}

// HandleOSCSetCategoryLevel handles routes of the form
// /cs10/logging/{category}/level, where level is an int32 using slog's
// convention (-4 Debug, 0 Info, 4 Warn, 8 Error).
func HandleOSCSetCategoryLevel(msg *osc.Message) {
	pathSegs := splitOscPath(msg.Address)
	if len(pathSegs) < 2 || pathSegs[0] != "cs10" || pathSegs[1] != "logging" {
		return
	}
	if len(pathSegs) == 4 && pathSegs[3] == "level" {
		cat, ok := strToLogCategory(pathSegs[2])
		if !ok {
			Get(META).Warn("unrecognized log category in OSC message", "category", pathSegs[2])
			return
		}
		if len(msg.Arguments) == 0 {
			return
		}
		level, ok := msg.Arguments[0].(int32)
		if !ok {
			Get(META).Error("invalid level type in OSC message", "expected", "int32", "got", fmt.Sprintf("%T", msg.Arguments[0]))
			return
		}
		Get(META).Info("setting category level via OSC", "category", cat, "level", level)
		SetCategoryLevel(cat, slog.Level(level))
	}
}
