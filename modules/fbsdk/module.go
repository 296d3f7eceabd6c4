// Package fbsdk bridges the Facebook SDK: login, sharing and app events.
//
// Login and share dialogs finish asynchronously with a platform result, so
// this is the one module that holds the host's shared dispatcher. It claims
// the SDK's request codes when started and releases them when stopped.
package fbsdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/vk/flightdrop/internal/dispatcher"
	"github.com/vk/flightdrop/internal/module"
)

// Name is the module's registry name.
const Name = "fbsdk"

// Request codes used by the SDK's dialogs.
const (
	RequestCodeLogin = 64206
	RequestCodeShare = 64207
)

var requestCodes = []int{RequestCodeLogin, RequestCodeShare}

// ErrNoDispatcher is returned when the construction context has no dispatcher.
var ErrNoDispatcher = errors.New("fbsdk requires the callback dispatcher")

// Module implements module.Module, module.Starter and module.Stopper.
type Module struct {
	module.Static
	dispatcher *dispatcher.Dispatcher
	logger     *slog.Logger

	mu      sync.Mutex
	last    *dispatcher.Result
	results int
}

// New constructs the module around the context's dispatcher.
func New(mc *module.Context) (module.Module, error) {
	if mc.Dispatcher == nil {
		return nil, ErrNoDispatcher
	}
	return &Module{
		Static: module.NewStatic(Name,
			module.Service("FBLoginManager"),
			module.Service("FBShareDialog"),
			module.Service("FBAppEventsLogger"),
			module.View("RCTFBLoginButton"),
		),
		dispatcher: mc.Dispatcher,
		logger:     mc.ModuleLogger(Name),
	}, nil
}

// Dispatcher implements module.DispatcherUser.
func (m *Module) Dispatcher() *dispatcher.Dispatcher {
	return m.dispatcher
}

// Start claims the SDK's request codes on the dispatcher.
func (m *Module) Start(ctx context.Context) error {
	for i, code := range requestCodes {
		if err := m.dispatcher.RegisterCallback(code, m.handle); err != nil {
			for _, claimed := range requestCodes[:i] {
				m.dispatcher.UnregisterCallback(claimed)
			}
			return fmt.Errorf("failed to claim request code: %w", err)
		}
	}
	m.logger.Debug("Request codes claimed.", "codes", requestCodes, "dispatcher", m.dispatcher.ID())
	return nil
}

// Stop releases the SDK's request codes.
func (m *Module) Stop(context.Context) error {
	for _, code := range requestCodes {
		m.dispatcher.UnregisterCallback(code)
	}
	return nil
}

// LastResult returns the most recent dialog result, if any.
func (m *Module) LastResult() (dispatcher.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return dispatcher.Result{}, false
	}
	res := *m.last
	res.Data = maps.Clone(res.Data)
	return res, true
}

func (m *Module) handle(_ context.Context, res dispatcher.Result) bool {
	m.mu.Lock()
	m.last = &res
	m.results++
	count := m.results
	m.mu.Unlock()

	m.logger.Info("Dialog result received.", "request_code", res.RequestCode, "result_code", res.ResultCode, "total", count)
	return true
}
