package event

import (
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/runloop/service/messaging"
	"github.com/viant/runloop/service/messaging/fs"
	"github.com/viant/runloop/service/messaging/memory"
)

// Service owns the diagnostics event stream of one scheduler: a single
// publisher of Diagnostic events and an optional listener. The transport is
// selected by vendor – in-memory for live observation, filesystem journal
// when events should survive the process.
type Service struct {
	publisher   *Publisher[Diagnostic]
	listener    *Listener[Diagnostic]
	queueVendor messaging.Vendor
	memConfig   memory.Config
	fsConfig    fs.Config
	fileService afs.Service
}

// New creates an event service for the supplied queue vendor.
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor: queueVendor,
		memConfig:   memory.DefaultConfig(),
		fsConfig:    fs.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(ret)
	}

	var queue messaging.Queue[Event[Diagnostic]]
	switch queueVendor {
	case messaging.VendorMemory:
		queue = memory.NewQueue[Event[Diagnostic]](ret.memConfig)
	case messaging.VendorFs:
		if ret.fileService == nil {
			ret.fileService = afs.New()
		}
		var err error
		queue, err = fs.NewQueue[Event[Diagnostic]](ret.fileService, ret.fsConfig)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}
	ret.publisher = NewPublisher[Diagnostic](queue)
	return ret, nil
}

// Publisher returns the diagnostics publisher.
func (s *Service) Publisher() *Publisher[Diagnostic] {
	return s.publisher
}

// SetListener replaces the active listener with one invoking handler for
// every diagnostic event.
func (s *Service) SetListener(handler func(*Event[Diagnostic])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[Diagnostic](s.publisher, handler)
	s.listener.Start()
}

// Close stops the active listener, if any.
func (s *Service) Close() {
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}
