package event

import (
	"github.com/viant/afs"
	"github.com/viant/runloop/service/messaging/fs"
	"github.com/viant/runloop/service/messaging/memory"
)

type Option func(s *Service)

// WithMemoryQueueConfig sets the memory queue configuration
func WithMemoryQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.memConfig = config
	}
}

// WithFsQueueConfig sets the filesystem journal configuration
func WithFsQueueConfig(config fs.Config) Option {
	return func(s *Service) {
		s.fsConfig = config
	}
}

// WithFileService sets the afs service used by the filesystem journal
func WithFileService(service afs.Service) Option {
	return func(s *Service) {
		s.fileService = service
	}
}
