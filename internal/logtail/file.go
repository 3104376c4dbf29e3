package logtail

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
	"go.uber.org/zap"
)

// FileSource follows a log file the way `tail -F` does. The last Backlog
// lines already in the file are replayed before following new writes.
type FileSource struct {
	Path    string
	Backlog int
	Poll    bool
	Log     *zap.Logger
}

// Open reads the backlog and starts following the end of the file. Lines
// written between the two steps may be missed.
func (s FileSource) Open() (Stream, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("file path is empty")
	}

	backlog, err := Read(s.Path, s.Backlog)
	if err != nil {
		return nil, err
	}

	t, err := tail.TailFile(s.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      s.Poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("tail %s: %w", s.Path, err)
	}
	log.Info("following file", zap.String("path", s.Path), zap.Int("backlog", len(backlog)))

	return &fileStream{
		t:       t,
		backlog: backlog,
		closed:  make(chan struct{}),
	}, nil
}

type fileStream struct {
	t       *tail.Tail
	backlog []string

	closeOnce sync.Once
	closed    chan struct{}
}

func (s *fileStream) ReadLine() (string, error) {
	if len(s.backlog) > 0 {
		line := s.backlog[0]
		s.backlog = s.backlog[1:]
		return line, nil
	}
	select {
	case <-s.closed:
		return "", io.EOF
	case line, ok := <-s.t.Lines:
		if !ok {
			return "", io.EOF
		}
		if line.Err != nil {
			return "", fmt.Errorf("read %s: %w", s.t.Filename, line.Err)
		}
		return strings.TrimRight(line.Text, "\r"), nil
	}
}

func (s *fileStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.t.Stop()
		s.t.Cleanup()
	})
	return err
}
