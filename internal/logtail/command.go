package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	scanBufInitial = 64 * 1024
	scanBufMax     = 1024 * 1024

	killGrace = 2 * time.Second
)

// CommandSource runs a child process and streams its stdout line by line.
// Stderr is forwarded to the logger.
type CommandSource struct {
	Argv []string
	Env  []string // nil inherits the current environment
	Log  *zap.Logger
}

// Open starts the command. The returned stream owns the process.
func (s CommandSource) Open() (Stream, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	if len(s.Argv) == 0 {
		return nil, errors.New("command is empty")
	}

	cmd := exec.Command(s.Argv[0], s.Argv[1:]...)
	if s.Env != nil {
		cmd.Env = s.Env
	}
	cmd.Stderr = zap.NewStdLog(log.Named("stderr")).Writer()
	configureCommand(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe creation failure: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", strings.Join(s.Argv, " "), err)
	}
	log.Info("process started", zap.Int("cmd_pid", cmd.Process.Pid), zap.Strings("argv", s.Argv))

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, scanBufInitial), scanBufMax)

	return &commandStream{
		log:    log,
		cmd:    cmd,
		stdout: stdout,
		sc:     sc,
		exited: make(chan struct{}),
	}, nil
}

type commandStream struct {
	log    *zap.Logger
	cmd    *exec.Cmd
	stdout io.ReadCloser
	sc     *bufio.Scanner

	closeOnce sync.Once
	exited    chan struct{}
}

func (s *commandStream) ReadLine() (string, error) {
	if s.sc.Scan() {
		return strings.TrimRight(s.sc.Text(), "\r"), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", fmt.Errorf("stdout scanner failure: %w", err)
	}
	return "", io.EOF
}

// Close terminates the child, unblocks ReadLine and reaps the process in the
// background. Safe to call more than once.
func (s *commandStream) Close() error {
	s.closeOnce.Do(func() {
		pid := s.cmd.Process.Pid
		if err := terminate(s.cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
			s.log.Warn("SIGTERM failed", zap.Error(err), zap.Int("cmd_pid", pid))
		}
		_ = s.stdout.Close()

		go s.reap(pid)
	})
	return nil
}

func (s *commandStream) reap(pid int) {
	go func() {
		timer := time.NewTimer(killGrace)
		defer timer.Stop()
		select {
		case <-s.exited:
		case <-timer.C:
			s.log.Warn("grace timeout expired; killing process", zap.Int("cmd_pid", pid))
			_ = kill(s.cmd)
		}
	}()

	err := s.cmd.Wait()
	close(s.exited)

	var eerr *exec.ExitError
	switch {
	case err == nil:
		s.log.Info("process exited cleanly", zap.Int("cmd_pid", pid))
	case errors.As(err, &eerr):
		s.log.Info("process exited", zap.Int("cmd_pid", pid), zap.String("status", eerr.ProcessState.String()))
	default:
		s.log.Debug("process wait", zap.Int("cmd_pid", pid), zap.Error(err))
	}
}
