// Package execute runs the external programs ytxtract drives.
package execute

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"ytxtract/internal/utils/logging"
)

// Runner starts a program and waits for it.
//
// onLine, when non-nil, receives each stdout line as it is printed.
type Runner interface {
	Run(ctx context.Context, name string, args []string, onLine func(string)) (stdout, stderr []byte, err error)
}

// ExecRunner runs programs with os/exec.
//
// A started process always runs to completion: ctx is only checked before the start.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args []string, onLine func(string)) (stdout, stderr []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	cmd := exec.Command(name, args...)
	logging.D(2, "Executing command: %s", cmd.String())

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if onLine == nil {
		var outBuf bytes.Buffer
		cmd.Stdout = &outBuf
		err = cmd.Run()
		return outBuf.Bytes(), errBuf.Bytes(), wrapExit(name, err)
	}

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, wrapExit(name, err)
	}

	var (
		outBuf bytes.Buffer
		wg     sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanLines(io.TeeReader(pipe, &outBuf), onLine)
	}()

	// Pipe must be drained before Wait closes it
	wg.Wait()
	err = cmd.Wait()
	return outBuf.Bytes(), errBuf.Bytes(), wrapExit(name, err)
}

func scanLines(r io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logging.E("Scanner error: %v", err)
	}
}

func wrapExit(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
