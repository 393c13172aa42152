package exiftool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	goexiftool "github.com/barasher/go-exiftool"

	"github.com/backmassage/photostamp/internal/sidecar"
)

// Pool hands out stay-open exiftool processes, at most size at a time.
// Each process serves one caller at a time. Safe for concurrent use.
type Pool struct {
	binary string
	sem    chan struct{}
	stop   func(*goexiftool.Exiftool) error

	mu     sync.Mutex
	idle   []*goexiftool.Exiftool
	all    []*goexiftool.Exiftool
	closed bool
}

// NewPool returns a pool of up to size processes running binary (empty
// means "exiftool" from PATH). No process starts until the first Write.
func NewPool(binary string, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		binary: binary,
		sem:    make(chan struct{}, size),
		stop:   (*goexiftool.Exiftool).Close,
	}
}

// Write sets the embedded capture time (and GPS when non-nil) of path. The
// file is rewritten in place. Failures are *WriteError, or wrap
// ErrUnavailable when exiftool cannot be started.
func (p *Pool) Write(ctx context.Context, path string, ts time.Time, gps *sidecar.Coordinate) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()

	et, err := p.acquire()
	if err != nil {
		return err
	}

	fms := []goexiftool.FileMetadata{Tags(path, ts, gps)}
	et.WriteMetadata(fms)
	err = fms[0].Err
	p.release(et, err != nil && IsTransportError(err))
	if err != nil {
		return &WriteError{Path: path, Reason: Classify(err.Error()), Err: err}
	}
	return nil
}

func (p *Pool) acquire() (*goexiftool.Exiftool, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: pool closed", ErrUnavailable)
	}
	if n := len(p.idle); n > 0 {
		et := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return et, nil
	}
	p.mu.Unlock()

	var opts []func(*goexiftool.Exiftool) error
	if p.binary != "" {
		opts = append(opts, goexiftool.SetExiftoolBinaryPath(p.binary))
	}
	et, err := goexiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.mu.Lock()
	p.all = append(p.all, et)
	p.mu.Unlock()
	return et, nil
}

// release returns et to the idle list. A broken process is stopped and
// forgotten; the next Write on its slot starts a fresh one.
func (p *Pool) release(et *goexiftool.Exiftool, broken bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !broken {
		if !p.closed {
			p.idle = append(p.idle, et)
		}
		return
	}
	p.all = slices.DeleteFunc(p.all, func(x *goexiftool.Exiftool) bool { return x == et })
	_ = p.stop(et)
}

// Close stops every started process. Writes after Close fail.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var errs []error
	for _, et := range p.all {
		if err := p.stop(et); err != nil {
			errs = append(errs, err)
		}
	}
	p.all, p.idle = nil, nil
	return errors.Join(errs...)
}
