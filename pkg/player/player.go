// Package player runs generated beep scripts as an external process with
// start/stop control
package player

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
)

// Player owns at most one running playback process. Starting a new script
// while one is playing stops the old one first; Stop kills the whole process
// group so no queued beep command executes after it.
type Player struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// New creates an idle Player
func New() *Player {
	return &Player{}
}

// Start launches the script in its own process group. Any playback already
// in flight is terminated first, never queued behind.
func (p *Player) Start(scriptPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	cmd := exec.Command("/bin/sh", scriptPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	p.cmd = cmd
	p.done = done
	return nil
}

// Stop terminates the in-flight playback immediately. Calling it while idle
// is a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cmd == nil {
		return
	}
	// Signal the group, not just the shell, so the currently sounding beep
	// dies too. The process may already be gone; that is fine.
	_ = syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL)
	<-p.done
	p.cmd = nil
	p.done = nil
}

// Running reports whether a playback process is currently alive
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil {
		return false
	}
	select {
	case <-p.done:
		p.cmd = nil
		p.done = nil
		return false
	default:
		return true
	}
}

// Wait blocks until the current playback finishes. Returns immediately when
// nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}
