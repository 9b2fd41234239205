package worker

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrNoCompanion = errors.New("no companion command configured")

// CompanionWorker starts the external companion app the first time the
// second diagrams page is opened. It never restarts it; Stop kills it.
type CompanionWorker struct {
	command string

	mu       sync.Mutex
	launched bool
	cmd      *exec.Cmd
	feedback string
	done     chan struct{}
}

func NewCompanionWorker(command string) *CompanionWorker {
	return &CompanionWorker{command: strings.TrimSpace(command)}
}

// Start is a no-op; the process is launched on demand.
func (w *CompanionWorker) Start() {}

// Launch starts the command once and returns the text shown on the page.
// Later calls return the first outcome again.
func (w *CompanionWorker) Launch() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.launched {
		return w.feedback, nil
	}
	w.launched = true

	if w.command == "" {
		w.feedback = ""
		return "", ErrNoCompanion
	}

	args := strings.Fields(w.command)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		w.feedback = fmt.Sprintf("Failed to start companion app: %v", err)
		log.Error().Err(err).Str("command", w.command).Msg("companion launch failed")
		return w.feedback, err
	}

	w.cmd = cmd
	w.done = make(chan struct{})
	w.feedback = "Companion app started."
	log.Info().Str("command", w.command).Int("pid", cmd.Process.Pid).Msg("companion started")

	go func(cmd *exec.Cmd, done chan struct{}) {
		defer close(done)
		if err := cmd.Wait(); err != nil {
			log.Warn().Err(err).Msg("companion exited")
			return
		}
		log.Info().Msg("companion exited")
	}(cmd, w.done)

	return w.feedback, nil
}

func (w *CompanionWorker) Stop() {
	w.mu.Lock()
	cmd, done := w.cmd, w.done
	w.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}
	select {
	case <-done:
		return
	default:
	}
	if err := cmd.Process.Kill(); err != nil {
		log.Warn().Err(err).Msg("cannot stop companion")
		return
	}
	<-done
}
