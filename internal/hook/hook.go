// Package hook implements the external-process event collaborator of
// spec §6.4: a hook is any executable, invoked with a fixed argv
// convention per event kind. The execution policy itself (what the
// process does) is out of scope; this package only fixes argv, captures
// stdout, and never lets one hook's failure stop dispatch to the rest.
package hook

import (
	"bufio"
	"log"
	"os/exec"
	"regexp"

	"github.com/dalnet/irccd/internal/event"
	"github.com/dalnet/irccd/internal/ircerr"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Hook pairs an identifier with the path to its executable.
type Hook struct {
	ID   string
	Path string
}

// New validates id and path and constructs a Hook.
func New(id, path string) (Hook, error) {
	if id == "" || !identifierPattern.MatchString(id) {
		return Hook{}, ircerr.HookInvalidIdentifier(id)
	}
	if path == "" {
		return Hook{}, ircerr.HookInvalidPath(path)
	}
	return Hook{ID: id, Path: path}, nil
}

// Argv renders an event into the positional argv convention of spec §6.4.
// KindCommand has no hook form and is never passed here.
func Argv(e event.Event) []string {
	switch e.Kind {
	case event.KindConnect, event.KindDisconnect:
		return []string{string(e.Kind), e.Server}
	case event.KindInvite:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Nickname}
	case event.KindJoin:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel}
	case event.KindKick:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Target, e.Reason}
	case event.KindMessage:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Message}
	case event.KindMe:
		return []string{string(e.Kind), e.Server, e.Origin, e.Target, e.Message}
	case event.KindMode:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Mode, e.Limit, e.User, e.Mask}
	case event.KindNick:
		return []string{string(e.Kind), e.Server, e.Origin, e.Nickname}
	case event.KindNotice:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Message}
	case event.KindPart:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Reason}
	case event.KindTopic:
		return []string{string(e.Kind), e.Server, e.Origin, e.Channel, e.Topic}
	default:
		return []string{string(e.Kind), e.Server}
	}
}

// Run spawns h's executable with the event's argv, logs its stdout
// line-by-line at info level through logger, and ignores its exit status
// (spec §6.4). A spawn failure is reported but never propagated as a
// dispatch-halting error -- the caller logs it and moves to the next hook.
func Run(h Hook, e event.Event, logger *log.Logger) error {
	cmd := exec.Command(h.Path, Argv(e)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ircerr.HookExecError(h.ID, err)
	}
	if err := cmd.Start(); err != nil {
		return ircerr.HookExecError(h.ID, err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if logger != nil {
			logger.Printf("hook %s: %s", h.ID, scanner.Text())
		}
	}

	// Exit status is deliberately ignored (spec §6.4).
	_ = cmd.Wait()
	return nil
}
