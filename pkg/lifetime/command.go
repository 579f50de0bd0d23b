package lifetime

import (
	"strconv"
	"strings"

	"github.com/matzehuels/danmaku/pkg/errors"
)

// Command is the owner command a record carries.
type Command int

const (
	// None marks an ordinary viewer comment.
	None Command = iota
	// Perm is owner text that stays until replaced or cleared.
	Perm
	// Vote opens, updates or closes a poll.
	Vote
	// Clear removes the current owner text.
	Clear
)

var commandNames = [...]string{None: "none", Perm: "perm", Vote: "vote", Clear: "clear"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "Command(" + strconv.Itoa(int(c)) + ")"
	}
	return commandNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Command) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// VoteMode is the sub-command of a [Vote].
type VoteMode int

const (
	VoteStart VoteMode = iota
	VoteShowResult
	VoteStop
)

var voteModeNames = [...]string{VoteStart: "start", VoteShowResult: "showresult", VoteStop: "stop"}

func (m VoteMode) String() string {
	if m < 0 || int(m) >= len(voteModeNames) {
		return "VoteMode(" + strconv.Itoa(int(m)) + ")"
	}
	return voteModeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m VoteMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Result modes for /vote showresult.
const (
	ResultPercent = "percent"
	ResultPer     = "per"
)

// ownerCommand is the parsed form of an owner comment's text.
type ownerCommand struct {
	command    Command
	text       string
	voteMode   VoteMode
	answers    []string
	resultMode string
	results    []int
}

// parseOwner interprets owner text. Text without a leading slash is shown
// as a timed banner, which behaves like /perm with the owner expiry.
func parseOwner(text string) (ownerCommand, bool, error) {
	if !strings.HasPrefix(text, "/") {
		return ownerCommand{command: Perm, text: text}, false, nil
	}
	name, rest, _ := strings.Cut(text[1:], " ")
	switch name {
	case "perm":
		return ownerCommand{command: Perm, text: rest}, true, nil
	case "clear", "cls":
		return ownerCommand{command: Clear}, true, nil
	case "vote":
		return parseVote(rest)
	}
	return ownerCommand{}, true, errors.New(errors.ErrCodeUnsupported, "unsupported owner command /%s", name)
}

func parseVote(rest string) (ownerCommand, bool, error) {
	mode, rest, _ := strings.Cut(rest, " ")
	cmd := ownerCommand{command: Vote}
	args := SplitArgs(rest)

	switch mode {
	case "start":
		cmd.voteMode = VoteStart
		if len(args) > 0 {
			cmd.text, cmd.answers = args[0], args[1:]
		}
	case "showresult":
		cmd.voteMode = VoteShowResult
		if len(args) > 0 {
			cmd.resultMode = args[0]
			for _, a := range args[1:] {
				n, err := strconv.Atoi(a)
				if err != nil {
					return cmd, true, errors.Wrap(errors.ErrCodeInvalidInput, err, "vote result %q", a)
				}
				cmd.results = append(cmd.results, n)
			}
		}
		if cmd.resultMode != ResultPercent && cmd.resultMode != ResultPer {
			cmd.resultMode = ResultPer
		}
	case "stop":
		cmd.voteMode = VoteStop
	default:
		return cmd, true, errors.New(errors.ErrCodeUnsupported, "unsupported vote mode %q", mode)
	}
	return cmd, true, nil
}

// SplitArgs splits owner command arguments on spaces and tabs. Double
// quotes group words, a backslash escapes the next character, and an
// unterminated quote runs to the end of the input.
func SplitArgs(s string) []string {
	var (
		args []string
		sb   strings.Builder
	)
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i == len(s) {
			break
		}
		sb.Reset()
		if s[i] == '"' {
			i++
			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}
				sb.WriteByte(s[i])
				i++
			}
			closed := i < len(s)
			if closed {
				i++
			}
			if !closed && sb.Len() == 0 {
				continue
			}
			args = append(args, sb.String())
			continue
		}
		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			if s[i] == '\\' && i+1 < len(s) {
				i++
			}
			sb.WriteByte(s[i])
			i++
		}
		args = append(args, sb.String())
	}
	return args
}
