package duel

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"f1duel/pkg/model"
)

var ErrUsage = errors.New("invalid arguments")

// sessionNames are matched against the end of the arguments, longest first so
// that "Sprint Qualifying" is not read as "Qualifying".
var sessionNames = []string{
	model.SessionSprintQual,
	model.SessionPractice1,
	model.SessionPractice2,
	model.SessionPractice3,
	model.SessionQualifying,
	model.SessionSprint,
	model.SessionRace,
}

type Args struct {
	Year    int
	Race    string
	Session string
	D1      string
	D2      string
}

// splitCommand returns the command without the bot mention and its arguments.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	command, _, _ := strings.Cut(fields[0], "@")
	return command, fields[1:]
}

// parseSession reads "<year> <race...> <session>".
func parseSession(fields []string) (Args, error) {
	if len(fields) < 3 {
		return Args{}, ErrUsage
	}
	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return Args{}, errors.Wrapf(ErrUsage, "year %q", fields[0])
	}
	rest := fields[1:]
	for _, name := range sessionNames {
		words := len(strings.Fields(name))
		if len(rest) <= words {
			continue
		}
		if strings.EqualFold(strings.Join(rest[len(rest)-words:], " "), name) {
			return Args{
				Year:    year,
				Race:    strings.Join(rest[:len(rest)-words], " "),
				Session: name,
			}, nil
		}
	}
	return Args{}, errors.Wrap(ErrUsage, "unknown session")
}

// parseDuel reads "<year> <race...> <session> <D1> <D2>".
func parseDuel(fields []string) (Args, error) {
	if len(fields) < 5 {
		return Args{}, ErrUsage
	}
	n := len(fields)
	args, err := parseSession(fields[:n-2])
	if err != nil {
		return Args{}, err
	}
	args.D1 = strings.ToUpper(fields[n-2])
	args.D2 = strings.ToUpper(fields[n-1])
	if args.D1 == args.D2 {
		return Args{}, errors.Wrap(ErrUsage, "drivers must differ")
	}
	return args, nil
}
