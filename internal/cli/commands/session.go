package commands

import (
	"flag"
	"io"
	"strconv"
	"strings"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
)

// withSession открывает библиотеку, выполняет fn и, если save=true и fn
// завершилась без ошибки, сохраняет рабочий набор.
func withSession(cfg *config.Config, save bool, fn func(s *bootstrap.Session) error) error {
	s, done, err := bootstrap.OpenLibrary(cfg, Log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := done(); cerr != nil {
			Log.Warnw("close session", "error", cerr)
		}
	}()
	if err := fn(s); err != nil {
		return err
	}
	if save {
		return s.Save()
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// flagWasSet reports whether name was given on the command line.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrUsage
	}
	return id, nil
}

func parseIDList(s string) ([]int64, error) {
	out := []int64{}
	for _, p := range config.SplitList(s) {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, ErrUsage
		}
		out = append(out, id)
	}
	return out, nil
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
