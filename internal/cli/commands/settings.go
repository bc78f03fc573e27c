package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/config"
)

type settingsCmd struct{}

func (settingsCmd) Name() string { return "settings" }
func (settingsCmd) Description() string {
	return "Показать или изменить метаданные по умолчанию"
}
func (settingsCmd) Usage() string {
	return "settings [show | set --apps A,B --langs EN --platforms web --custom-tags x --usage-code c]"
}

func (settingsCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 || (len(args) == 1 && args[0] == "show") {
		return withSession(cfg, false, func(s *bootstrap.Session) error {
			printMeta(s.Library.Settings())
			return nil
		})
	}
	if args[0] != "set" {
		return ErrUsage
	}
	fs := newFlagSet("settings")
	meta := addMetaFlags(fs)
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 || !meta.given() {
		return ErrUsage
	}
	return withSession(cfg, false, func(s *bootstrap.Session) error {
		m := meta.apply(s.Library.Settings())
		if err := s.Library.SaveSettings(m); err != nil {
			return err
		}
		fmt.Fprintln(Out, "✓ Настройки сохранены")
		printMeta(m)
		return nil
	})
}

func printMeta(m model.AppMetadata) {
	fmt.Fprintf(Out, "  apps:        %s\n", joinOrDash(m.Apps))
	fmt.Fprintf(Out, "  langs:       %s\n", joinOrDash(m.Langs))
	fmt.Fprintf(Out, "  platforms:   %s\n", joinOrDash(m.TargetPlatforms))
	fmt.Fprintf(Out, "  custom tags: %s\n", joinOrDash(m.CustomTags))
	fmt.Fprintf(Out, "  usage code:  %s\n", m.UsageCode)
	if m.Version != "" {
		fmt.Fprintf(Out, "  version:     %s\n", m.Version)
	}
}

func init() { RegisterCmd(settingsCmd{}) }
