package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/store"
	"ImageLibrary/internal/config"
)

type stageCmd struct{}

func (stageCmd) Name() string { return "stage" }
func (stageCmd) Description() string {
	return "Добавить локальные файлы как ожидающие загрузки"
}
func (stageCmd) Usage() string {
	return "stage [--category c] [--tags a,b] [--apps A,B] [--langs EN] <file>..."
}

func (stageCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("stage")
	category := fs.String("category", "", "категория")
	tags := fs.String("tags", "", "теги через запятую")
	meta := addMetaFlags(fs)
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return ErrUsage
	}
	paths := fs.Args()

	return withSession(cfg, true, func(s *bootstrap.Session) error {
		var override *model.AppMetadata
		if meta.given() {
			m := meta.apply(s.Library.Settings())
			override = &m
		}
		staged, err := s.Library.Stage(ctx, paths, override)
		if err != nil {
			return err
		}
		for _, r := range staged {
			if *category != "" || *tags != "" {
				e := store.Edit{
					Description:            r.Description,
					Category:               *category,
					Tags:                   config.SplitList(*tags),
					AppMetadata:            r.AppMetadata,
					LinkedProductGlobalIDs: r.LinkedProductGlobalIDs,
				}
				if err := s.Library.Edit(ctx, r.GlobalID, e); err != nil {
					return err
				}
			}
			fmt.Fprintf(Out, "✓ #%d %s (%dx%d, %s)\n", r.GlobalID, r.Name, r.ImageWidth, r.ImageHeight, r.FileType)
		}
		fmt.Fprintf(Out, "• Ожидают загрузки: %d. Выполните sync.\n", s.Library.Stats().Pending)
		return nil
	})
}

func init() { RegisterCmd(stageCmd{}) }
