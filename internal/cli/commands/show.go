package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/config"
)

type showCmd struct{}

func (showCmd) Name() string { return "show" }
func (showCmd) Description() string {
	return "Показать карточку изображения"
}
func (showCmd) Usage() string { return "show <id> [--preview]" }

func (showCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fs := newFlagSet("show")
	preview := fs.Bool("preview", false, "построить превью для локального файла")
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	return withSession(cfg, false, func(s *bootstrap.Session) error {
		r, err := s.Library.Get(id)
		if err != nil {
			return err
		}
		printRecord(r)
		if *preview {
			p, err := s.Library.Preview(id)
			if err != nil {
				fmt.Fprintf(Out, "× Превью недоступно: %v\n", err)
				return nil
			}
			fmt.Fprintf(Out, "  preview:     %s\n", p)
		}
		return nil
	})
}

func printRecord(r model.ImageRecord) {
	fmt.Fprintf(Out, "  id:          %d\n", r.GlobalID)
	fmt.Fprintf(Out, "  name:        %s\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(Out, "  description: %s\n", r.Description)
	}
	fmt.Fprintf(Out, "  category:    %s\n", r.Category)
	fmt.Fprintf(Out, "  tags:        %s\n", joinOrDash(r.Tags))
	fmt.Fprintf(Out, "  status:      %s\n", badge(r))
	if r.SyncError != "" {
		fmt.Fprintf(Out, "  sync error:  %s (%s)\n", r.SyncError, r.LastSyncAttempt)
	}
	fmt.Fprintf(Out, "  size:        %dx%d alpha=%t\n", r.ImageWidth, r.ImageHeight, r.HasAlphaChannel)
	fmt.Fprintf(Out, "  file:        %s %s (%d bytes)\n", r.LibraryFilePath, r.FileType, r.FileSize)
	if r.AzureBlobURL != "" {
		fmt.Fprintf(Out, "  blob:        %s\n", r.AzureBlobURL)
	}
	m := r.AppMetadata
	fmt.Fprintf(Out, "  apps:        %s\n", joinOrDash(m.Apps))
	fmt.Fprintf(Out, "  langs:       %s\n", joinOrDash(m.Langs))
	fmt.Fprintf(Out, "  platforms:   %s\n", joinOrDash(m.TargetPlatforms))
	if m.UsageCode != "" {
		fmt.Fprintf(Out, "  usage code:  %s\n", m.UsageCode)
	}
	if len(r.LinkedProductGlobalIDs) > 0 {
		fmt.Fprintf(Out, "  products:    %v\n", r.LinkedProductGlobalIDs)
	}
	if r.IsStaged() {
		fmt.Fprintln(Out, "  • локальная запись, ещё не загружена")
	}
}

func init() { RegisterCmd(showCmd{}) }
