package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/store"
	"ImageLibrary/internal/config"
)

type editCmd struct{}

func (editCmd) Name() string { return "edit" }
func (editCmd) Description() string {
	return "Изменить описание, категорию, теги, метаданные и связанные продукты"
}
func (editCmd) Usage() string {
	return "edit <id> [--description s] [--category c] [--tags a,b] [--products 1,2] [--apps A,B] ..."
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fs := newFlagSet("edit")
	description := fs.String("description", "", "описание")
	category := fs.String("category", "", "категория")
	tags := fs.String("tags", "", "теги через запятую (заменяют текущие)")
	products := fs.String("products", "", "id связанных продуктов через запятую")
	meta := addMetaFlags(fs)
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 || fs.NFlag() == 0 {
		return ErrUsage
	}
	var linked []int64
	if flagWasSet(fs, "products") {
		if linked, err = parseIDList(*products); err != nil {
			return err
		}
	}

	return withSession(cfg, true, func(s *bootstrap.Session) error {
		cur, err := s.Library.Get(id)
		if err != nil {
			return err
		}
		e := store.Edit{
			Description:            cur.Description,
			Category:               cur.Category,
			Tags:                   cur.Tags,
			AppMetadata:            meta.apply(cur.AppMetadata),
			LinkedProductGlobalIDs: cur.LinkedProductGlobalIDs,
		}
		if flagWasSet(fs, "description") {
			e.Description = *description
		}
		if flagWasSet(fs, "category") {
			e.Category = *category
		}
		if flagWasSet(fs, "tags") {
			e.Tags = config.SplitList(*tags)
		}
		if flagWasSet(fs, "products") {
			e.LinkedProductGlobalIDs = linked
		}
		if err := s.Library.Edit(ctx, id, e); err != nil {
			return fmt.Errorf("edit #%d: %w", id, err)
		}
		if cur.IsStaged() {
			fmt.Fprintf(Out, "✓ #%d изменена локально, уйдёт с загрузкой\n", id)
		} else {
			fmt.Fprintf(Out, "✓ #%d сохранена на бэкенде\n", id)
		}
		return nil
	})
}

func init() { RegisterCmd(editCmd{}) }
