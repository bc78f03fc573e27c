package commands

import (
	"context"
	"fmt"
	"strings"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
)

// listCatalogCmd печатает справочник бэкенда (категории или теги).
type listCatalogCmd struct {
	name, desc string
	fetch      func(ctx context.Context, s *bootstrap.Session) []string
}

func (c listCatalogCmd) Name() string        { return c.name }
func (c listCatalogCmd) Description() string { return c.desc }
func (c listCatalogCmd) Usage() string       { return c.name }

func (c listCatalogCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withSession(cfg, false, func(s *bootstrap.Session) error {
		list := c.fetch(ctx, s)
		if len(list) == 0 {
			fmt.Fprintln(Out, "• Список пуст или бэкенд недоступен")
			return nil
		}
		for _, v := range list {
			fmt.Fprintf(Out, "- %s\n", v)
		}
		return nil
	})
}

type tagAddCmd struct{}

func (tagAddCmd) Name() string        { return "tag-add" }
func (tagAddCmd) Description() string { return "Создать тег на бэкенде" }
func (tagAddCmd) Usage() string       { return "tag-add <tag>" }

func (tagAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return ErrUsage
	}
	return withSession(cfg, false, func(s *bootstrap.Session) error {
		if err := s.Library.CreateTag(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "✓ Тег создан: %s\n", strings.TrimSpace(args[0]))
		return nil
	})
}

func init() {
	RegisterCmd(listCatalogCmd{
		name: "categories",
		desc: "Показать категории бэкенда",
		fetch: func(ctx context.Context, s *bootstrap.Session) []string {
			return s.Library.Categories(ctx)
		},
	})
	RegisterCmd(listCatalogCmd{
		name: "tags",
		desc: "Показать теги бэкенда",
		fetch: func(ctx context.Context, s *bootstrap.Session) []string {
			return s.Library.Tags(ctx)
		},
	})
	RegisterCmd(tagAddCmd{})
}
