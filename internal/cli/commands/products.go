package commands

import (
	"context"
	"fmt"
	"strings"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/config"
)

type productsCmd struct{}

func (productsCmd) Name() string { return "products" }
func (productsCmd) Description() string {
	return "Искать продукты для привязки"
}
func (productsCmd) Usage() string { return "products [--search q | --all]" }

func (productsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("products")
	all := fs.Bool("all", false, "все продукты")
	q := fs.String("search", "", "строка поиска")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	search := strings.TrimSpace(*q)
	if *all && search != "" {
		return ErrUsage
	}
	return withSession(cfg, false, func(s *bootstrap.Session) error {
		var (
			list []model.Product
			err  error
		)
		if *all {
			list, err = s.Library.AllProducts(ctx)
		} else {
			list, err = s.Library.Products(ctx, search)
		}
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(Out, "Нет продуктов")
			return nil
		}
		for _, p := range list {
			fmt.Fprintf(Out, "- %d  %s\n", p.GlobalID, p.Label())
		}
		return nil
	})
}

type linksCmd struct{}

func (linksCmd) Name() string { return "links" }
func (linksCmd) Description() string {
	return "Показать продукты, связанные с изображением"
}
func (linksCmd) Usage() string { return "links <id>" }

func (linksCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withSession(cfg, true, func(s *bootstrap.Session) error {
		ids, err := s.Library.LinkedProducts(ctx, id)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintf(Out, "• #%d: связанных продуктов нет\n", id)
			return nil
		}
		fmt.Fprintf(Out, "#%d: %v\n", id, ids)
		return nil
	})
}

func init() {
	RegisterCmd(productsCmd{})
	RegisterCmd(linksCmd{})
}
