package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/store"
	"ImageLibrary/internal/config"
)

// Режимы отображения списка.
const (
	modeGrid  = "grid"
	modeList  = "list"
	modeTable = "table"

	gridColumns = 3
	gridCell    = 28
)

type listCmd struct{}

func (listCmd) Name() string { return "list" }
func (listCmd) Description() string {
	return "Показать изображения с фильтрами"
}
func (listCmd) Usage() string {
	return "list [--q text] [--category c] [--status s] [--deleted] [--mode grid|list|table]"
}

func (listCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("list")
	text := fs.String("q", "", "поиск по имени, описанию и тегам")
	category := fs.String("category", store.Wildcard, "категория или all")
	status := fs.String("status", store.Wildcard, "статус синхронизации или all")
	deleted := fs.Bool("deleted", false, "показывать удалённые")
	mode := fs.String("mode", modeTable, "grid|list|table")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	switch *mode {
	case modeGrid, modeList, modeTable:
	default:
		return ErrUsage
	}
	if *status != store.Wildcard && *status != "" {
		st, err := model.ParseSyncStatus(*status)
		if err != nil {
			return err
		}
		*status = string(st)
	}

	return withSession(cfg, false, func(s *bootstrap.Session) error {
		list := s.Library.Filter(store.Query{
			Text:           *text,
			Category:       *category,
			Status:         *status,
			IncludeDeleted: *deleted,
		})
		if len(list) == 0 {
			fmt.Fprintln(Out, "Нет изображений")
			return nil
		}
		switch *mode {
		case modeGrid:
			printGrid(Out, list)
		case modeList:
			printList(Out, list)
		default:
			if err := printTable(Out, list); err != nil {
				return err
			}
		}
		fmt.Fprintf(Out, "Всего: %d\n", len(list))
		return nil
	})
}

func badge(r model.ImageRecord) string {
	if r.IsDeleted {
		return "Deleted"
	}
	return r.SyncStatus.Label()
}

func printTable(w io.Writer, list []model.ImageRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSTATUS\tSIZE\tTAGS")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%dx%d\t%s\n",
			r.GlobalID, r.Name, r.Category, badge(r), r.ImageWidth, r.ImageHeight, joinOrDash(r.Tags))
	}
	return tw.Flush()
}

func printList(w io.Writer, list []model.ImageRecord) {
	for _, r := range list {
		fmt.Fprintf(w, "- #%d  %s  [%s]  %s  %dx%d  %s\n",
			r.GlobalID, r.Name, r.Category, badge(r), r.ImageWidth, r.ImageHeight, r.FileType)
		if r.Description != "" {
			fmt.Fprintf(w, "    %s\n", r.Description)
		}
	}
}

func printGrid(w io.Writer, list []model.ImageRecord) {
	for start := 0; start < len(list); start += gridColumns {
		end := start + gridColumns
		if end > len(list) {
			end = len(list)
		}
		row := list[start:end]
		var names, badges []string
		for _, r := range row {
			names = append(names, cell(fmt.Sprintf("#%d %s", r.GlobalID, r.Name)))
			badges = append(badges, cell(badge(r)))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(names, ""), " "))
		fmt.Fprintln(w, strings.TrimRight(strings.Join(badges, ""), " "))
		fmt.Fprintln(w)
	}
}

func cell(s string) string {
	r := []rune(s)
	if len(r) > gridCell-2 {
		r = append(r[:gridCell-3], '…')
	}
	return fmt.Sprintf("%-*s", gridCell, string(r))
}

func init() { RegisterCmd(listCmd{}) }
