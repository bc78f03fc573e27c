package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/cli/service"
	"ImageLibrary/internal/cli/store"
	"ImageLibrary/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string { return "export" }
func (exportCmd) Description() string {
	return "Экспортировать текущий вид в JSON (файл, stdout или S3)"
}
func (exportCmd) Usage() string {
	return "export [--out file] [--s3] [--key objectKey] [--category c] [--deleted]"
}

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("export")
	out := fs.String("out", "", "файл манифеста (по умолчанию stdout)")
	toS3 := fs.Bool("s3", false, "выгрузить в S3-совместимое хранилище")
	key := fs.String("key", "", "ключ объекта в бакете")
	category := fs.String("category", store.Wildcard, "категория или all")
	deleted := fs.Bool("deleted", false, "включить удалённые")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	if *toS3 && *out != "" {
		return ErrUsage
	}

	return withSession(cfg, false, func(s *bootstrap.Session) error {
		records := s.Library.Filter(store.Query{Category: *category, IncludeDeleted: *deleted})
		m := service.BuildManifest(records, s.Library.Stats(), time.Now())

		switch {
		case *toS3:
			s3cfg := service.S3Config{
				Endpoint:  cfg.S3Endpoint,
				AccessKey: cfg.S3AccessKey,
				SecretKey: cfg.S3SecretKey,
				Bucket:    cfg.S3Bucket,
				UseSSL:    cfg.S3UseSSL,
			}
			client, err := service.NewS3Client(s3cfg)
			if err != nil {
				return err
			}
			k, err := service.UploadManifest(ctx, client, s3cfg.Bucket, *key, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(Out, "✓ Экспортировано %d записей в s3://%s/%s\n", m.Count, s3cfg.Bucket, k)
		case *out != "":
			f, err := os.Create(*out)
			if err != nil {
				return fmt.Errorf("create %s: %w", *out, err)
			}
			if err := service.WriteManifest(f, m); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(Out, "✓ Экспортировано %d записей в %s\n", m.Count, *out)
		default:
			return service.WriteManifest(Out, m)
		}
		return nil
	})
}

func init() { RegisterCmd(exportCmd{}) }
