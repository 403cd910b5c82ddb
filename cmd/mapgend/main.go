package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"mapgen/internal/config"
	"mapgen/internal/download"
	"mapgen/internal/generator"
	"mapgen/internal/logging"
	"mapgen/internal/tasks"
)

func main() {
	name := flag.String("name", "", "re-generate the map this canonical name describes")
	version := flag.String("version", "", "generator version (defaults to the built-in default)")
	seed := flag.Int64("seed", 0, "generation seed (used with -version; random when omitted)")
	seedSet := false
	listVersions := flag.Bool("versions", false, "list generator versions available in the artifact store")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewFromEnv()

	dl, err := download.NewS3Downloader(download.S3Config{
		Endpoint:  cfg.Store.Endpoint,
		Region:    cfg.Store.Region,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		Bucket:    cfg.Store.Bucket,
		UseSSL:    cfg.Store.UseSSL,
	}, cfg.CacheDir)
	if err != nil {
		log.Fatalf("artifact store: %v", err)
	}

	ctx := context.Background()

	if *listVersions {
		versions, err := dl.Versions(ctx)
		if err != nil {
			log.Fatalf("list versions: %v", err)
		}
		fmt.Println(strings.Join(versions, "\n"))
		return
	}

	runner := tasks.NewRunner(int64(cfg.MaxWorkers), logger)
	seeds := generator.NewSeedSource()
	svc := generator.NewService(generator.ServiceConfig{
		CacheDir:          cfg.CacheDir,
		OutputDir:         cfg.OutputDir,
		GenerationTimeout: cfg.GenerationTimeout,
		JavaBin:           cfg.JavaBin,
	}, dl, runner, seeds, logger)

	var generated string
	switch {
	case *name != "":
		generated, err = svc.GenerateFromName(ctx, *name)
	case *version != "" && seedSet:
		generated, err = svc.GenerateVersion(ctx, *version, *seed)
	case *version != "":
		generated, err = svc.GenerateVersion(ctx, *version, seeds.Next())
	default:
		generated, err = svc.Generate(ctx)
	}
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	fmt.Println(generated)
}
