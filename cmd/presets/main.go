package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/arcticgen/internal/config"
)

func main() {
	var (
		src  = flag.String("src", "", "preset bundle source, any go-getter URL (e.g. git::https://host/repo.git)")
		name = flag.String("name", "default", "bundle subdirectory")
		out  = flag.String("o", "./presets", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *src == "" {
		panic("source url required")
	}

	path := filepath.Join(*out, *name)

	if err := os.RemoveAll(path); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading presets %s", path)

	url := fmt.Sprintf("%s//%s", *src, *name)
	if err := get.Get(path, url); err != nil {
		panic(err)
	}

	files, err := filepath.Glob(filepath.Join(path, "*.yaml"))
	if err != nil {
		panic(err)
	}
	bad := 0
	for _, f := range files {
		cfg, err := config.Load(f)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			log.Default().Printf("invalid preset %s: %v", f, err)
			bad++
		}
	}

	log.Default().Printf("done downloading presets %s: %d files, %d invalid", path, len(files), bad)
	if bad > 0 {
		os.Exit(1)
	}
}
