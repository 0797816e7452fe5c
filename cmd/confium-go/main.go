package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/confium/confium-go/pkg/confium"
	"github.com/confium/confium-go/pkg/confium/logging"
)

func main() {
	cfgPath := flag.String("config", "", "option file to validate")
	flag.Parse()

	log.Printf("confium-go version: %s", confium.WrapperVersion())

	c := confium.New(confium.Config{Logger: logging.FromEnv(nil, nil)})
	defer func() {
		if cerr := c.Close(); cerr != nil {
			log.Printf("close error: %v", cerr)
		}
	}()

	ctx := context.Background()
	failed := false

	if *cfgPath != "" {
		opts, err := c.Initialize(ctx, *cfgPath)
		if err != nil {
			fmt.Printf("config %s: %+v\n", *cfgPath, err)
			failed = true
		} else {
			for _, k := range opts.Keys() {
				fmt.Printf("config %s: %s = 0x%02X\n", *cfgPath, k, opts[k])
			}
		}
	}

	for _, path := range flag.Args() {
		lib, err := c.LoadPlugin(ctx, path)
		if err != nil {
			fmt.Printf("plugin %s: %+v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("plugin %s: %s\n", path, lib.Name())
	}
	fmt.Printf("%d plugin(s) loaded\n", c.PluginCount())

	if failed {
		_ = c.Close()
		os.Exit(1)
	}
}
