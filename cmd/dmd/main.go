package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		base = flag.String("base", "", "viewer repository url, any go-getter source")
		ref  = flag.String("ref", "", "git ref of the viewer")
		sub  = flag.String("subdir", "dist", "directory inside the repository holding the built viewer")
		out  = flag.String("o", "./viewer", "output dir path, pass it to the server as -viewer-dir")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *base == "" {
		panic("viewer repository url required")
	}

	if err := os.RemoveAll(*out); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading viewer into %s", *out)

	url := fmt.Sprintf("git::%s", *base)
	if *sub != "" {
		url += "//" + *sub
	}
	if *ref != "" {
		url += "?ref=" + *ref
	}

	if err := get.Get(*out, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading viewer %s", *out)
}
