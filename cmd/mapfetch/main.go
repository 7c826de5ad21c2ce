// Command mapfetch downloads a world file into the maps directory. It
// accepts any go-getter source string, so maps can come from plain HTTP,
// git repositories or cloud storage buckets.
package main

import (
	"flag"
	"log"
	"path/filepath"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		src = flag.String("src", "", "go-getter source URL of the map file")
		out = flag.String("o", "maps", "output directory")
	)
	flag.Parse()

	if *src == "" {
		log.Fatal("source URL required")
	}

	dst := filepath.Join(*out, filepath.Base(*src))

	log.Printf("fetching %s -> %s", *src, dst)
	if err := get.GetFile(dst, *src); err != nil {
		log.Fatalf("fetch map: %v", err)
	}
	log.Printf("done")
}
