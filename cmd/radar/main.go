package main

import (
	"os"

	"github.com/huangzhongping/AIProjectCrawler/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
