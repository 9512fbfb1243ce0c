package main

import (
	"github.com/LachlanBWWright/rsrcdump/cli"
)

func main() {
	cli.Start()
}
