package main

import "github.com/masmgr/branchdiff-go/cmd"

func main() {
	cmd.Run()
}
