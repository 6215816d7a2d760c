package main

import "github.com/naka-gawa/wuwu/cmd"

func main() {
	cmd.Execute()
}
