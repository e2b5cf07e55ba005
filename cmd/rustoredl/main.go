package main

import "github.com/huanfeng/rustoredl/cmd"

func main() {
	cmd.Execute()
}
