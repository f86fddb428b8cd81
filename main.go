package main

import "github.com/zhidateam/zdgotools/cmd"

func main() {
	cmd.Execute()
}
