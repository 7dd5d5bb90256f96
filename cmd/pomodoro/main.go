package main

import "github.com/adibhanna/pomodoro/internal/cli"

func main() {
	cli.Execute()
}
