package main

import "github.com/jmhart/chatroom-go/internal/cli"

func main() {
	cli.Execute()
}
