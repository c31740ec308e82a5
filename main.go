package main

import "github.com/AvaProtocol/aa-sdk/cmd"

func main() {
	cmd.Execute()
}
