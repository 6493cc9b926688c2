package main

import "github.com/Tiliavir/sip/cmd"

func main() {
	cmd.Execute()
}
