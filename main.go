package main

import "github.com/josephlewis42/kesh/cmd"

func main() {
	cmd.Execute()
}
