package main

import "github.com/averoza/stockroom/cmd"

func main() {
	cmd.Execute()
}
