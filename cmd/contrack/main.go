package main

import "github.com/contech-dc/contrack/internal/cli/cmd"

func main() {
	cmd.Execute()
}
