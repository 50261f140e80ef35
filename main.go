package main

import "github.com/taskboard-app/taskboard/cmd"

func main() {
	cmd.Execute()
}
