package main

import "github.com/frahmantamala/attendance-report/cmd"

func main() {
	cmd.Execute()
}
