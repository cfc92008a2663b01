package main

import "github.com/Mohsinsiddi/bondwrap/cmd"

func main() {
	cmd.Execute()
}
