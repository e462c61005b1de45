package main

import "github.com/dbsmedya/dwdash/cmd/dwdash/cmd"

func main() {
	cmd.Execute()
}
