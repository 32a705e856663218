package main

import "route-planning-service/cmd/server/cmd"

func main() {
	cmd.Execute()
}
