package main

import "go-fleet-ws/cmd/fleetctl/cmd"

func main() {
	cmd.Execute()
}
