package main

import "github.com/physicslab/phyengine-go/cmd/phyrun/cmd"

func main() {
	cmd.Execute()
}
