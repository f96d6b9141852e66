package main

import "traininghours/cmd"

func main() {
	cmd.Execute()
}
