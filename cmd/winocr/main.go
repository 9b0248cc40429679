package main

import "github.com/MeKo-Tech/winocr/cmd/winocr/cmd"

func main() {
	cmd.Execute()
}
