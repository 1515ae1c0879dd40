package main

import "github.com/PeterBaptista/piano-midi/cmd"

func main() {
	cmd.Execute()
}
