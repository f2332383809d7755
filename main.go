package main

import "github.com/theirongolddev/lifeline/cmd"

func main() {
	cmd.Execute()
}
