package main

import "github.com/KaramelBytes/medprep-cli/cmd"

func main() {
	cmd.Execute()
}
