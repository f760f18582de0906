package main

import "github.com/KaramelBytes/hysteria-cli/cmd"

func main() {
	cmd.Execute()
}
