package main

import "github.com/KaramelBytes/drilldown-cli/cmd"

func main() {
	cmd.Execute()
}
