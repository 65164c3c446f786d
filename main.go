package main

import "github.com/alraedsec/work-management/cmd"

func main() {
	cmd.Execute()
}
