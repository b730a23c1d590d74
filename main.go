package main

import "github.com/LegacyCodeHQ/proximity/cmd"

func main() {
	cmd.Execute()
}
