package main

import "github.com/LegacyCodeHQ/dynpath/cmd"

func main() {
	cmd.Execute()
}
