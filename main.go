package main

import "codebrief/cmd"

func main() {
	cmd.Execute()
}
