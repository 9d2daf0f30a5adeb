package main

import "heavysync/cmd/heavysync-admin/commands"

func main() {
	commands.Execute()
}
