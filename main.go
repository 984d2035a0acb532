package main

import "github.com/redbadger/webdeploy/cmd"

func main() {
	cmd.Execute()
}
