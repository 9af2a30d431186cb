package main

import "github.com/jsphweid/harp/cmd"

func main() {
	cmd.Execute()
}
