package main

import "github.com/raghuporumamila/generic-bigquery/cmd"

func main() {
	cmd.Execute()
}
