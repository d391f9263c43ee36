package main

import "github.com/junaidrashid-git/storefront/cli"

func main() {
	cli.Execute()
}
