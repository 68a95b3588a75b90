package main

import "bookrepository/internal"

func main() {
	internal.Setup()
}
