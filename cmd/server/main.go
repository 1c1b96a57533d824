package main

import "thrive/internal/app/server"

func main() {
	server.Run()
}
